package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostic is a non-fatal note the generator can collect while
// emitting (no lowering step records one at present, so
// Module.Diagnostics is always empty); fatal emission failures are returned as errors from Emit, matching
// driver.CompileError's contract in spec §4.D/§7.
type Diagnostic struct {
	Message string
}

// Module is the result of lowering one ast.Program: the IR text plus
// the set of runtime declarations the generated calls require. Emit
// writes exactly these `declare` lines into IRText, so the module
// declares only what's actually called; RuntimeDecls lists the same
// lines for callers (internal/pipeline reads only IRText) — this project's
// much smaller analogue of tinyrange-rtg/std/compiler/dce.go's
// reachability-based function pruning, scoped to runtime decls rather
// than full functions (real DCE is left to the LLVM `opt` passes in
// internal/pipeline).
type Module struct {
	Name          string
	IRText        string
	RuntimeDecls  []string
	Diagnostics   []Diagnostic
}

// SymbolTable tracks cross-module global ownership (spec §4.C, "Global
// scheme"): at most one defining module per symbol. Grounded on
// tinyrange-rtg/std/compiler/frontend.go's Package.qualNames/
// qualPtrNames qualified-name bookkeeping, generalized from per-package
// Go symbols to per-module EigenScript globals.
type SymbolTable struct {
	definingModule map[string]string // global name -> module that defines it
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{definingModule: map[string]string{}}
}

// Define records module as the defining module of name. It returns an
// error if another module already defines the same name — this is
// the driver-level check spec §4.C asks for ("conflicts are a hard
// error at link time"), surfaced earlier instead of only at `cc` time.
func (st *SymbolTable) Define(module, name string) error {
	if existing, ok := st.definingModule[name]; ok && existing != module {
		return fmt.Errorf("global %q defined in both %q and %q", name, existing, module)
	}
	st.definingModule[name] = module
	return nil
}

// globalName produces the §4.C mangled name for a top-level binding.
func globalName(name string) string {
	return "@__eigs_global_" + name
}

// runtimeDeclSignatures is the fixed ABI signature table the emitter
// consults when it needs to emit a `declare` line (spec §6.2, §4.C.4).
// Attribute sets follow §4.C.4 exactly: accessors are `nounwind
// readonly`, T_update/allocation/user functions are `nounwind`, and
// T_init/T_value additionally get `alwaysinline` so they inline at
// -O1+ per §4.P's LTO-equivalent requirement.
var runtimeDeclSignatures = map[string]string{
	"eigen_T_create":            "declare %struct.T* @eigen_T_create(double) nounwind",
	"eigen_T_init":               "declare void @eigen_T_init(%struct.T*, double) nounwind alwaysinline",
	"eigen_T_update":             "declare void @eigen_T_update(%struct.T*, double) nounwind",
	"eigen_T_destroy":            "declare void @eigen_T_destroy(%struct.T*) nounwind",
	"eigen_T_value":              "declare double @eigen_T_value(%struct.T*) nounwind readonly alwaysinline",
	"eigen_T_gradient":           "declare double @eigen_T_gradient(%struct.T*) nounwind readonly",
	"eigen_T_stability":          "declare double @eigen_T_stability(%struct.T*) nounwind readonly",
	"eigen_T_iteration":          "declare i64 @eigen_T_iteration(%struct.T*) nounwind readonly",
	"eigen_T_check_converged":    "declare double @eigen_T_check_converged(%struct.T*) nounwind readonly",
	"eigen_T_check_diverging":    "declare double @eigen_T_check_diverging(%struct.T*) nounwind readonly",
	"eigen_T_check_oscillating":  "declare double @eigen_T_check_oscillating(%struct.T*) nounwind readonly",
	"eigen_T_check_stable":       "declare double @eigen_T_check_stable(%struct.T*) nounwind readonly",
	"eigen_T_check_improving":    "declare double @eigen_T_check_improving(%struct.T*) nounwind readonly",
	"eigen_T_who":                "declare double @eigen_T_who(%struct.T*) nounwind readonly",

	"eigen_L_create":  "declare %struct.L* @eigen_L_create(i64) nounwind",
	"eigen_L_destroy": "declare void @eigen_L_destroy(%struct.L*) nounwind",
	"eigen_L_get":     "declare double @eigen_L_get(%struct.L*, i64) nounwind",
	"eigen_L_set":     "declare void @eigen_L_set(%struct.L*, i64, double) nounwind",
	"eigen_L_length":  "declare i64 @eigen_L_length(%struct.L*) nounwind readonly",
	"eigen_L_append":  "declare void @eigen_L_append(%struct.L*, double) nounwind",
	"eigen_L_slice":   "declare %struct.L* @eigen_L_slice(%struct.L*, i64, i64) nounwind",

	"eigen_S_from_cstr":    "declare %struct.S* @eigen_S_from_cstr(i8*) nounwind",
	"eigen_S_concat":       "declare %struct.S* @eigen_S_concat(%struct.S*, %struct.S*) nounwind",
	"eigen_S_equals":       "declare double @eigen_S_equals(%struct.S*, %struct.S*) nounwind readonly",
	"eigen_number_to_string": "declare %struct.S* @eigen_number_to_string(double) nounwind",
	"eigen_string_to_number": "declare double @eigen_string_to_number(%struct.S*) nounwind readonly",

	"eigen_sqrt":  "declare double @eigen_sqrt(double) nounwind readonly",
	"eigen_abs":   "declare double @eigen_abs(double) nounwind readonly",
	"eigen_pow":   "declare double @eigen_pow(double, double) nounwind readonly",
	"eigen_log":   "declare double @eigen_log(double) nounwind readonly",
	"eigen_exp":   "declare double @eigen_exp(double) nounwind readonly",
	"eigen_sin":   "declare double @eigen_sin(double) nounwind readonly",
	"eigen_cos":   "declare double @eigen_cos(double) nounwind readonly",
	"eigen_floor": "declare double @eigen_floor(double) nounwind readonly",
	"eigen_ceil":  "declare double @eigen_ceil(double) nounwind readonly",
	"eigen_round": "declare double @eigen_round(double) nounwind readonly",

	"eigen_print_double":   "declare void @eigen_print_double(double) nounwind",
	"eigen_print_string":   "declare void @eigen_print_string(%struct.S*) nounwind",
	"eigen_print_newline":  "declare void @eigen_print_newline() nounwind",
	"eigen_print_val":      "declare void @eigen_print_val(double) nounwind",

	"eigen_track_value":    "declare void @eigen_track_value(double) nounwind",
	"eigen_is_converged":   "declare double @eigen_is_converged() nounwind",
	"eigen_is_stable":      "declare double @eigen_is_stable() nounwind",
	"eigen_is_diverging":   "declare double @eigen_is_diverging() nounwind",
	"eigen_is_oscillating": "declare double @eigen_is_oscillating() nounwind",
	"eigen_is_improving":   "declare double @eigen_is_improving() nounwind",
	"eigen_is_equilibrium": "declare double @eigen_is_equilibrium() nounwind",
	"eigen_is_stuck":       "declare double @eigen_is_stuck() nounwind",
	"eigen_is_chaotic":     "declare double @eigen_is_chaotic() nounwind",
	"eigen_is_settled":     "declare double @eigen_is_settled() nounwind",
	"eigen_is_balanced":    "declare double @eigen_is_balanced() nounwind",
	"eigen_was_is":         "declare double @eigen_was_is() nounwind",
	"eigen_change_is":      "declare double @eigen_change_is(double) nounwind",
	"eigen_trend_is":       "declare double @eigen_trend_is(double) nounwind",
}

// sortedRuntimeDecls renders the `declare` lines for exactly the
// runtime functions used, in a stable order (stable output is part of
// spec §8's determinism contract).
func sortedRuntimeDecls(used map[string]bool) []string {
	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	sort.Strings(names)
	decls := make([]string, 0, len(names))
	for _, name := range names {
		sig, ok := runtimeDeclSignatures[name]
		if !ok {
			continue
		}
		decls = append(decls, sig)
	}
	return decls
}

// structTypeDecls are the struct forward-declarations every module
// needs regardless of which runtime ops it calls (spec §3's four
// entity kinds). L/S/M stay opaque handles — every op against them
// goes through the runtime by pointer, never a local stack slot. T
// gets a full field body mirroring runtimec/abi.h's eigen_T layout
// byte-for-byte, because spec §4.C.1/§4.C.2 requires function-local
// tracked scalars to live in an `alloca %struct.T` stack slot, and an
// opaque type has no size to alloca.
var structTypeDecls = []string{
	"%struct.T = type { double, double, double, i64, double, double, [100 x double], i32, i32 }",
	"%struct.L = type opaque",
	"%struct.S = type opaque",
	"%struct.M = type opaque",
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
