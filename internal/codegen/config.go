// Package codegen lowers an internal/ast tree into textual LLVM IR
// (spec §4.C). It is the direct generalization of
// tinyrange-rtg/std/compiler/backend_ir.go's textual-dump backend —
// same one-opcode-at-a-time strings.Builder style — retargeted from a
// debug dump format onto real LLVM IR syntax, and of
// hhramberg-go-vslc's llvm package for the observed-vs-fast symbol
// table split (see DESIGN.md).
package codegen

// Config mirrors the option table of spec §4.C exactly.
type Config struct {
	// ObservedVariables names the resolver's observed set (spec
	// §4.C.1): a name in this set is lowered on the geometric path.
	ObservedVariables map[string]bool
	// TargetTriple governs pointer width, address-space choices, and
	// default calling convention.
	TargetTriple string
	// ModuleName is the emitted module identifier.
	ModuleName string
	// LibraryMode suppresses `main`; top-level statements move into
	// `<module>_init()` with external linkage (spec §4.C).
	LibraryMode bool
	// OptLevel feeds the pipeline-tuning decisions of spec §4.P; the
	// generator itself does not read it (it doesn't change emitted IR).
	OptLevel int
}

func (c Config) isObserved(name string) bool {
	if c.ObservedVariables == nil {
		return false
	}
	return c.ObservedVariables[name]
}

// DefaultConfig returns a Config with a library-default module name
// and the host-neutral triple used by every test scenario in spec §8.
func DefaultConfig() Config {
	return Config{
		ObservedVariables: map[string]bool{},
		TargetTriple:      "x86_64-unknown-linux-gnu",
		ModuleName:        "main",
		OptLevel:          2,
	}
}
