package codegen

import (
	"fmt"
	"strings"

	"eigenscript.dev/eigenc/internal/ast"
)

// gen holds all per-module mutable emission state. It plays the same
// role as tinyrange-rtg/std/compiler/backend_ir.go's unexported
// writer type: one value threaded through every lowering method,
// accumulating output in a strings.Builder rather than returning
// fragments to be concatenated by the caller.
type gen struct {
	cfg  Config
	sym  *SymbolTable
	body strings.Builder

	used    map[string]bool
	strPool *stringPool

	tmp   int
	label int

	scopes   []map[string]*Binding
	globals  map[string]*Binding
	funcName string

	loops []loopCtx
	diags []Diagnostic
}

func newGen(cfg Config, sym *SymbolTable) *gen {
	if sym == nil {
		sym = NewSymbolTable()
	}
	return &gen{
		cfg:     cfg,
		sym:     sym,
		used:    map[string]bool{},
		strPool: newStringPool(),
		globals: map[string]*Binding{},
	}
}

func (g *gen) newTemp() string {
	g.tmp++
	return fmt.Sprintf("%%t%d", g.tmp-1)
}

func (g *gen) newLabel(prefix string) string {
	g.label++
	return fmt.Sprintf("%s%d", prefix, g.label-1)
}

func (g *gen) use(name string) {
	g.used[name] = true
}

func (g *gen) emit(line string) {
	g.body.WriteString("  ")
	g.body.WriteString(line)
	g.body.WriteByte('\n')
}

func (g *gen) emitLabel(name string) {
	g.body.WriteString(name)
	g.body.WriteString(":\n")
}

func (g *gen) pushScope() {
	g.scopes = append(g.scopes, map[string]*Binding{})
}

func (g *gen) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

// declareLocal registers a fresh local binding and returns it. The
// slot itself is alloca'd lazily by the first storeVar call (see
// fastpath.go) so a name that's never assigned never gets a dead
// alloca.
func (g *gen) declareLocal(name string, observed bool) *Binding {
	g.tmp++
	slot := fmt.Sprintf("%%local.%s.%d", sanitizeIdent(name), g.tmp-1)
	b := &Binding{Name: name, Observed: observed, Reg: slot}
	g.scopes[len(g.scopes)-1][name] = b
	return b
}

// sanitizeIdent strips characters LLVM identifiers can't carry raw;
// EigenScript identifiers are a stricter subset already, but this
// keeps slot names legal even if that ever changes.
func sanitizeIdent(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// lookup resolves name innermost-scope-first, falling back to module
// globals (spec §4.C's "Global scheme": an unqualified name inside a
// function body that isn't a local or a parameter refers to the
// enclosing module's global of the same name).
func (g *gen) lookup(name string) (*Binding, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if b, ok := g.scopes[i][name]; ok {
			return b, true
		}
	}
	if b, ok := g.globals[name]; ok {
		return b, true
	}
	return nil, false
}

// Emit lowers prog into a Module. cfg.ObservedVariables, when nil,
// falls back to prog.Observed — the resolver's own precomputed set —
// so callers that already have a resolved ast.Program don't have to
// duplicate it into Config by hand.
func Emit(prog *ast.Program, cfg Config, sym *SymbolTable) (*Module, error) {
	if cfg.ObservedVariables == nil {
		cfg.ObservedVariables = prog.Observed
	}
	if cfg.ModuleName == "" {
		cfg.ModuleName = prog.ModuleName
	}
	g := newGen(cfg, sym)
	g.pushScope()
	defer g.popScope()

	if err := g.declareModuleGlobals(prog.Statements); err != nil {
		return nil, err
	}

	var topLevel []*ast.Node
	var funcs []*ast.Node
	for _, stmt := range prog.Statements {
		if stmt.Kind == ast.KindFunctionDef {
			funcs = append(funcs, stmt)
		} else {
			topLevel = append(topLevel, stmt)
		}
	}

	for _, fn := range funcs {
		if err := g.emitFunctionDef(fn); err != nil {
			return nil, err
		}
	}

	initName := cfg.ModuleName + "_init"
	if !cfg.LibraryMode {
		initName = "main"
	}
	if err := g.emitEntry(initName, topLevel); err != nil {
		return nil, err
	}

	var out strings.Builder
	fmt.Fprintf(&out, "; ModuleID = '%s'\n", cfg.ModuleName)
	fmt.Fprintf(&out, "target triple = \"%s\"\n\n", cfg.TargetTriple)
	for _, line := range structTypeDecls {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	for name, b := range g.globals {
		if !b.IsGlobal {
			continue
		}
		out.WriteString(g.globalDefLine(name, b))
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	for _, line := range g.strPool.globals() {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	out.WriteString(g.body.String())
	out.WriteByte('\n')
	for _, line := range sortedRuntimeDecls(g.used) {
		out.WriteString(line)
		out.WriteByte('\n')
	}

	return &Module{
		Name:         cfg.ModuleName,
		IRText:       out.String(),
		RuntimeDecls: sortedRuntimeDecls(g.used),
		Diagnostics:  g.diags,
	}, nil
}

// globalDefLine renders a module-level global's `global` line: fast
// path globals are plain doubles, geometric globals are a null
// %struct.T* initialized lazily by the module's init function (spec
// §4.C's "Global scheme" — geometric state can't be a compile-time
// constant because eigen_T_create must run).
func (g *gen) globalDefLine(_ string, b *Binding) string {
	if b.Observed {
		return fmt.Sprintf("%s = global %s null", b.Reg, tyPtrT)
	}
	return fmt.Sprintf("%s = global double 0.0", b.Reg)
}

// resolveAssignTarget finds name's existing binding (local shadowing
// a global, or the global itself) or, if this is the name's first
// appearance anywhere, declares it as a new local.
func (g *gen) resolveAssignTarget(name string) *Binding {
	if b, ok := g.lookup(name); ok {
		return b
	}
	return g.declareLocal(name, g.cfg.isObserved(name))
}

// declareModuleGlobals pre-registers every top-level assignment
// target as a module global before any function body is lowered, so
// forward references (a function defined before the global's first
// assignment) still resolve (spec §4.C: globals are visible
// throughout the module regardless of definition order).
func (g *gen) declareModuleGlobals(stmts []*ast.Node) error {
	for _, stmt := range stmts {
		if stmt.Kind != ast.KindAssignment {
			continue
		}
		if _, exists := g.globals[stmt.Name]; exists {
			continue
		}
		if err := g.sym.Define(g.cfg.ModuleName, stmt.Name); err != nil {
			return err
		}
		observed := g.cfg.isObserved(stmt.Name)
		g.globals[stmt.Name] = &Binding{
			Name:     stmt.Name,
			Observed: observed,
			Reg:      globalName(stmt.Name),
			IsGlobal: true,
		}
	}
	return nil
}
