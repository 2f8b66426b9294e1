package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"eigenscript.dev/eigenc/internal/ast"
)

func numLit(v float64) *ast.Node {
	return &ast.Node{Kind: ast.KindLiteral, LitKind: ast.LitNumber, Number: v}
}

func ident(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindIdentifier, Name: name}
}

func assign(name string, expr *ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindAssignment, Name: name, Expr: expr}
}

// TestScenarioS1FastPath lowers `x is 42` with x unobserved (spec §8
// scenario S1 minus the external print call, which the front end
// would append as a Call node) and checks the fast path never touches
// any T_* runtime function (spec §8 property 9).
func TestScenarioS1FastPath(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "s1",
		Statements: []*ast.Node{assign("x", numLit(42))},
		Observed:   map[string]bool{},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Empty(t, mod.RuntimeDecls)
	require.Contains(t, mod.IRText, "@__eigs_global_x = global double 0.0")
	require.Contains(t, mod.IRText, "store double 42.0")
	require.NotContains(t, mod.IRText, "eigen_T_")
}

// TestScenarioS2FastPathArithmetic lowers `x is 42; y is x + 8`.
func TestScenarioS2FastPathArithmetic(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "s2",
		Statements: []*ast.Node{
			assign("x", numLit(42)),
			assign("y", &ast.Node{Kind: ast.KindBinaryOp, Op: "+", Left: ident("x"), Right: numLit(8)}),
		},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Contains(t, mod.IRText, "fadd double")
}

// TestObservedNameUsesGeometricPath checks that a name in
// ObservedVariables is lowered through the geometric path, never
// alloca'd as a raw double (spec §4.C.1). Top-level assignments are
// module globals, so this exercises the global-scope form: heap
// eigen_T_create on first assignment, eigen_T_update on reassignment.
func TestObservedNameUsesGeometricPath(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "s5",
		Statements: []*ast.Node{
			assign("x", numLit(1)),
			assign("x", numLit(2)),
		},
	}
	cfg := Config{TargetTriple: "x86_64-unknown-linux-gnu", ObservedVariables: map[string]bool{"x": true}}
	mod, err := Emit(prog, cfg, nil)
	require.NoError(t, err)
	require.Contains(t, mod.IRText, "call %struct.T* @eigen_T_create")
	require.Contains(t, mod.IRText, "call void @eigen_T_update")
	require.NotContains(t, mod.IRText, "alloca double")
}

// TestLocalObservedNameUsesStackScopedInit checks that an observed
// name local to a function body is stack-allocated (`alloca
// %struct.T` + eigen_T_init) instead of heap-allocated via
// eigen_T_create, which is reserved for module-level globals (spec
// §4.C.1/§4.C.2).
func TestLocalObservedNameUsesStackScopedInit(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "s6",
		Statements: []*ast.Node{
			{
				Kind:   ast.KindFunctionDef,
				Name:   "f",
				Params: []string{},
				Body: []*ast.Node{
					assign("x", numLit(1)),
					assign("x", numLit(2)),
				},
			},
		},
		Observed: map[string]bool{"x": true},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Contains(t, mod.IRText, "alloca %struct.T")
	require.Contains(t, mod.IRText, "call void @eigen_T_init")
	require.Contains(t, mod.IRText, "call void @eigen_T_update")
	require.NotContains(t, mod.IRText, "eigen_T_create")
}

// TestScopedPredicateLowersToCheckCall verifies `x is converged`
// lowers to eigen_T_check_converged on x's own pointer, not the
// process-wide tracker.
func TestScopedPredicateLowersToCheckCall(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "pred",
		Statements: []*ast.Node{
			assign("x", numLit(1)),
			assign("y", &ast.Node{Kind: ast.KindPredicate, PredicateKind: ast.Converged, Target: ident("x")}),
		},
		Observed: map[string]bool{"x": true},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Contains(t, mod.IRText, "call double @eigen_T_check_converged")
	require.NotContains(t, mod.IRText, "eigen_is_converged")
}

// TestUnscopedPredicateReadsTracker verifies an unscoped `converged`
// reads the process-wide tracker global, per spec §4.R.4.
func TestUnscopedPredicateReadsTracker(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "pred2",
		Statements: []*ast.Node{
			assign("y", &ast.Node{Kind: ast.KindPredicate, PredicateKind: ast.Converged}),
		},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Contains(t, mod.IRText, "call double @eigen_is_converged()")
}

// TestInterrogativeWhyRequiresObserved ensures the generator refuses
// to lower `why is x` on a fast-path name, since it has no gradient
// to report (spec §4.C.1: observedness is the resolver's job, but
// codegen must not silently emit nonsense for a malformed input).
func TestInterrogativeWhyRequiresObserved(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "bad",
		Statements: []*ast.Node{
			assign("x", numLit(1)),
			assign("g", &ast.Node{Kind: ast.KindInterrogative, InterrogativeKind: ast.Why, Target: ident("x")}),
		},
	}
	_, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.Error(t, err)
}

// TestStringLiteralsDeduplicated checks that two uses of the same
// string literal share one global (spec §4.C.3).
func TestStringLiteralsDeduplicated(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "strs",
		Statements: []*ast.Node{
			assign("a", &ast.Node{Kind: ast.KindLiteral, LitKind: ast.LitString, Str: "hi"}),
			assign("b", &ast.Node{Kind: ast.KindLiteral, LitKind: ast.LitString, Str: "hi"}),
		},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(mod.IRText, "private unnamed_addr constant"))
}

// TestListLiteralCreatesEmptyThenAppends is spec §8 scenario S3
// (`nums is [10, 20, 30]`): the list must start at length 0 so the
// three eigen_L_append calls land the literal's values at indices
// 0..2, not N..2N-1 against an already length-N list.
func TestListLiteralCreatesEmptyThenAppends(t *testing.T) {
	prog := &ast.Program{
		ModuleName: "s3",
		Statements: []*ast.Node{
			assign("nums", &ast.Node{
				Kind:     ast.KindListLiteral,
				Elements: []*ast.Node{numLit(10), numLit(20), numLit(30)},
			}),
		},
	}
	mod, err := Emit(prog, Config{TargetTriple: "x86_64-unknown-linux-gnu"}, nil)
	require.NoError(t, err)
	require.Contains(t, mod.IRText, "call %struct.L* @eigen_L_create(i64 0)")
	require.Equal(t, 3, strings.Count(mod.IRText, "call void @eigen_L_append"))
	require.NotContains(t, mod.IRText, "eigen_L_create(i64 3)")
}

func TestSymbolTableConflict(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.Define("mod_a", "shared"))
	require.Error(t, st.Define("mod_b", "shared"))
	require.NoError(t, st.Define("mod_a", "shared"))
}
