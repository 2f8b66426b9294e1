package codegen

import (
	"fmt"

	"eigenscript.dev/eigenc/internal/ast"
)

// lowerInterrogative implements spec §4.C.3's interrogative table.
// `what` degrades gracefully on a fast-path name (it's already the
// value); every other interrogative requires a geometric binding,
// since there's no gradient/stability/iteration/identity to ask a raw
// double for.
func (g *gen) lowerInterrogative(n *ast.Node) (Value, error) {
	target := n.Target
	if target == nil || target.Kind != ast.KindIdentifier {
		return Value{}, fmt.Errorf("%s: codegen: interrogative target must be a bound name", posStr(n))
	}
	b, ok := g.lookup(target.Name)
	if !ok {
		return Value{}, fmt.Errorf("%s: undefined identifier %q", posStr(n), target.Name)
	}

	if n.InterrogativeKind == ast.What && !b.Observed {
		return g.loadVar(b), nil
	}

	if !b.Observed {
		return Value{}, fmt.Errorf("%s: codegen: %q is not observed but is queried with %q", posStr(n), target.Name, n.InterrogativeKind)
	}

	ptr := g.loadGeometricPtr(b)
	switch n.InterrogativeKind {
	case ast.What:
		return g.callAccessor("eigen_T_value", ptr)
	case ast.Why:
		return g.callAccessor("eigen_T_gradient", ptr)
	case ast.How:
		return g.callAccessor("eigen_T_stability", ptr)
	case ast.When:
		g.use("eigen_T_iteration")
		iTmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = call i64 @eigen_T_iteration(%%struct.T* %s)", iTmp, ptr))
		dTmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = sitofp i64 %s to double", dTmp, iTmp))
		return Value{Ref: dTmp, Type: tyDouble}, nil
	case ast.Who:
		return g.callAccessor("eigen_T_who", ptr)
	case ast.Where:
		// Reserved (spec §4.C.3): always 0.0, no runtime call.
		return Value{Ref: "0.0", Type: tyDouble}, nil
	default:
		return Value{}, fmt.Errorf("%s: codegen: unknown interrogative %q", posStr(n), n.InterrogativeKind)
	}
}

func (g *gen) callAccessor(name, ptr string) (Value, error) {
	g.use(name)
	tmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = call double @%s(%%struct.T* %s)", tmp, name, ptr))
	return Value{Ref: tmp, Type: tyDouble}, nil
}

// scopedPredicateRuntime are the predicate kinds with a per-scalar
// T_check_* entry point (spec §4.R.1); the remaining five kinds exist
// only as process-wide tracker reads (spec §4.R.4).
var scopedPredicateRuntime = map[ast.PredicateKind]string{
	ast.Converged:   "eigen_T_check_converged",
	ast.Diverging:   "eigen_T_check_diverging",
	ast.Oscillating: "eigen_T_check_oscillating",
	ast.Stable:      "eigen_T_check_stable",
	ast.Improving:   "eigen_T_check_improving",
}

var unscopedPredicateRuntime = map[ast.PredicateKind]string{
	ast.Converged:   "eigen_is_converged",
	ast.Stable:      "eigen_is_stable",
	ast.Diverging:   "eigen_is_diverging",
	ast.Oscillating: "eigen_is_oscillating",
	ast.Improving:   "eigen_is_improving",
	ast.Equilibrium: "eigen_is_equilibrium",
	ast.Stuck:       "eigen_is_stuck",
	ast.Chaotic:     "eigen_is_chaotic",
	ast.Settled:     "eigen_is_settled",
	ast.Balanced:    "eigen_is_balanced",
}

// lowerPredicate implements spec §4.C.3's "Predicates" lowering rule:
// `x is converged` reads x's own history; unscoped `converged` reads
// the process-wide tracker (§4.R.4) that the enclosing loop's
// implicit track_value hook feeds (see stmt.go's loop lowering).
func (g *gen) lowerPredicate(n *ast.Node) (Value, error) {
	if n.Target == nil {
		name, ok := unscopedPredicateRuntime[n.PredicateKind]
		if !ok {
			return Value{}, fmt.Errorf("%s: codegen: predicate %q has no unscoped form", posStr(n), n.PredicateKind)
		}
		g.use(name)
		tmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = call double @%s()", tmp, name))
		return Value{Ref: tmp, Type: tyDouble}, nil
	}

	if n.Target.Kind != ast.KindIdentifier {
		return Value{}, fmt.Errorf("%s: codegen: scoped predicate target must be a bound name", posStr(n))
	}
	b, ok := g.lookup(n.Target.Name)
	if !ok {
		return Value{}, fmt.Errorf("%s: undefined identifier %q", posStr(n), n.Target.Name)
	}
	if !b.Observed {
		return Value{}, fmt.Errorf("%s: codegen: %q is not observed but is queried with a scoped predicate", posStr(n), n.Target.Name)
	}
	name, ok := scopedPredicateRuntime[n.PredicateKind]
	if !ok {
		return Value{}, fmt.Errorf("%s: codegen: predicate %q has no scoped (per-scalar) form", posStr(n), n.PredicateKind)
	}
	ptr := g.loadGeometricPtr(b)
	return g.callAccessor(name, ptr)
}
