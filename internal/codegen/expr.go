package codegen

import (
	"fmt"

	"eigenscript.dev/eigenc/internal/ast"
)

// lowerExpr dispatches on node.Kind, mirroring the switch shape of
// tinyrange-rtg/std/compiler/backend_ir.go's opcode emitter but
// operating over a tree instead of a flat bytecode stream.
func (g *gen) lowerExpr(n *ast.Node) (Value, error) {
	switch n.Kind {
	case ast.KindLiteral:
		return g.lowerLiteral(n)
	case ast.KindIdentifier:
		b, ok := g.lookup(n.Name)
		if !ok {
			return Value{}, fmt.Errorf("%s: undefined identifier %q", posStr(n), n.Name)
		}
		return g.loadVar(b), nil
	case ast.KindBinaryOp:
		return g.lowerBinaryOp(n)
	case ast.KindUnaryOp:
		return g.lowerUnaryOp(n)
	case ast.KindCall:
		return g.lowerCall(n)
	case ast.KindInterrogative:
		return g.lowerInterrogative(n)
	case ast.KindPredicate:
		return g.lowerPredicate(n)
	case ast.KindListLiteral:
		return g.lowerListLiteral(n)
	case ast.KindIndex:
		return g.lowerIndex(n)
	case ast.KindSlice:
		return g.lowerSlice(n)
	default:
		return Value{}, fmt.Errorf("%s: codegen: unsupported expression kind %q", posStr(n), n.Kind)
	}
}

func posStr(n *ast.Node) string {
	return fmt.Sprintf("%s:%d:%d", n.Pos.File, n.Pos.Line, n.Pos.Col)
}

func (g *gen) lowerLiteral(n *ast.Node) (Value, error) {
	switch n.LitKind {
	case ast.LitNumber:
		return Value{Ref: formatDoubleLit(n.Number), Type: tyDouble}, nil
	case ast.LitBool:
		if n.Bool {
			return Value{Ref: "1.0", Type: tyDouble}, nil
		}
		return Value{Ref: "0.0", Type: tyDouble}, nil
	case ast.LitString:
		return g.lowerStringLiteral(n.Str), nil
	case ast.LitNull:
		return Value{Ref: "null", Type: tyPtrS}, nil
	default:
		return Value{}, fmt.Errorf("%s: codegen: unknown literal kind %q", posStr(n), n.LitKind)
	}
}

// lowerStringLiteral materializes an interned string global into a
// %struct.S* at runtime via eigen_S_from_cstr, since string values in
// EigenScript are always S handles, never raw i8* (spec §3).
func (g *gen) lowerStringLiteral(s string) Value {
	global := g.strPool.intern(s)
	_, n := escapeIRString(s)
	castTmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = getelementptr [%d x i8], [%d x i8]* %s, i64 0, i64 0", castTmp, n, n, global))
	sTmp := g.newTemp()
	g.use("eigen_S_from_cstr")
	g.emit(fmt.Sprintf("%s = call %%struct.S* @eigen_S_from_cstr(i8* %s)", sTmp, castTmp))
	return Value{Ref: sTmp, Type: tyPtrS}
}

func formatDoubleLit(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d.0", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// lowerBinaryOp maps a spec §4.C binary operator to the LLVM
// instruction or runtime call it lowers to. Comparisons produce `i1`
// and are canonicalized to 0.0/1.0 doubles immediately (spec §4.C:
// "EigenScript has no boolean type distinct from number").
func (g *gen) lowerBinaryOp(n *ast.Node) (Value, error) {
	left, err := g.lowerExpr(n.Left)
	if err != nil {
		return Value{}, err
	}

	if n.Op == "and" || n.Op == "or" {
		return g.lowerShortCircuit(n, left)
	}

	right, err := g.lowerExpr(n.Right)
	if err != nil {
		return Value{}, err
	}

	if left.Type == tyPtrS || right.Type == tyPtrS {
		return g.lowerStringOp(n, left, right)
	}

	switch n.Op {
	case "+":
		return g.arith(n, "fadd", left, right)
	case "-":
		return g.arith(n, "fsub", left, right)
	case "*":
		return g.arith(n, "fmul", left, right)
	case "/":
		return g.arith(n, "fdiv", left, right)
	case "%":
		return g.arith(n, "frem", left, right)
	case "==":
		return g.compare(n, "oeq", left, right)
	case "!=":
		return g.compare(n, "one", left, right)
	case "<":
		return g.compare(n, "olt", left, right)
	case "<=":
		return g.compare(n, "ole", left, right)
	case ">":
		return g.compare(n, "ogt", left, right)
	case ">=":
		return g.compare(n, "oge", left, right)
	default:
		return Value{}, fmt.Errorf("%s: codegen: unknown binary operator %q", posStr(n), n.Op)
	}
}

func (g *gen) arith(n *ast.Node, instr string, left, right Value) (Value, error) {
	tmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = %s double %s, %s", tmp, instr, left.Ref, right.Ref))
	return Value{Ref: tmp, Type: tyDouble}, nil
}

// compare lowers to `fcmp` then widens i1 to a canonical 0.0/1.0
// double, since every EigenScript value that flows through an
// assignment or call argument is a double (or a handle pointer), not
// a raw i1.
func (g *gen) compare(n *ast.Node, pred string, left, right Value) (Value, error) {
	cmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = fcmp %s double %s, %s", cmp, pred, left.Ref, right.Ref))
	widened := g.newTemp()
	g.emit(fmt.Sprintf("%s = uitofp i1 %s to double", widened, cmp))
	return Value{Ref: widened, Type: tyDouble}, nil
}

// lowerStringOp handles `+` (concat) and `==`/`!=` (eigen_S_equals)
// between two S handles; any other operator on a string operand is a
// resolver-time type error and should never reach codegen.
func (g *gen) lowerStringOp(n *ast.Node, left, right Value) (Value, error) {
	switch n.Op {
	case "+":
		tmp := g.newTemp()
		g.use("eigen_S_concat")
		g.emit(fmt.Sprintf("%s = call %%struct.S* @eigen_S_concat(%%struct.S* %s, %%struct.S* %s)", tmp, left.Ref, right.Ref))
		return Value{Ref: tmp, Type: tyPtrS}, nil
	case "==", "!=":
		tmp := g.newTemp()
		g.use("eigen_S_equals")
		g.emit(fmt.Sprintf("%s = call double @eigen_S_equals(%%struct.S* %s, %%struct.S* %s)", tmp, left.Ref, right.Ref))
		if n.Op == "!=" {
			neg := g.newTemp()
			g.emit(fmt.Sprintf("%s = fsub double 1.0, %s", neg, tmp))
			return Value{Ref: neg, Type: tyDouble}, nil
		}
		return Value{Ref: tmp, Type: tyDouble}, nil
	default:
		return Value{}, fmt.Errorf("%s: codegen: operator %q not defined on strings", posStr(n), n.Op)
	}
}

// lowerShortCircuit implements `and`/`or` with real control flow
// (not eager double-evaluation of the RHS) since the RHS may be a
// call with side effects (spec §4.C: "and/or short-circuit").
func (g *gen) lowerShortCircuit(n *ast.Node, left Value) (Value, error) {
	isOr := n.Op == "or"
	rhsLabel := g.newLabel("sc.rhs")
	doneLabel := g.newLabel("sc.done")

	leftBool := g.newTemp()
	g.emit(fmt.Sprintf("%s = fcmp one double %s, 0.0", leftBool, left.Ref))
	entryLabel := g.newLabel("sc.entry")
	g.emitLabel(entryLabel)
	if isOr {
		g.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", leftBool, doneLabel, rhsLabel))
	} else {
		g.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", leftBool, rhsLabel, doneLabel))
	}

	g.emitLabel(rhsLabel)
	right, err := g.lowerExpr(n.Right)
	if err != nil {
		return Value{}, err
	}
	rightBool := g.newTemp()
	g.emit(fmt.Sprintf("%s = fcmp one double %s, 0.0", rightBool, right.Ref))
	rightEnd := g.newLabel("sc.rhs.end")
	g.emitLabel(rightEnd)
	g.emit(fmt.Sprintf("br label %%%s", doneLabel))

	g.emitLabel(doneLabel)
	resultBool := g.newTemp()
	g.emit(fmt.Sprintf("%s = phi i1 [ %s, %%%s ], [ %s, %%%s ]", resultBool, leftBool, entryLabel, rightBool, rightEnd))
	result := g.newTemp()
	g.emit(fmt.Sprintf("%s = uitofp i1 %s to double", result, resultBool))
	return Value{Ref: result, Type: tyDouble}, nil
}

func (g *gen) lowerUnaryOp(n *ast.Node) (Value, error) {
	operand, err := g.lowerExpr(n.Left)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "-":
		tmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = fsub double 0.0, %s", tmp, operand.Ref))
		return Value{Ref: tmp, Type: tyDouble}, nil
	case "not":
		cmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = fcmp oeq double %s, 0.0", cmp, operand.Ref))
		widened := g.newTemp()
		g.emit(fmt.Sprintf("%s = uitofp i1 %s to double", widened, cmp))
		return Value{Ref: widened, Type: tyDouble}, nil
	default:
		return Value{}, fmt.Errorf("%s: codegen: unknown unary operator %q", posStr(n), n.Op)
	}
}

// builtinCalls maps EigenScript builtin function names directly onto
// runtime entry points (spec §6.2); a call whose Fn isn't in this
// table is assumed to be a user-defined function of this module and is
// emitted as a plain `call double @<module>_<name>(...)`, the same
// mangling emitFunctionDef defines it under.
var builtinCalls = map[string]struct {
	runtime string
	retType string
}{
	"sqrt":  {"eigen_sqrt", tyDouble},
	"abs":   {"eigen_abs", tyDouble},
	"pow":   {"eigen_pow", tyDouble},
	"log":   {"eigen_log", tyDouble},
	"exp":   {"eigen_exp", tyDouble},
	"sin":   {"eigen_sin", tyDouble},
	"cos":   {"eigen_cos", tyDouble},
	"floor": {"eigen_floor", tyDouble},
	"ceil":  {"eigen_ceil", tyDouble},
	"round": {"eigen_round", tyDouble},
	"print": {"eigen_print_val", tyVoid},
}

func (g *gen) lowerCall(n *ast.Node) (Value, error) {
	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := g.lowerExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	if b, ok := builtinCalls[n.Fn]; ok {
		g.use(b.runtime)
		return g.emitCall(b.runtime, b.retType, args)
	}
	return g.emitCall(g.cfg.ModuleName+"_"+n.Fn, tyDouble, args)
}

func (g *gen) emitCall(name, retType string, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s %s", a.Type, a.Ref)
	}
	argList := joinArgs(parts)
	if retType == tyVoid {
		g.emit(fmt.Sprintf("call void @%s(%s)", name, argList))
		return Value{Ref: "", Type: tyVoid}, nil
	}
	tmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = call %s @%s(%s)", tmp, retType, name, argList))
	return Value{Ref: tmp, Type: retType}, nil
}

func joinArgs(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func (g *gen) lowerListLiteral(n *ast.Node) (Value, error) {
	list := g.newTemp()
	g.use("eigen_L_create")
	g.emit(fmt.Sprintf("%s = call %%struct.L* @eigen_L_create(i64 0)", list))
	g.use("eigen_L_append")
	for _, el := range n.Elements {
		v, err := g.lowerExpr(el)
		if err != nil {
			return Value{}, err
		}
		g.emit(fmt.Sprintf("call void @eigen_L_append(%%struct.L* %s, double %s)", list, v.Ref))
	}
	return Value{Ref: list, Type: tyPtrL}, nil
}

func (g *gen) lowerIndex(n *ast.Node) (Value, error) {
	target, err := g.lowerExpr(n.Target)
	if err != nil {
		return Value{}, err
	}
	idx, err := g.lowerExpr(n.Idx)
	if err != nil {
		return Value{}, err
	}
	idxInt := g.newTemp()
	g.emit(fmt.Sprintf("%s = fptosi double %s to i64", idxInt, idx.Ref))
	g.use("eigen_L_get")
	tmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = call double @eigen_L_get(%%struct.L* %s, i64 %s)", tmp, target.Ref, idxInt))
	return Value{Ref: tmp, Type: tyDouble}, nil
}

func (g *gen) lowerSlice(n *ast.Node) (Value, error) {
	target, err := g.lowerExpr(n.Target)
	if err != nil {
		return Value{}, err
	}
	start, err := g.lowerExpr(n.Start)
	if err != nil {
		return Value{}, err
	}
	end, err := g.lowerExpr(n.End)
	if err != nil {
		return Value{}, err
	}
	startInt := g.newTemp()
	g.emit(fmt.Sprintf("%s = fptosi double %s to i64", startInt, start.Ref))
	endInt := g.newTemp()
	g.emit(fmt.Sprintf("%s = fptosi double %s to i64", endInt, end.Ref))
	g.use("eigen_L_slice")
	tmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = call %%struct.L* @eigen_L_slice(%%struct.L* %s, i64 %s, i64 %s)", tmp, target.Ref, startInt, endInt))
	return Value{Ref: tmp, Type: tyPtrL}, nil
}
