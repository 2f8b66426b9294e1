package codegen

import (
	"fmt"

	"eigenscript.dev/eigenc/internal/ast"
)

// emitEntry lowers the module's top-level statements into a single
// function (named `main` or `<module>_init` per Config.LibraryMode,
// spec §4.C's option table).
func (g *gen) emitEntry(name string, stmts []*ast.Node) error {
	g.funcName = name
	retType := "i32"
	if g.cfg.LibraryMode {
		retType = "void"
	}
	g.emit2(fmt.Sprintf("define %s @%s() %s {", retType, name, funcAttrs()))
	g.emitLabel("entry")
	if err := g.lowerBlock(stmts); err != nil {
		return err
	}
	if g.cfg.LibraryMode {
		g.emit("ret void")
	} else {
		g.emit("ret i32 0")
	}
	g.emit2("}")
	return nil
}

// emitFunctionDef lowers a user FunctionDef (spec §4.C.3): external
// linkage, mangled as `<module>_<fn>`, one `double` parameter per
// declared name (a single implicit `n` when none are declared),
// `nounwind`.
func (g *gen) emitFunctionDef(n *ast.Node) error {
	params := n.Params
	if len(params) == 0 {
		params = []string{"n"}
	}
	mangled := g.cfg.ModuleName + "_" + n.Name

	paramDecls := make([]string, len(params))
	for i, p := range params {
		paramDecls[i] = fmt.Sprintf("double %%arg.%s", p)
	}
	g.emit2(fmt.Sprintf("define double @%s(%s) %s {", mangled, joinArgs(paramDecls), funcAttrs()))
	g.emitLabel("entry")

	g.pushScope()
	for _, p := range params {
		observed := g.cfg.isObserved(p)
		b := g.declareLocal(p, observed)
		g.storeVar(b, Value{Ref: "%arg." + p, Type: tyDouble})
	}

	g.funcName = mangled
	if err := g.lowerBlock(n.Body); err != nil {
		g.popScope()
		return err
	}
	// Fall-through return for a body that doesn't end in `return`
	// (spec is silent here; 0.0 matches the fast-path zero-value
	// convention used throughout §4.R).
	g.emit("ret double 0.0")
	g.popScope()

	g.emit2("}")
	return nil
}

// emit2 writes a line with no indentation — used for top-level
// function boundaries (`define ... {` / `}`) and labels, which aren't
// themselves instructions.
func (g *gen) emit2(line string) {
	g.body.WriteString(line)
	g.body.WriteByte('\n')
}

func (g *gen) lowerBlock(stmts []*ast.Node) error {
	for _, s := range stmts {
		if err := g.lowerStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *gen) lowerStmt(n *ast.Node) error {
	switch n.Kind {
	case ast.KindAssignment:
		return g.lowerAssignment(n)
	case ast.KindIf:
		return g.lowerIf(n)
	case ast.KindLoop:
		return g.lowerLoop(n)
	case ast.KindForIn:
		return g.lowerForIn(n)
	case ast.KindBreak:
		return g.lowerBreak(n)
	case ast.KindContinue:
		return g.lowerContinue(n)
	case ast.KindReturn:
		return g.lowerReturn(n)
	case ast.KindFunctionDef:
		return fmt.Errorf("%s: codegen: nested function definitions are not supported", posStr(n))
	default:
		_, err := g.lowerExpr(n)
		return err
	}
}

func (g *gen) lowerAssignment(n *ast.Node) error {
	val, err := g.lowerExpr(n.Expr)
	if err != nil {
		return err
	}
	if val.Type == tyPtrS || val.Type == tyPtrL || val.Type == tyPtrM {
		// Handle-typed bindings (string/list/matrix) are never
		// promoted to geometric scalars (spec §3: T tracks numeric
		// history only); store the handle directly in a pointer slot.
		return g.storeHandle(n.Name, val)
	}
	b := g.resolveAssignTarget(n.Name)
	g.storeVar(b, val)
	return nil
}

// storeHandle assigns a non-numeric (S/L/M) value to a name. These
// names are never observed — the resolver only ever marks a numeric
// binding observed (spec §4.C.1) — so the slot is a plain alloca of
// the handle's pointer type, created on first assignment.
func (g *gen) storeHandle(name string, val Value) error {
	b, ok := g.lookup(name)
	if !ok {
		g.tmp++
		slot := fmt.Sprintf("%%local.%s.%d", sanitizeIdent(name), g.tmp-1)
		b = &Binding{Name: name, Reg: slot}
		g.scopes[len(g.scopes)-1][name] = b
	}
	if !b.Created {
		g.emit(fmt.Sprintf("%s = alloca %s", b.Reg, val.Type))
		b.Created = true
	}
	g.emit(fmt.Sprintf("store %s %s, %s* %s", val.Type, val.Ref, val.Type, b.Reg))
	b.handleType = val.Type
	return nil
}

func (g *gen) lowerIf(n *ast.Node) error {
	cond, err := g.lowerExpr(n.Cond)
	if err != nil {
		return err
	}
	condBool := g.newTemp()
	g.emit(fmt.Sprintf("%s = fcmp one double %s, 0.0", condBool, cond.Ref))

	thenLabel := g.newLabel("if.then")
	elseLabel := g.newLabel("if.else")
	endLabel := g.newLabel("if.end")

	if len(n.Else) > 0 {
		g.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", condBool, thenLabel, elseLabel))
	} else {
		g.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", condBool, thenLabel, endLabel))
	}

	g.emitLabel(thenLabel)
	g.pushScope()
	if err := g.lowerBlock(n.Then); err != nil {
		g.popScope()
		return err
	}
	g.popScope()
	g.emit(fmt.Sprintf("br label %%%s", endLabel))

	if len(n.Else) > 0 {
		g.emitLabel(elseLabel)
		g.pushScope()
		if err := g.lowerBlock(n.Else); err != nil {
			g.popScope()
			return err
		}
		g.popScope()
		g.emit(fmt.Sprintf("br label %%%s", endLabel))
	}

	g.emitLabel(endLabel)
	return nil
}

// lowerLoop implements `loop while C:` (spec §4.C.3): header evaluates
// C, body runs, latch branches back to header. The implicit
// post-iteration track_value hook only fires when the body actually
// references a predicate — usesPredicate walks the body once to
// decide, so a loop with no predicate use costs nothing extra (this
// is the loop-level half of the observer effect).
func (g *gen) lowerLoop(n *ast.Node) error {
	header := g.newLabel("loop.header")
	body := g.newLabel("loop.body")
	exit := g.newLabel("loop.exit")

	g.emit(fmt.Sprintf("br label %%%s", header))
	g.emitLabel(header)
	cond, err := g.lowerExpr(n.Cond)
	if err != nil {
		return err
	}
	condBool := g.newTemp()
	g.emit(fmt.Sprintf("%s = fcmp one double %s, 0.0", condBool, cond.Ref))
	g.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", condBool, body, exit))

	g.emitLabel(body)
	g.loops = append(g.loops, loopCtx{continueLabel: header, breakLabel: exit})
	g.pushScope()
	lastAssigned := ""
	trackBody := bodyUsesPredicate(n.Body)
	for _, s := range n.Body {
		if err := g.lowerStmt(s); err != nil {
			g.popScope()
			g.loops = g.loops[:len(g.loops)-1]
			return err
		}
		if s.Kind == ast.KindAssignment {
			lastAssigned = s.Name
		}
	}
	if trackBody && lastAssigned != "" {
		g.emitTrackValue(lastAssigned)
	}
	g.popScope()
	g.loops = g.loops[:len(g.loops)-1]
	g.emit(fmt.Sprintf("br label %%%s", header))

	g.emitLabel(exit)
	return nil
}

// lowerForIn implements `loop for x in L:` (spec §4.C.3): iterates an
// L by index, binding x to each element, with the same implicit
// track_value hook as lowerLoop.
func (g *gen) lowerForIn(n *ast.Node) error {
	iter, err := g.lowerExpr(n.Iter)
	if err != nil {
		return err
	}
	g.use("eigen_L_length")
	lenTmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = call i64 @eigen_L_length(%%struct.L* %s)", lenTmp, iter.Ref))

	idxSlot := fmt.Sprintf("%%forin.idx.%d", g.tmp)
	g.tmp++
	g.emit(fmt.Sprintf("%s = alloca i64", idxSlot))
	g.emit(fmt.Sprintf("store i64 0, i64* %s", idxSlot))

	header := g.newLabel("forin.header")
	body := g.newLabel("forin.body")
	exit := g.newLabel("forin.exit")

	g.emit(fmt.Sprintf("br label %%%s", header))
	g.emitLabel(header)
	idxVal := g.newTemp()
	g.emit(fmt.Sprintf("%s = load i64, i64* %s", idxVal, idxSlot))
	cmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = icmp slt i64 %s, %s", cmp, idxVal, lenTmp))
	g.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cmp, body, exit))

	g.emitLabel(body)
	g.use("eigen_L_get")
	elem := g.newTemp()
	g.emit(fmt.Sprintf("%s = call double @eigen_L_get(%%struct.L* %s, i64 %s)", elem, iter.Ref, idxVal))

	g.loops = append(g.loops, loopCtx{continueLabel: header, breakLabel: exit})
	g.pushScope()
	bound := g.declareLocal(n.Name, g.cfg.isObserved(n.Name))
	g.storeVar(bound, Value{Ref: elem, Type: tyDouble})

	lastAssigned := n.Name
	for _, s := range n.Body {
		if err := g.lowerStmt(s); err != nil {
			g.popScope()
			g.loops = g.loops[:len(g.loops)-1]
			return err
		}
		if s.Kind == ast.KindAssignment {
			lastAssigned = s.Name
		}
	}
	if bodyUsesPredicate(n.Body) {
		g.emitTrackValue(lastAssigned)
	}
	g.popScope()
	g.loops = g.loops[:len(g.loops)-1]

	nextIdx := g.newTemp()
	g.emit(fmt.Sprintf("%s = add i64 %s, 1", nextIdx, idxVal))
	g.emit(fmt.Sprintf("store i64 %s, i64* %s", nextIdx, idxSlot))
	g.emit(fmt.Sprintf("br label %%%s", header))

	g.emitLabel(exit)
	return nil
}

// emitTrackValue feeds the process-wide tracker with name's current
// value, the mechanism that lets unscoped `converged`/`stable`/etc.
// see the current iterate (spec §4.C.3, last sentence of the loop
// bullet).
func (g *gen) emitTrackValue(name string) {
	b, ok := g.lookup(name)
	if !ok {
		return
	}
	v := g.loadVar(b)
	g.use("eigen_track_value")
	g.emit(fmt.Sprintf("call void @eigen_track_value(double %s)", v.Ref))
}

// bodyUsesPredicate walks a statement list for any Predicate node,
// without descending into nested function definitions (which can't
// appear inside a loop body per the grammar anyway).
func bodyUsesPredicate(stmts []*ast.Node) bool {
	for _, s := range stmts {
		if nodeUsesPredicate(s) {
			return true
		}
	}
	return false
}

func nodeUsesPredicate(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindPredicate {
		return true
	}
	for _, child := range []*ast.Node{n.Expr, n.Cond, n.Iter, n.Left, n.Right, n.Target, n.Idx, n.Start, n.End} {
		if nodeUsesPredicate(child) {
			return true
		}
	}
	for _, list := range [][]*ast.Node{n.Statements, n.Then, n.Else, n.Body, n.Args, n.Elements} {
		if bodyUsesPredicate(list) {
			return true
		}
	}
	return false
}

func (g *gen) lowerBreak(n *ast.Node) error {
	if len(g.loops) == 0 {
		return fmt.Errorf("%s: codegen: break outside a loop", posStr(n))
	}
	top := g.loops[len(g.loops)-1]
	g.emit(fmt.Sprintf("br label %%%s", top.breakLabel))
	unreachableLabel := g.newLabel("after.break")
	g.emitLabel(unreachableLabel)
	return nil
}

func (g *gen) lowerContinue(n *ast.Node) error {
	if len(g.loops) == 0 {
		return fmt.Errorf("%s: codegen: continue outside a loop", posStr(n))
	}
	top := g.loops[len(g.loops)-1]
	g.emit(fmt.Sprintf("br label %%%s", top.continueLabel))
	unreachableLabel := g.newLabel("after.continue")
	g.emitLabel(unreachableLabel)
	return nil
}

func (g *gen) lowerReturn(n *ast.Node) error {
	if n.Expr == nil {
		g.emit("ret double 0.0")
		unreachableLabel := g.newLabel("after.return")
		g.emitLabel(unreachableLabel)
		return nil
	}
	v, err := g.lowerExpr(n.Expr)
	if err != nil {
		return err
	}
	g.emit(fmt.Sprintf("ret double %s", v.Ref))
	unreachableLabel := g.newLabel("after.return")
	g.emitLabel(unreachableLabel)
	return nil
}
