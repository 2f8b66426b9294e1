package codegen

// Value is an SSA operand: an LLVM register or constant reference
// paired with its IR type. Every expr.go lowering function returns
// one of these instead of a bare string, so stmt.go and expr.go
// callers never have to guess what they got back.
type Value struct {
	Ref  string
	Type string
}

const (
	tyDouble = "double"
	tyI1     = "i1"
	tyI64    = "i64"
	tyVoid   = "void"
	tyPtrT   = "%struct.T*"
	tyPtrL   = "%struct.L*"
	tyPtrS   = "%struct.S*"
	tyPtrM   = "%struct.M*"
	tyPtrI8  = "i8*"
)

// Binding is a lexical variable: a fast-path binding's Reg is a
// double slot (an `alloca double` for a local, the `global double`
// for a module global); a geometric local's Reg is its own `alloca
// %struct.T` (field-initialized by eigen_T_init), and a geometric
// global's Reg is a `%struct.T*` global holding the heap scalar from
// eigen_T_create.
type Binding struct {
	Name     string
	Observed bool
	Reg      string
	IsGlobal bool
	Created  bool // first assignment already lowered (slot allocated / eigen_T_create or _init run)

	// handleType is set for S/L/M-valued bindings (never for numeric
	// ones) so a later load knows which pointer type to load as.
	handleType string
}

// loopCtx tracks the enclosing loop's break/continue targets.
type loopCtx struct {
	continueLabel string
	breakLabel    string
}
