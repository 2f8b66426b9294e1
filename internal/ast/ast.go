// Package ast defines the tree the code generator consumes. The
// lexer, parser, and semantic resolver that produce this tree are
// external collaborators (see spec §1) — this package only describes
// the wire shape they hand to internal/codegen.
package ast

// Pos is a source location carried by every node, even though this
// package never constructs one itself.
type Pos struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// Kind discriminates the node union. The front end serializes a node
// as {"kind": "...", ...fields}; Node.Kind drives decoding and the
// generator's dispatch switch.
type Kind string

const (
	KindProgram      Kind = "Program"
	KindAssignment   Kind = "Assignment"
	KindFunctionDef  Kind = "FunctionDef"
	KindReturn       Kind = "Return"
	KindIf           Kind = "If"
	KindLoop         Kind = "Loop"
	KindForIn        Kind = "ForIn"
	KindBreak        Kind = "Break"
	KindContinue     Kind = "Continue"
	KindBinaryOp     Kind = "BinaryOp"
	KindUnaryOp      Kind = "UnaryOp"
	KindCall         Kind = "Call"
	KindIdentifier   Kind = "Identifier"
	KindLiteral      Kind = "Literal"
	KindListLiteral  Kind = "ListLiteral"
	KindIndex        Kind = "Index"
	KindSlice        Kind = "Slice"
	KindInterrogative Kind = "Interrogative"
	KindPredicate    Kind = "Predicate"
	KindImport       Kind = "Import"
)

// InterrogativeKind enumerates the what/why/how/when/where/who family (§4.C.3).
type InterrogativeKind string

const (
	What  InterrogativeKind = "what"
	Why   InterrogativeKind = "why"
	How   InterrogativeKind = "how"
	When  InterrogativeKind = "when"
	Where InterrogativeKind = "where"
	Who   InterrogativeKind = "who"
)

// PredicateKind enumerates the convergence-family predicates (§4.R.1, §4.R.4).
type PredicateKind string

const (
	Converged   PredicateKind = "converged"
	Stable      PredicateKind = "stable"
	Diverging   PredicateKind = "diverging"
	Oscillating PredicateKind = "oscillating"
	Improving   PredicateKind = "improving"
	Equilibrium PredicateKind = "equilibrium"
	Stuck       PredicateKind = "stuck"
	Chaotic     PredicateKind = "chaotic"
	Settled     PredicateKind = "settled"
	Balanced    PredicateKind = "balanced"
)

// LiteralKind enumerates the primitive literal value shapes.
type LiteralKind string

const (
	LitNumber LiteralKind = "number"
	LitString LiteralKind = "string"
	LitBool   LiteralKind = "bool"
	LitNull   LiteralKind = "null"
)

// Node is the tagged union for every AST node kind in §6.1. Only the
// fields relevant to Kind are populated; the generator's dispatch
// switch never reads a field outside its node's kind.
type Node struct {
	Kind Kind `json:"kind"`
	Pos  Pos  `json:"pos"`

	// Program
	Statements []*Node `json:"statements,omitempty"`

	// Assignment
	Name string `json:"name,omitempty"`
	Expr *Node  `json:"expr,omitempty"`

	// FunctionDef
	Params []string `json:"params,omitempty"`
	Body   []*Node  `json:"body,omitempty"`

	// Return
	// (reuses Expr)

	// If
	Cond *Node   `json:"cond,omitempty"`
	Then []*Node `json:"then,omitempty"`
	Else []*Node `json:"else,omitempty"`

	// Loop / ForIn
	// Loop reuses Cond + Body; ForIn reuses Name (bound var) + Iter + Body
	Iter *Node `json:"iter,omitempty"`

	// BinaryOp / UnaryOp
	Op    string `json:"op,omitempty"`
	Left  *Node  `json:"left,omitempty"`
	Right *Node  `json:"right,omitempty"`

	// Call
	Fn   string  `json:"fn,omitempty"`
	Args []*Node `json:"args,omitempty"`

	// Identifier
	// (reuses Name)

	// Literal
	LitKind LiteralKind `json:"lit_kind,omitempty"`
	Number  float64     `json:"number,omitempty"`
	Str     string      `json:"str,omitempty"`
	Bool    bool        `json:"bool,omitempty"`

	// ListLiteral
	Elements []*Node `json:"elements,omitempty"`

	// Index / Slice
	Target *Node `json:"target,omitempty"`
	Idx    *Node `json:"idx,omitempty"`
	Start  *Node `json:"start,omitempty"`
	End    *Node `json:"end,omitempty"`

	// Interrogative
	InterrogativeKind InterrogativeKind `json:"interrogative_kind,omitempty"`

	// Predicate
	PredicateKind PredicateKind `json:"predicate_kind,omitempty"`
	// Predicate.Target is nil for the unscoped process-wide form.

	// Import
	ImportPath string `json:"import_path,omitempty"`
}

// Program is the root of a parsed/resolved compilation unit.
type Program struct {
	ModuleName string  `json:"module_name"`
	Statements []*Node `json:"statements"`
	// Observed is the resolver's precomputed observed-name set (§4.C).
	Observed map[string]bool `json:"observed"`
}
