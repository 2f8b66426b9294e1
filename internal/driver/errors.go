// Package driver orchestrates internal/codegen then internal/pipeline
// over one AST, and normalizes every failure mode into the five
// structured error kinds spec §4.D names. It is the generalization of
// tinyrange-rtg/std/compiler/main.go's top-level compile() function,
// which already sequences parse → resolve → backend → link behind a
// single entry point and a handful of named error wrappers — this
// package keeps that shape but swaps the backend for internal/codegen
// and internal/pipeline.
package driver

import "fmt"

// Pos mirrors ast.Pos without importing the ast package into error
// values, so a driver error is usable by callers that never touch the
// AST directly (e.g. cmd/eigenc reporting to the user).
type Pos struct {
	File string
	Line int
	Col  int
}

// SyntaxError is passed through unchanged from the excluded front
// end; the driver never constructs one, but a caller that wires in a
// parser can wrap its own failure as one before calling Compile.
type SyntaxError struct {
	Message string
	At      Pos
	Hint    string
}

func (e *SyntaxError) Error() string { return formatErr("syntax error", e.Message, e.At, e.Hint) }

// SemanticError is passed through unchanged from the excluded
// resolver, for the same reason as SyntaxError.
type SemanticError struct {
	Message string
	At      Pos
	Hint    string
}

func (e *SemanticError) Error() string { return formatErr("semantic error", e.Message, e.At, e.Hint) }

// CompileError wraps an internal/codegen emission failure.
type CompileError struct {
	Message string
	At      Pos
	Hint    string
}

func (e *CompileError) Error() string { return formatErr("compile error", e.Message, e.At, e.Hint) }

// VerifyError wraps an LLVM module-verification failure.
type VerifyError struct {
	Message string
	Hint    string
}

func (e *VerifyError) Error() string { return formatErr("verify error", e.Message, Pos{}, e.Hint) }

// LinkError wraps a nonzero exit from the external linker.
type LinkError struct {
	Message string
	Hint    string
}

func (e *LinkError) Error() string { return formatErr("link error", e.Message, Pos{}, e.Hint) }

func formatErr(kind, msg string, at Pos, hint string) string {
	loc := ""
	if at.File != "" {
		loc = fmt.Sprintf(" at %s:%d:%d", at.File, at.Line, at.Col)
	}
	if hint != "" {
		return fmt.Sprintf("%s: %s%s (hint: %s)", kind, msg, loc, hint)
	}
	return fmt.Sprintf("%s: %s%s", kind, msg, loc)
}

// UsageError covers CLI-level failures that never reach codegen or
// the pipeline at all (bad flags, an unreadable or malformed AST
// file) — spec §6.3's exit code 3.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return formatErr("usage error", e.Message, Pos{}, "") }

// ExitCode maps an error returned by Compile to the process exit code
// spec §6.3 assigns: 0 success, 1 compile/verify error, 2 link error,
// 3 usage error. Syntax/Semantic errors are folded into the
// compile/verify bucket here since this CLI's input is already a
// parsed, resolved AST (spec §1's front end is out of scope) — they
// exist as distinct types because a caller that does wire in a front
// end needs them distinguishable, not because the CLI's own exit
// code table distinguishes them.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *LinkError:
		return 2
	case *UsageError:
		return 3
	case *SyntaxError, *SemanticError, *CompileError, *VerifyError:
		return 1
	default:
		return 1
	}
}
