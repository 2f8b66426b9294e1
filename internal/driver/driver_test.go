package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCodeMapping(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(&SyntaxError{Message: "x"}))
	require.Equal(t, 1, ExitCode(&SemanticError{Message: "x"}))
	require.Equal(t, 1, ExitCode(&CompileError{Message: "x"}))
	require.Equal(t, 1, ExitCode(&VerifyError{Message: "x"}))
	require.Equal(t, 2, ExitCode(&LinkError{Message: "x"}))
	require.Equal(t, 3, ExitCode(&UsageError{Message: "x"}))
}

func TestClassifyPipelineError(t *testing.T) {
	require.IsType(t, &VerifyError{}, classifyPipelineError(fmtErr("pipeline: verify: bad module")))
	require.IsType(t, &LinkError{}, classifyPipelineError(fmtErr("pipeline: link: cc exited 1")))
	require.IsType(t, &CompileError{}, classifyPipelineError(fmtErr("pipeline: parse IR: unexpected token")))
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func fmtErr(s string) error { return simpleErr(s) }
