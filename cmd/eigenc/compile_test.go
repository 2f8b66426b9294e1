package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOptLevelPrecedence checks the O3 > O1 > O0 > default-O2 priority
// used to resolve the mutually-exclusive -O flags (spec §6.3 doesn't
// forbid passing more than one, so precedence has to be decided here).
func TestOptLevelPrecedence(t *testing.T) {
	require.Equal(t, 2, optLevel(&compileFlags{}))
	require.Equal(t, 0, optLevel(&compileFlags{o0: true}))
	require.Equal(t, 1, optLevel(&compileFlags{o1: true}))
	require.Equal(t, 3, optLevel(&compileFlags{o3: true}))
	require.Equal(t, 3, optLevel(&compileFlags{o0: true, o1: true, o3: true}))
	require.Equal(t, 1, optLevel(&compileFlags{o0: true, o1: true}))
}

func TestNewCompileCmdDefaults(t *testing.T) {
	cmd := newCompileCmd(nil)
	f := cmd.Flags()

	output, err := f.GetString("output")
	require.NoError(t, err)
	require.Equal(t, "a.out", output)

	emit, err := f.GetString("emit")
	require.NoError(t, err)
	require.Equal(t, "exec", emit)

	o2, err := f.GetBool("O2")
	require.NoError(t, err)
	require.True(t, o2)

	verify, err := f.GetBool("verify")
	require.NoError(t, err)
	require.True(t, verify)
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "b", firstNonEmpty("", "b", "c"))
	require.Equal(t, "", firstNonEmpty("", ""))
}
