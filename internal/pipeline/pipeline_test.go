package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTuningTableMatchesSpec(t *testing.T) {
	cases := []struct {
		opt       int
		threshold uint
		vector    bool
	}{
		{0, 0, false},
		{1, 75, false},
		{2, 225, true},
		{3, 375, true},
	}
	for _, c := range cases {
		tn := tuningFor(c.opt)
		require.Equal(t, c.threshold, tn.inlineThreshold, "opt level %d", c.opt)
		require.Equal(t, c.vector, tn.vectorizationOn, "opt level %d", c.opt)
		require.Equal(t, 0, tn.sizeLevel, "opt level %d", c.opt)
	}
}

// TestLinkArgsOrdering checks the argument list fed to the external
// linker matches spec §5: object file, runtime archive, -lm, any extra
// args, then -o <output>, with no shell string ever built.
func TestLinkArgsOrdering(t *testing.T) {
	linker, args, out := linkArgs("prog.o", Options{
		RuntimeArchive: "build/libeigenruntime.a",
		ExtraLinkArgs:  []string{"-static"},
		OutputPath:     "prog",
	})
	require.Equal(t, "cc", linker)
	require.Equal(t, "prog", out)
	require.Equal(t, []string{"prog.o", "build/libeigenruntime.a", "-lm", "-static", "-o", "prog"}, args)
}

func TestLinkArgsDefaults(t *testing.T) {
	linker, args, out := linkArgs("prog.o", Options{})
	require.Equal(t, "cc", linker)
	require.Equal(t, "a.out", out)
	require.Equal(t, []string{"prog.o", "-lm", "-o", "a.out"}, args)
}

func TestLinkArgsCustomLinker(t *testing.T) {
	linker, _, _ := linkArgs("prog.o", Options{Linker: "clang"})
	require.Equal(t, "clang", linker)
}
