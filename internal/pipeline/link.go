package pipeline

import (
	"fmt"
	"os"
	"os/exec"
)

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", path, err)
	}
	return nil
}

// link invokes the configured linker (default `cc`) with an
// argument-list exec.Command — no shell string is ever built, per
// spec §5's subprocess contract, grounded on
// tinyrange-rtg/tools/build.go's `exec.Command(args[0], args[1:]...)`
// idiom.
func link(objPath string, opts Options) (string, error) {
	linker, args, out := linkArgs(objPath, opts)

	cmd := exec.Command(linker, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pipeline: link: %w", err)
	}
	return out, nil
}

// linkArgs builds the linker invocation as a plain argument list, kept
// separate from link so the construction (object file, runtime
// archive, -lm, extra args, -o output, in that order) can be checked
// without actually invoking a linker.
func linkArgs(objPath string, opts Options) (linker string, args []string, out string) {
	linker = opts.Linker
	if linker == "" {
		linker = "cc"
	}
	out = opts.OutputPath
	if out == "" {
		out = "a.out"
	}

	args = []string{objPath}
	if opts.RuntimeArchive != "" {
		args = append(args, opts.RuntimeArchive)
	}
	args = append(args, "-lm")
	args = append(args, opts.ExtraLinkArgs...)
	args = append(args, "-o", out)
	return linker, args, out
}
