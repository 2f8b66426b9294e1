package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"eigenscript.dev/eigenc/internal/ast"
	"eigenscript.dev/eigenc/internal/driver"
	"eigenscript.dev/eigenc/internal/pipeline"
)

// compileFlags holds the compile command's flags:
// compile <file> [-o <out>] [--emit ir|bc|obj|exec] [--O0|--O1|--O2|--O3]
// [--target <triple>] [--verify[=false]] [--runtime <archive>] [--linker <cc>].
// The optimization levels are long flags (two dashes); there is no
// single-dash -O0 form and no separate --no-verify flag.
type compileFlags struct {
	output         string
	emit           string
	o0, o1, o2, o3 bool
	target         string
	verify         bool
	runtimeArchive string
	linker         string
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "eigenc",
		Short:         "Compile an EigenScript AST to a native executable",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCompileCmd(log))
	return root
}

func newCompileCmd(log *logrus.Logger) *cobra.Command {
	flags := &compileFlags{emit: "exec", target: "x86_64-unknown-linux-gnu", verify: true}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a serialized AST file to LLVM IR, object code, or an executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], flags, log)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "a.out", "output path")
	f.StringVar(&flags.emit, "emit", "exec", "emit kind: ir|obj|exec")
	f.BoolVar(&flags.o0, "O0", false, "optimization level 0")
	f.BoolVar(&flags.o1, "O1", false, "optimization level 1")
	f.BoolVar(&flags.o2, "O2", true, "optimization level 2 (default)")
	f.BoolVar(&flags.o3, "O3", false, "optimization level 3")
	f.StringVar(&flags.target, "target", flags.target, "LLVM target triple")
	f.BoolVar(&flags.verify, "verify", true, "verify IR before and after optimization")
	f.StringVar(&flags.runtimeArchive, "runtime", "build/libeigenruntime.a", "path to the runtime c-archive")
	f.StringVar(&flags.linker, "linker", "cc", "external linker to invoke")

	return cmd
}

func optLevel(f *compileFlags) int {
	switch {
	case f.o3:
		return 3
	case f.o1:
		return 1
	case f.o0:
		return 0
	default:
		return 2
	}
}

func runCompile(cmd *cobra.Command, path string, flags *compileFlags, log *logrus.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		reportUsageError(cmd, err)
		return err
	}

	var prog ast.Program
	if err := json.Unmarshal(data, &prog); err != nil {
		reportUsageError(cmd, fmt.Errorf("malformed AST file: %w", err))
		return err
	}

	d := driver.New(log)
	cfg := driver.Config{
		TargetTriple:   flags.target,
		OptLevel:       optLevel(flags),
		EmitKind:       pipeline.EmitKind(flags.emit),
		Verify:         flags.verify,
		RuntimeArchive: flags.runtimeArchive,
		Linker:         flags.linker,
		OutputPath:     flags.output,
		Logger:         log,
	}

	result, err := d.Compile(&prog, cfg)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(exitCodeForCLI(err))
	}

	switch cfg.EmitKind {
	case pipeline.EmitIR, pipeline.EmitBC:
		fmt.Fprint(cmd.OutOrStdout(), result.PipelineResult.IRText)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", firstNonEmpty(result.PipelineResult.Executable, result.PipelineResult.ObjectPath))
	}
	return nil
}

// exitCodeForCLI re-derives the process exit code from a compile
// error using the same table driver.ExitCode already encodes, kept
// separate so a UsageError from argument parsing (handled above,
// before Compile ever runs) doesn't have to round-trip through it.
func exitCodeForCLI(err error) int {
	return driver.ExitCode(err)
}

func reportUsageError(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), (&driver.UsageError{Message: err.Error()}).Error())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
