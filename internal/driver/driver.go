package driver

import (
	"github.com/sirupsen/logrus"

	"eigenscript.dev/eigenc/internal/ast"
	"eigenscript.dev/eigenc/internal/codegen"
	"eigenscript.dev/eigenc/internal/pipeline"
)

// Config is the driver's own input table (spec §4.D): target triple,
// opt level, output kind, observed set, plus the handful of knobs
// internal/pipeline needs to link against the prebuilt runtime
// archive.
type Config struct {
	TargetTriple   string
	OptLevel       int
	EmitKind       pipeline.EmitKind
	LibraryMode    bool
	Verify         bool
	RuntimeArchive string
	Linker         string
	ExtraLinkArgs  []string
	OutputPath     string
	Logger         *logrus.Logger
}

// Result is what a successful Compile produced.
type Result struct {
	Module         *codegen.Module
	PipelineResult *pipeline.Result
}

// Driver runs one compile. It holds no state across calls; a new
// Driver isn't required per call, but New makes the logger default
// explicit the way tinyrange-rtg/std/compiler/main.go's top-level
// compile() takes its flags as plain parameters.
type Driver struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Driver{log: log}
}

// Compile orchestrates codegen.Emit then pipeline.Run over prog,
// translating each stage's error into the matching structured error
// kind (spec §4.D).
func (d *Driver) Compile(prog *ast.Program, cfg Config) (*Result, error) {
	d.log.WithFields(logrus.Fields{
		"module":    prog.ModuleName,
		"opt_level": cfg.OptLevel,
		"emit":      cfg.EmitKind,
	}).Debug("starting compile")

	gcfg := codegen.Config{
		ObservedVariables: prog.Observed,
		TargetTriple:      cfg.TargetTriple,
		ModuleName:        prog.ModuleName,
		LibraryMode:       cfg.LibraryMode,
		OptLevel:          cfg.OptLevel,
	}

	mod, err := codegen.Emit(prog, gcfg, nil)
	if err != nil {
		d.log.WithError(err).Error("codegen emission failed")
		return nil, &CompileError{Message: err.Error()}
	}
	d.log.WithField("runtime_decls", len(mod.RuntimeDecls)).Debug("emitted IR")

	popts := pipeline.Options{
		OptLevel:       cfg.OptLevel,
		TargetTriple:   cfg.TargetTriple,
		EmitKind:       cfg.EmitKind,
		Verify:         cfg.Verify,
		RuntimeArchive: cfg.RuntimeArchive,
		Linker:         cfg.Linker,
		ExtraLinkArgs:  cfg.ExtraLinkArgs,
		OutputPath:     cfg.OutputPath,
	}

	pres, err := pipeline.Run(mod.IRText, popts)
	if err != nil {
		return nil, classifyPipelineError(err)
	}

	d.log.Info("compile succeeded")
	return &Result{Module: mod, PipelineResult: pres}, nil
}

// classifyPipelineError distinguishes verify/link failures from a
// generic compile failure by matching the prefix pipeline.Run's
// errors are built with (see pipeline.go's fmt.Errorf call sites).
// A string-prefix check is a pragmatic substitute for typed pipeline
// errors here; pipeline returns plain fmt.Errorf errors and defines no
// error type of its own.
func classifyPipelineError(err error) error {
	msg := err.Error()
	switch {
	case hasPrefix(msg, "pipeline: verify"):
		return &VerifyError{Message: msg}
	case hasPrefix(msg, "pipeline: link"):
		return &LinkError{Message: msg}
	default:
		return &CompileError{Message: msg}
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
