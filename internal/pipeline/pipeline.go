// Package pipeline verifies, optimizes, and assembles the textual IR
// internal/codegen produces, then links it against the runtime
// archive into an executable (spec §4.P). It is grounded on the
// tinygo.org/x/go-llvm usage shown in the pack's tinygo builder
// (other_examples/c67860aa_tctromp-tinygo__builder-build.go.go):
// llvm.VerifyModule, a PassManagerBuilder populated per opt level,
// and TargetMachine.EmitToMemoryBuffer — the same shape, scaled down
// to one module instead of a whole-program build.
package pipeline

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// EmitKind selects what Run produces (spec §6.3's --emit flag).
type EmitKind string

const (
	EmitIR   EmitKind = "ir"
	EmitBC   EmitKind = "bc"
	EmitObj  EmitKind = "obj"
	EmitExec EmitKind = "exec"
)

// Options is the §4.P input table.
type Options struct {
	OptLevel       int
	TargetTriple   string
	EmitKind       EmitKind
	Verify         bool
	RuntimeArchive string
	Linker         string
	ExtraLinkArgs  []string
	OutputPath     string
}

// tuning is the §4.P pipeline-tuning table, keyed by OptLevel.
type tuning struct {
	speedLevel      int
	sizeLevel       int
	inlineThreshold uint
	vectorizationOn bool
}

func tuningFor(optLevel int) tuning {
	t := tuning{speedLevel: optLevel, sizeLevel: 0}
	switch optLevel {
	case 0:
		t.inlineThreshold = 0
	case 1:
		t.inlineThreshold = 75
	case 2:
		t.inlineThreshold = 225
		t.vectorizationOn = true
	case 3:
		t.inlineThreshold = 375
		t.vectorizationOn = true
	}
	return t
}

// Result carries what Run produced, for the driver to report or a
// test to assert on without re-parsing stdout.
type Result struct {
	IRText     string
	ObjectPath string
	Executable string
}

// Run parses irText, verifies it, runs the module pass manager at the
// configured tuning, and (per opts.EmitKind) stops at IR, or continues
// through object emission and linking. EmitIR returns the parsed IR
// before optimization; EmitBC returns the optimized module as textual
// IR in Result.IRText and writes no bitcode file.
func Run(irText string, opts Options) (*Result, error) {
	mod, err := llvm.ParseIR(llvm.NewMemoryBufferFromMemory(irText))
	if err != nil {
		return nil, fmt.Errorf("pipeline: parse IR: %w", err)
	}
	defer mod.Dispose()

	if opts.Verify {
		if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
			return nil, fmt.Errorf("pipeline: verify: %w", err)
		}
	}

	if opts.EmitKind == EmitIR {
		return &Result{IRText: mod.String()}, nil
	}

	t := tuningFor(opts.OptLevel)
	if err := runOptPasses(mod, t); err != nil {
		return nil, fmt.Errorf("pipeline: optimize: %w", err)
	}

	if opts.Verify {
		if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
			return nil, fmt.Errorf("pipeline: verify after optimize: %w", err)
		}
	}

	if opts.EmitKind == EmitBC {
		return &Result{IRText: mod.String()}, nil
	}

	machine, err := newTargetMachine(opts.TargetTriple, opts.OptLevel)
	if err != nil {
		return nil, err
	}
	defer machine.Dispose()

	objPath := opts.OutputPath + ".o"
	buf, err := machine.EmitToMemoryBuffer(mod, llvm.ObjectFile)
	if err != nil {
		return nil, fmt.Errorf("pipeline: emit object: %w", err)
	}
	if err := writeFile(objPath, buf.Bytes()); err != nil {
		return nil, err
	}

	if opts.EmitKind == EmitObj {
		return &Result{ObjectPath: objPath}, nil
	}

	exe, err := link(objPath, opts)
	if err != nil {
		return nil, err
	}
	return &Result{ObjectPath: objPath, Executable: exe}, nil
}

// runOptPasses builds a PassManagerBuilder from the tuning table and
// populates a module pass manager with it (spec §4.P step 2-3). The
// builder's own opt-level-driven heuristics turn on loop/SLP
// vectorization, loop unrolling, and loop interleaving together at
// O2+ — there's no separate toggle for each in the legacy builder
// API, so OptLevel is the single lever, exactly as spec §4.P's table
// implies ("at O2+: ... on").
func runOptPasses(mod llvm.Module, t tuning) error {
	builder := llvm.NewPassManagerBuilder()
	defer builder.Dispose()
	builder.SetOptLevel(t.speedLevel)
	builder.SetSizeLevel(t.sizeLevel)
	if t.inlineThreshold > 0 {
		builder.UseInlinerWithThreshold(t.inlineThreshold)
	}

	funcPasses := llvm.NewFunctionPassManagerForModule(mod)
	defer funcPasses.Dispose()
	builder.PopulateFunc(funcPasses)
	funcPasses.InitializeFunc()
	for fn := mod.FirstFunction(); (fn != llvm.Value{}); fn = llvm.NextFunction(fn) {
		funcPasses.RunFunc(fn)
	}
	funcPasses.FinalizeFunc()

	modPasses := llvm.NewPassManager()
	defer modPasses.Dispose()
	builder.Populate(modPasses)
	modPasses.Run(mod)

	return nil
}

func newTargetMachine(triple string, optLevel int) (llvm.TargetMachine, error) {
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, fmt.Errorf("pipeline: target triple %q: %w", triple, err)
	}
	level := llvm.CodeGenLevelDefault
	switch optLevel {
	case 0:
		level = llvm.CodeGenLevelNone
	case 1:
		level = llvm.CodeGenLevelLess
	case 3:
		level = llvm.CodeGenLevelAggressive
	}
	machine := target.CreateTargetMachine(triple, "", "", level, llvm.RelocDefault, llvm.CodeModelDefault)
	return machine, nil
}
