// Package compiler orchestrates ICL's full pipeline (spec.md §2, §6) behind
// the external-interface operations a host CLI or service binds to:
// Compile, Check, Explain, Compress, Diff. It wires together every stage
// package — alias, lexer, parser, plugin, semantic, ir, graph, lowering,
// pack — the way original_source/icl/compiler.go's compile_source /
// check_source / explain_source functions sequence them.
package compiler

import (
	"github.com/funvibe/icl/internal/alias"
	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/graph"
	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/pack"
	"github.com/funvibe/icl/internal/pipeline"
	"github.com/funvibe/icl/internal/semantic"
)

// Options configures a single compilation run, mirroring the CLI flags of
// spec.md §6 (`--natural`, `--alias-mode`, `--optimize`, `--debug`).
type Options struct {
	Filename  string
	Natural   bool
	AliasMode alias.Mode
	Optimize  bool
	Debug     bool
}

// Pipeline holds the process-wide pack registry and runs compilations
// against it. One Pipeline is safe to reuse across many compilations
// (spec.md §5: "the compiler core is single-threaded and synchronous").
type Pipeline struct {
	Registry *pack.Registry
}

// New builds a Pipeline with every built-in language pack registered.
func New() *Pipeline {
	return &Pipeline{Registry: BuildRegistry()}
}

// Frontend is the shared, target-independent result of running a source
// file through alias normalization, lexing, parsing, plug-in expansion,
// semantic analysis, IR building, and graph construction (spec.md §5:
// "alias -> lex -> parse -> semantic -> IR are computed once").
type Frontend struct {
	Program    *ast.Program
	AliasTrace []alias.Rewrite
	Semantic   *semantic.Result
	IR         *ir.Module
	Graph      *graph.Graph
	OptReport  *graph.OptimizationReport
}

func (p *Pipeline) runFrontend(source string, opts Options) (*Frontend, diagnostics.List) {
	ctx := pipeline.NewContext(opts.Filename, source)
	ctx = buildStages(opts).Run(ctx)
	if ctx.Diagnostics.HasErrors() {
		return nil, ctx.Diagnostics
	}

	optReport, _ := ctx.Get(keyOptReport).(*graph.OptimizationReport)
	return &Frontend{
		Program:    ctx.Get(keyProgram).(*ast.Program),
		AliasTrace: aliasTraceOf(ctx),
		Semantic:   ctx.Get(keySemantic).(*semantic.Result),
		IR:         ctx.Get(keyIR).(*ir.Module),
		Graph:      ctx.Get(keyGraph).(*graph.Graph),
		OptReport:  optReport,
	}, nil
}

// Check runs the front end only and reports OK (empty list) or the
// aggregated diagnostics from whichever stage failed first (spec.md §6's
// `check` command).
func (p *Pipeline) Check(source string, opts Options) diagnostics.List {
	_, errs := p.runFrontend(source, opts)
	return errs
}

// CompileResult is one target's outcome from a Compile call: either a
// scaffolded bundle, or a non-empty diagnostics list and no artifact
// (spec.md §7's "a failed single-target compile returns a non-empty
// diagnostics list and no artifact").
type CompileResult struct {
	Target      string
	Bundle      *pack.OutputBundle
	Diagnostics diagnostics.List
}

// Compile runs the shared front end once, then lowers and emits
// independently per target (spec.md §5: "lowering and emission run
// sequentially per target on the shared IR... each target's lowered module
// is an independent value"). A front-end failure is reported identically
// against every requested target, since no IR exists to lower.
func (p *Pipeline) Compile(source string, targets []string, opts Options) map[string]*CompileResult {
	out := make(map[string]*CompileResult, len(targets))

	fe, feErrs := p.runFrontend(source, opts)
	if feErrs.HasErrors() {
		for _, t := range targets {
			out[t] = &CompileResult{Target: t, Diagnostics: feErrs}
		}
		return out
	}

	for _, t := range targets {
		out[t] = p.compileTarget(fe.IR, t, opts)
	}
	return out
}

func (p *Pipeline) compileTarget(mod *ir.Module, target string, opts Options) *CompileResult {
	lp, err := p.Registry.Get(target)
	if err != nil {
		return &CompileResult{Target: target, Diagnostics: diagnostics.List{err}}
	}

	lowered, lowerErr := lowering.New().Lower(mod, target, lp.Manifest())
	if lowerErr != nil {
		return &CompileResult{Target: target, Diagnostics: diagnostics.List{lowerErr}}
	}

	ctx := &pack.EmissionContext{Target: target, Debug: opts.Debug}
	code, emitErr := lp.Emit(lowered, ctx)
	if emitErr != nil {
		return &CompileResult{Target: target, Diagnostics: diagnostics.List{
			diagnostics.NewNoSpan("PACK101", "emission failed for target '"+target+"'", emitErr.Error()),
		}}
	}

	bundle, scaffoldErr := lp.Scaffold(code, ctx)
	if scaffoldErr != nil {
		return &CompileResult{Target: target, Diagnostics: diagnostics.List{
			diagnostics.NewNoSpan("PACK102", "scaffolding failed for target '"+target+"'", scaffoldErr.Error()),
		}}
	}

	return &CompileResult{Target: target, Bundle: bundle}
}

// Diff computes a structural diff between two already-serialized intent
// graphs (spec.md §6's `diff` command, which takes "two serialized graphs").
func Diff(before, after graph.GraphJSON) *graph.Diff {
	return graph.DiffGraphs(graph.FromJSON(before), graph.FromJSON(after))
}
