package compiler

import (
	"github.com/funvibe/icl/internal/alias"
	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/graph"
	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/parser"
	"github.com/funvibe/icl/internal/pipeline"
	"github.com/funvibe/icl/internal/plugin"
	"github.com/funvibe/icl/internal/semantic"
	"github.com/funvibe/icl/internal/token"
)

// funcProcessor adapts a plain function to pipeline.Processor, since most
// stages below need no state beyond what ctx.Values already carries.
type funcProcessor struct {
	name string
	fn   func(ctx *pipeline.PipelineContext)
}

func (f funcProcessor) Name() string { return f.name }
func (f funcProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if !ctx.Aborted {
		f.fn(ctx)
	}
	return ctx
}

// stageKeys names the ctx.Values entries the stage chain below produces.
const (
	keyManager   = "manager"
	keyNatPlugin = "nat_plugin"
	keyTokens    = "tokens"
	keyProgram   = "program"
	keySemantic  = "semantic"
	keyIR        = "ir"
	keyGraph     = "graph"
	keyOptReport = "opt_report"
)

// buildStages wires the alias/lex/parse/plugin/semantic/ir/graph stages of
// spec.md §2 into a pipeline.Pipeline, generalizing the teacher's bare
// Pipeline/Processor skeleton (which shipped with no PipelineContext
// implementation at all) to ICL's front-end stages; lowering and pack
// emission run per target after this chain. Pipeline.Run continues past an
// aborted stage so every Processor is still called, but each one here
// no-ops once ctx.Aborted is set, so diagnostics are collected only up to
// the first failing stage.
func buildStages(opts Options) *pipeline.Pipeline {
	return pipeline.New(
		funcProcessor{"alias", func(ctx *pipeline.PipelineContext) {
			mgr := plugin.New()
			plugin.RegisterStdMacros(mgr)
			var natPlugin *plugin.NaturalAliasPlugin
			if opts.Natural {
				natPlugin = &plugin.NaturalAliasPlugin{Mode: opts.AliasMode, Filename: opts.Filename}
				mgr.RegisterSyntax(natPlugin)
			}
			ctx.Set(keyManager, mgr)
			ctx.Set(keyNatPlugin, natPlugin)
			ctx.Source = mgr.PreprocessSource(ctx.Source)
		}},
		funcProcessor{"lex", func(ctx *pipeline.PipelineContext) {
			toks, errs := lexer.New(ctx.Source, ctx.Filename).Tokenize()
			ctx.Set(keyTokens, toks)
			ctx.Fail("lex", errs)
		}},
		funcProcessor{"parse", func(ctx *pipeline.PipelineContext) {
			toks, _ := ctx.Get(keyTokens).([]token.Token)
			program, errs := parser.New(toks).ParseProgram()
			ctx.Set(keyProgram, program)
			ctx.Fail("parse", errs)
		}},
		funcProcessor{"plugin", func(ctx *pipeline.PipelineContext) {
			mgr := ctx.Get(keyManager).(*plugin.Manager)
			program := ctx.Get(keyProgram).(*ast.Program)
			program = mgr.TransformProgram(program)
			program, errs := mgr.ExpandMacros(program)
			ctx.Set(keyProgram, program)
			ctx.Fail("plugin", errs)
		}},
		funcProcessor{"semantic", func(ctx *pipeline.PipelineContext) {
			program := ctx.Get(keyProgram).(*ast.Program)
			sem, errs := semantic.New().Analyze(program)
			ctx.Set(keySemantic, sem)
			ctx.Fail("semantic", errs)
		}},
		funcProcessor{"ir", func(ctx *pipeline.PipelineContext) {
			program := ctx.Get(keyProgram).(*ast.Program)
			sem := ctx.Get(keySemantic).(*semantic.Result)
			mod := ir.NewBuilder(sem).Build(program)
			ctx.Set(keyIR, mod)
		}},
		funcProcessor{"graph", func(ctx *pipeline.PipelineContext) {
			mod := ctx.Get(keyIR).(*ir.Module)
			g := graph.Build(mod)
			if opts.Optimize {
				var report *graph.OptimizationReport
				g, report = graph.GraphOptimizer{}.Optimize(g)
				ctx.Set(keyOptReport, report)
			}
			ctx.Set(keyGraph, g)
		}},
	)
}

// aliasTraceOf extracts the recorded natural-alias rewrites from a staged
// run's context, if natural-language aliasing was enabled.
func aliasTraceOf(ctx *pipeline.PipelineContext) []alias.Rewrite {
	nat, _ := ctx.Get(keyNatPlugin).(*plugin.NaturalAliasPlugin)
	if nat == nil {
		return nil
	}
	return nat.Trace()
}
