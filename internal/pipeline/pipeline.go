// Package pipeline generalizes the teacher's processor-chain skeleton
// (originally a bare Pipeline/Processor pair with no PipelineContext
// defined anywhere in the retrieved sources) into a generic stage chain.
// internal/compiler wires the front-end stages of spec.md §2 into it (alias
// normalization, lexing, parsing, plug-in expansion, semantic analysis, IR
// building, graph construction); lowering and pack emission run per target
// outside the chain. Each Processor appends its own diagnostics to the
// shared context; once a stage records an error ctx.Aborted is set and the
// compiler's later stages skip their work, so the collected diagnostics
// come from the stages up to and including the first failing one.
package pipeline

import "github.com/funvibe/icl/internal/diagnostics"

// PipelineContext threads state through the compiler's stages. Fields are
// filled in by the Processor responsible for that stage; earlier fields
// remain populated for later stages to read.
type PipelineContext struct {
	Filename string
	Source   string

	// Stage outputs, populated as the pipeline advances. Concrete types
	// live in internal/ast, internal/ir, internal/graph etc.; pipeline
	// itself stays free of those imports by carrying them as `any` so
	// that adding a tenth stage never requires editing this package.
	Stage  string
	Values map[string]any

	Diagnostics diagnostics.List
	Aborted     bool
}

// NewContext starts a fresh PipelineContext for one compilation of source.
func NewContext(filename, source string) *PipelineContext {
	return &PipelineContext{Filename: filename, Source: source, Values: map[string]any{}}
}

// Fail records diagnostics against the context and aborts remaining stages
// if any are errors (diagnostics.List.HasErrors()).
func (c *PipelineContext) Fail(stage string, errs diagnostics.List) {
	c.Stage = stage
	c.Diagnostics = append(c.Diagnostics, errs...)
	if errs.HasErrors() {
		c.Aborted = true
	}
}

// Get retrieves a prior stage's output by key, or nil if absent.
func (c *PipelineContext) Get(key string) any { return c.Values[key] }

// Set records a stage's output under key for later stages to read.
func (c *PipelineContext) Set(key string, value any) { c.Values[key] = value }

// Processor runs one pipeline stage. Implementations should check
// ctx.Aborted and no-op if a required upstream value is missing, rather
// than panicking on a nil Values entry.
type Processor interface {
	Name() string
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is an ordered sequence of Processors.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline that runs processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, continuing even after a stage aborts
// so later, independent Processors (formatting, diagnostics rendering) can
// still inspect ctx.Diagnostics and ctx.Aborted themselves.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
	}
	return ctx
}
