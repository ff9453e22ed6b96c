package plugin

import (
	"github.com/funvibe/icl/internal/alias"
	"github.com/funvibe/icl/internal/ast"
)

// NaturalAliasPlugin wraps the alias normalizer (internal/alias) as a
// SyntaxPlugin, grounded on original_source/icl/plugins/natural_aliases.go.
// Its TransformProgram is identity; all the work happens pre-lex.
type NaturalAliasPlugin struct {
	Mode     alias.Mode
	Filename string

	trace   []alias.Rewrite
	changed bool
}

func (p *NaturalAliasPlugin) Name() string { return "natural_aliases" }

func (p *NaturalAliasPlugin) PreprocessSource(source string) string {
	normalized, trace, _ := alias.Normalize(source, p.Filename, p.Mode)
	p.trace = trace
	p.changed = len(trace) > 0
	return normalized
}

func (p *NaturalAliasPlugin) TransformProgram(program *ast.Program) *ast.Program {
	return program
}

// Trace returns the rewrites recorded by the most recent PreprocessSource
// call (the `alias_trace` artifact of spec.md §6's Explain JSON shape).
func (p *NaturalAliasPlugin) Trace() []alias.Rewrite { return p.trace }

// Changed reports whether the most recent preprocessing pass rewrote
// anything.
func (p *NaturalAliasPlugin) Changed() bool { return p.changed }
