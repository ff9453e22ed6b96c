// Package plugin implements ICL's macro/syntax plug-in architecture
// (spec.md §4.4, §9), grounded on original_source/icl/plugin.go: a manager
// that orchestrates pre-lex source rewrites, post-parse AST transforms, and
// recursive macro-statement expansion.
package plugin

import (
	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
)

// MacroPlugin expands a `#name(args)` statement into replacement statements.
type MacroPlugin interface {
	Name() string
	Expand(stmt *ast.MacroStmt) ([]ast.Statement, error)
}

// SyntaxPlugin hooks the pipeline before lexing and after parsing. Both
// methods default to identity in Go by simply not being overridden — unlike
// Python's ABC default methods, plugins here must implement both, so
// built-ins that only need one hook implement the other as a no-op.
type SyntaxPlugin interface {
	Name() string
	PreprocessSource(source string) string
	TransformProgram(program *ast.Program) *ast.Program
}

// Manager registers and orchestrates macro and syntax plugins.
// There is no BackendPlugin registry here: language packs are registered
// directly with the pack registry (internal/pack), not through this
// manager, since spec.md treats pack loading and macro/syntax loading as
// separate concerns (§4.4 vs §4.9).
type Manager struct {
	macros  map[string]MacroPlugin
	syntax  []SyntaxPlugin
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{macros: make(map[string]MacroPlugin)}
}

// RegisterMacro registers a macro plugin under its declared name.
func (m *Manager) RegisterMacro(p MacroPlugin) {
	m.macros[p.Name()] = p
}

// RegisterSyntax appends a syntax plugin to the preprocessing chain.
func (m *Manager) RegisterSyntax(p SyntaxPlugin) {
	m.syntax = append(m.syntax, p)
}

// PreprocessSource applies every registered syntax plugin's source rewrite,
// in registration order.
func (m *Manager) PreprocessSource(source string) string {
	for _, p := range m.syntax {
		source = p.PreprocessSource(source)
	}
	return source
}

// TransformProgram applies every registered syntax plugin's AST transform,
// in registration order.
func (m *Manager) TransformProgram(program *ast.Program) *ast.Program {
	for _, p := range m.syntax {
		program = p.TransformProgram(program)
	}
	return program
}

// ExpandMacros recursively expands every MacroStmt in program using
// registered macro plugins, descending into if/loop/function bodies so a
// macro may itself expand to another macro (spec.md §4.4).
func (m *Manager) ExpandMacros(program *ast.Program) (*ast.Program, diagnostics.List) {
	var errs diagnostics.List
	expanded := make([]ast.Statement, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		out, e := m.expandStmt(stmt)
		errs = append(errs, e...)
		expanded = append(expanded, out...)
	}
	return &ast.Program{File: program.File, Statements: expanded}, errs
}

func (m *Manager) expandStmt(stmt ast.Statement) ([]ast.Statement, diagnostics.List) {
	var errs diagnostics.List

	switch s := stmt.(type) {
	case *ast.MacroStmt:
		p, ok := m.macros[s.Name]
		if !ok {
			errs = append(errs, diagnostics.New("PLG002", s.Span(), "no macro plugin registered for '#"+s.Name+"'"))
			return nil, errs
		}
		produced, err := p.Expand(s)
		if err != nil {
			if de, ok := err.(*diagnostics.Error); ok {
				errs = append(errs, de)
			} else {
				errs = append(errs, diagnostics.New("PLG101", s.Span(), err.Error()))
			}
			return nil, errs
		}
		var result []ast.Statement
		for _, st := range produced {
			out, e := m.expandStmt(st)
			errs = append(errs, e...)
			result = append(result, out...)
		}
		return result, errs

	case *ast.IfStmt:
		then := expandBlock(m, s.Then, &errs)
		var els []ast.Statement
		if s.Else != nil {
			els = expandBlock(m, s.Else, &errs)
		}
		return []ast.Statement{&ast.IfStmt{Tok: s.Tok, Condition: s.Condition, Then: then, Else: els}}, errs

	case *ast.LoopStmt:
		body := expandBlock(m, s.Body, &errs)
		return []ast.Statement{&ast.LoopStmt{Tok: s.Tok, Iterator: s.Iterator, Start: s.Start, End: s.End, Body: body}}, errs

	case *ast.FunctionDefStmt:
		if s.IsExprBody() {
			return []ast.Statement{s}, errs
		}
		body := expandBlock(m, s.Body, &errs)
		return []ast.Statement{&ast.FunctionDefStmt{
			Tok: s.Tok, Name: s.Name, Params: s.Params, ReturnType: s.ReturnType, Body: body,
		}}, errs

	default:
		return []ast.Statement{stmt}, errs
	}
}

func expandBlock(m *Manager, block []ast.Statement, errs *diagnostics.List) []ast.Statement {
	var out []ast.Statement
	for _, st := range block {
		produced, e := m.expandStmt(st)
		*errs = append(*errs, e...)
		out = append(out, produced...)
	}
	return out
}
