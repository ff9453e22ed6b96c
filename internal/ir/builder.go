package ir

import (
	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/semantic"
	"github.com/funvibe/icl/internal/token"
	"github.com/funvibe/icl/internal/typesystem"
)

// Builder walks an AST producing IR with deterministic sequential integer
// ids starting at 1 (spec.md §4.6), grounded on original_source/icl/ir.go's
// walk shape but departing from its string-id convention per spec.md.
type Builder struct {
	nextID    int
	sourceMap *SourceMap
	result    *semantic.Result
}

// NewBuilder creates a Builder that consults sem for inferred expression
// types while walking the AST.
func NewBuilder(sem *semantic.Result) *Builder {
	return &Builder{nextID: 1, sourceMap: NewSourceMap(), result: sem}
}

// SourceMap returns the id→span map built alongside the IR.
func (b *Builder) SourceMap() *SourceMap { return b.sourceMap }

func (b *Builder) newID(span token.Span) int {
	id := b.nextID
	b.nextID++
	b.sourceMap.Add(id, span)
	return id
}

// Build walks program and returns the IR module root.
func (b *Builder) Build(program *ast.Program) *Module {
	stmts := b.buildStmts(program.Statements)
	id := b.newID(program.Span())
	return NewModule(id, program.Span(), stmts)
}

func (b *Builder) buildStmts(in []ast.Statement) []Stmt {
	out := make([]Stmt, 0, len(in))
	for _, s := range in {
		out = append(out, b.buildStmt(s))
	}
	return out
}

func (b *Builder) buildStmt(stmt ast.Statement) Stmt {
	switch s := stmt.(type) {
	case *ast.AssignmentStmt:
		id := b.newID(s.Span())
		return &Assignment{base: base{id, s.Span()}, Name: s.Name, TypeHint: s.TypeHint, Value: b.buildExpr(s.Value)}

	case *ast.ExpressionStmt:
		id := b.newID(s.Span())
		return &ExpressionStmt{base: base{id, s.Span()}, Expr: b.buildExpr(s.Expr)}

	case *ast.IfStmt:
		id := b.newID(s.Span())
		var els []Stmt
		if s.Else != nil {
			els = b.buildStmts(s.Else)
		}
		return &If{base: base{id, s.Span()}, Condition: b.buildExpr(s.Condition), Then: b.buildStmts(s.Then), Else: els}

	case *ast.LoopStmt:
		id := b.newID(s.Span())
		return &Loop{
			base: base{id, s.Span()}, Iterator: s.Iterator,
			Start: b.buildExpr(s.Start), End: b.buildExpr(s.End), Body: b.buildStmts(s.Body),
		}

	case *ast.FunctionDefStmt:
		id := b.newID(s.Span())
		fn := &Function{base: base{id, s.Span()}, Name: s.Name, ReturnType: s.ReturnType}
		for _, p := range s.Params {
			fn.Params = append(fn.Params, Param{Name: p.Name, TypeHint: p.TypeHint})
		}
		if s.IsExprBody() {
			fn.ExprBody = b.buildExpr(s.ExprBody)
		} else {
			fn.Body = b.buildStmts(s.Body)
		}
		return fn

	case *ast.ReturnStmt:
		id := b.newID(s.Span())
		ret := &Return{base: base{id, s.Span()}}
		if s.Value != nil {
			ret.Value = b.buildExpr(s.Value)
		}
		return ret

	case *ast.MacroStmt:
		// Any macro reaching the IR builder means SEM010 should already have
		// failed analysis; this is a defensive fallback, never expected on a
		// successful compile (mirrors original_source/icl/ir.go's synthetic
		// __macro_ call).
		id := b.newID(s.Span())
		return &ExpressionStmt{base: base{id, s.Span()}, Expr: &Literal{
			exprBase: exprBase{base{b.newID(s.Span()), s.Span()}, typesystem.Void},
			Kind:     LiteralStr, Value: "__unexpanded_macro_" + s.Name,
		}}

	default:
		id := b.newID(stmt.Span())
		return &ExpressionStmt{base: base{id, stmt.Span()}, Expr: &Literal{
			exprBase: exprBase{base{b.newID(stmt.Span()), stmt.Span()}, typesystem.Void},
			Kind:     LiteralStr, Value: "__unsupported_statement",
		}}
	}
}

func (b *Builder) buildExpr(expr ast.Expression) Expr {
	typ := typesystem.Any
	if b.result != nil {
		typ = b.result.TypeOf(expr)
	}

	switch e := expr.(type) {
	case *ast.LiteralExpr:
		id := b.newID(e.Span())
		kind := LiteralNum
		switch e.Kind {
		case ast.LiteralStr:
			kind = LiteralStr
		case ast.LiteralBool:
			kind = LiteralBool
		}
		return &Literal{exprBase: exprBase{base{id, e.Span()}, typ}, Kind: kind, Value: e.Value}

	case *ast.IdentifierExpr:
		id := b.newID(e.Span())
		return &Ref{exprBase: exprBase{base{id, e.Span()}, typ}, Name: e.Name}

	case *ast.UnaryExpr:
		id := b.newID(e.Span())
		return &Unary{exprBase: exprBase{base{id, e.Span()}, typ}, Operator: e.Operator, Operand: b.buildExpr(e.Operand)}

	case *ast.BinaryExpr:
		id := b.newID(e.Span())
		return &Binary{exprBase: exprBase{base{id, e.Span()}, typ}, Left: b.buildExpr(e.Left), Operator: e.Operator, Right: b.buildExpr(e.Right)}

	case *ast.LambdaExpr:
		id := b.newID(e.Span())
		lam := &Lambda{exprBase: exprBase{base{id, e.Span()}, typesystem.Fn}, ReturnType: e.ReturnType, Body: b.buildExpr(e.Body)}
		for _, p := range e.Params {
			lam.Params = append(lam.Params, Param{Name: p.Name, TypeHint: p.TypeHint})
		}
		return lam

	case *ast.CallExpr:
		id := b.newID(e.Span())
		call := &Call{exprBase: exprBase{base{id, e.Span()}, typ}, Callee: b.buildExpr(e.Callee), AtPrefixed: e.AtPrefixed}
		for _, a := range e.Args {
			call.Args = append(call.Args, b.buildExpr(a))
		}
		return call

	case *ast.GroupExpr:
		id := b.newID(e.Span())
		return &Group{exprBase: exprBase{base{id, e.Span()}, typ}, Inner: b.buildExpr(e.Inner)}

	default:
		id := b.newID(expr.Span())
		return &Literal{exprBase: exprBase{base{id, expr.Span()}, typesystem.Void}, Kind: LiteralStr, Value: "__unsupported_expression"}
	}
}
