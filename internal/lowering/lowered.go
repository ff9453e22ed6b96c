// Package lowering implements ICL's target-parameterized IR→lowered-module
// transform (spec.md §4.7), grounded on original_source/icl/lowering.go.
package lowering

import "github.com/funvibe/icl/internal/token"

// LStmt is a lowered statement node.
type LStmt interface {
	ID() string
	Span() token.Span
	lstmtNode()
}

// LExpr is a lowered expression node.
type LExpr interface {
	ID() string
	Span() token.Span
	lexprNode()
	ExprType() string
}

type lbase struct {
	IDVal   string
	SpanVal token.Span
}

func (b lbase) ID() string      { return b.IDVal }
func (b lbase) Span() token.Span { return b.SpanVal }

type lexprBase struct {
	lbase
	Typ string
}

func (e lexprBase) ExprType() string { return e.Typ }

// Param mirrors ir.Param into lowered form.
type Param struct {
	Name     string
	TypeHint string
}

// Module is the lowered module root, target-shaped and ready for pack emission.
type Module struct {
	lbase
	IRSchemaVersion string
	Target          string
	Statements      []LStmt
	RequiredHelpers []string
	Diagnostics     []string
}

// Assignment is `name [:Type] := value` in lowered form.
type Assignment struct {
	lbase
	Name     string
	TypeHint string
	Value    LExpr
}

func (*Assignment) lstmtNode() {}

// ExpressionStmt wraps a bare lowered expression statement.
type ExpressionStmt struct {
	lbase
	Expr LExpr
}

func (*ExpressionStmt) lstmtNode() {}

// If is a lowered conditional; Else is always non-nil (possibly empty),
// unlike ir.If, since lowering normalizes the missing-else case to empty.
type If struct {
	lbase
	Condition LExpr
	Then      []LStmt
	Else      []LStmt
}

func (*If) lstmtNode() {}

// Loop is a lowered `loop iterator in start..end { body }`.
type Loop struct {
	lbase
	Iterator string
	Start    LExpr
	End      LExpr
	Body     []LStmt
}

func (*Loop) lstmtNode() {}

// Function is a lowered function. Body always holds the full block form —
// expression bodies are normalized to `[Return(expr)]` by lowering step 2.
type Function struct {
	lbase
	Name       string
	Params     []Param
	ReturnType string
	Body       []LStmt
}

func (*Function) lstmtNode() {}

// Return is a lowered `ret [value]`.
type Return struct {
	lbase
	Value LExpr // nil for bare return
}

func (*Return) lstmtNode() {}

// Literal is a lowered tagged constant.
type Literal struct {
	lexprBase
	Value any
}

func (*Literal) lexprNode() {}

// Ref is a lowered bound-name reference.
type Ref struct {
	lexprBase
	Name string
}

func (*Ref) lexprNode() {}

// Unary is a lowered unary operation, with the canonical operator name
// retained for the pack to render (spec.md §4.7 step 4).
type Unary struct {
	lexprBase
	Operator string
	Operand  LExpr
}

func (*Unary) lexprNode() {}

// Binary is a lowered binary operation.
type Binary struct {
	lexprBase
	Left     LExpr
	Operator string
	Right    LExpr
}

func (*Binary) lexprNode() {}

// Call is a lowered, @-flag-normalized call (spec.md §4.7 step 3).
type Call struct {
	lexprBase
	Callee LExpr
	Args   []LExpr
}

func (*Call) lexprNode() {}

// Lambda is a lowered anonymous function expression.
type Lambda struct {
	lexprBase
	Params     []Param
	ReturnType string
	Body       LExpr
}

func (*Lambda) lexprNode() {}
