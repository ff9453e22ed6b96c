package lowering

import (
	"strconv"

	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/manifest"
	"github.com/funvibe/icl/internal/token"
)

// Lowerer lowers canonical IR into target-shaped lowered nodes, per target,
// consulting a pack manifest's feature coverage.
type Lowerer struct {
	counter int
}

// New creates a Lowerer.
func New() *Lowerer { return &Lowerer{} }

// Lower runs the six ordered steps of spec.md §4.7 against mod for target,
// consulting m's feature_coverage (step 1). Any failure aborts immediately
// and is returned as the sole error, with no lowered module: a LOW001
// feature gate failure, or LOW002/LOW003 for an IR statement/expression
// kind lowering has no rule for. No fallback substitution is performed, so
// the returned Module's Diagnostics is always empty.
func (l *Lowerer) Lower(mod *ir.Module, target string, m *manifest.PackManifest) (*Module, *diagnostics.Error) {
	var notes []string

	statements := make([]LStmt, 0, len(mod.Statements))
	for _, stmt := range mod.Statements {
		lowered, err := l.lowerStmt(stmt, target, m, &notes)
		if err != nil {
			return nil, err
		}
		statements = append(statements, lowered)
	}

	helpers := requiredHelpers(statements, target)

	return &Module{
		lbase:           lbase{IDVal: l.newID("lmod"), SpanVal: mod.Span()},
		IRSchemaVersion: "1.0",
		Target:          target,
		Statements:      statements,
		RequiredHelpers: helpers,
		Diagnostics:     notes,
	}, nil
}

func (l *Lowerer) gate(feature string, span token.Span, target string, m *manifest.PackManifest) *diagnostics.Error {
	if m.Supports(feature) {
		return nil
	}
	return diagnostics.NewWithHint("LOW001", span,
		"target '"+target+"' does not support required feature '"+feature+"'",
		"choose a compatible target or reduce source feature usage")
}

func (l *Lowerer) lowerStmt(stmt ir.Stmt, target string, m *manifest.PackManifest, notes *[]string) (LStmt, *diagnostics.Error) {
	switch s := stmt.(type) {
	case *ir.Assignment:
		if err := l.gate("assignment", s.Span(), target, m); err != nil {
			return nil, err
		}
		if s.TypeHint != "" {
			if err := l.gate("typed_annotation", s.Span(), target, m); err != nil {
				return nil, err
			}
		}
		value, err := l.lowerExpr(s.Value, target, m, notes)
		if err != nil {
			return nil, err
		}
		return &Assignment{lbase: lbase{l.newID("lstmt"), s.Span()}, Name: s.Name, TypeHint: s.TypeHint, Value: value}, nil

	case *ir.ExpressionStmt:
		if err := l.gate("expression_stmt", s.Span(), target, m); err != nil {
			return nil, err
		}
		expr, err := l.lowerExpr(s.Expr, target, m, notes)
		if err != nil {
			return nil, err
		}
		return &ExpressionStmt{lbase: lbase{l.newID("lstmt"), s.Span()}, Expr: expr}, nil

	case *ir.If:
		if err := l.gate("if", s.Span(), target, m); err != nil {
			return nil, err
		}
		cond, err := l.lowerExpr(s.Condition, target, m, notes)
		if err != nil {
			return nil, err
		}
		then, err := l.lowerBlock(s.Then, target, m, notes)
		if err != nil {
			return nil, err
		}
		els, err := l.lowerBlock(s.Else, target, m, notes)
		if err != nil {
			return nil, err
		}
		return &If{lbase: lbase{l.newID("lstmt"), s.Span()}, Condition: cond, Then: then, Else: els}, nil

	case *ir.Loop:
		if err := l.gate("loop", s.Span(), target, m); err != nil {
			return nil, err
		}
		start, err := l.lowerExpr(s.Start, target, m, notes)
		if err != nil {
			return nil, err
		}
		end, err := l.lowerExpr(s.End, target, m, notes)
		if err != nil {
			return nil, err
		}
		body, err := l.lowerBlock(s.Body, target, m, notes)
		if err != nil {
			return nil, err
		}
		return &Loop{lbase: lbase{l.newID("lstmt"), s.Span()}, Iterator: s.Iterator, Start: start, End: end, Body: body}, nil

	case *ir.Function:
		if err := l.gate("function", s.Span(), target, m); err != nil {
			return nil, err
		}
		body, err := l.lowerBlock(s.Body, target, m, notes)
		if err != nil {
			return nil, err
		}
		// Step 2: expression-body normalization — IRFunction with an
		// expression body becomes block body [IRReturn(expr)].
		if s.ExprBody != nil {
			exprVal, err := l.lowerExpr(s.ExprBody, target, m, notes)
			if err != nil {
				return nil, err
			}
			body = append(body, &Return{lbase: lbase{l.newID("lstmt"), s.ExprBody.Span()}, Value: exprVal})
		}
		params := make([]Param, len(s.Params))
		for i, p := range s.Params {
			params[i] = Param{Name: p.Name, TypeHint: p.TypeHint}
		}
		return &Function{
			lbase: lbase{l.newID("lstmt"), s.Span()}, Name: s.Name, Params: params,
			ReturnType: s.ReturnType, Body: body,
		}, nil

	case *ir.Return:
		if err := l.gate("return", s.Span(), target, m); err != nil {
			return nil, err
		}
		var value LExpr
		if s.Value != nil {
			v, err := l.lowerExpr(s.Value, target, m, notes)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return &Return{lbase: lbase{l.newID("lstmt"), s.Span()}, Value: value}, nil

	default:
		return nil, diagnostics.NewWithHint("LOW002", stmt.Span(),
			"unsupported IR statement in lowering",
			"extend lowering rules or disable unsupported language features for this target")
	}
}

func (l *Lowerer) lowerBlock(in []ir.Stmt, target string, m *manifest.PackManifest, notes *[]string) ([]LStmt, *diagnostics.Error) {
	out := make([]LStmt, 0, len(in))
	for _, s := range in {
		lowered, err := l.lowerStmt(s, target, m, notes)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

func (l *Lowerer) lowerExpr(expr ir.Expr, target string, m *manifest.PackManifest, notes *[]string) (LExpr, *diagnostics.Error) {
	switch e := expr.(type) {
	case *ir.Literal:
		if err := l.gate("literal", e.Span(), target, m); err != nil {
			return nil, err
		}
		return &Literal{lexprBase: lexprBase{lbase{l.newID("lexpr"), e.Span()}, e.Type().String()}, Value: e.Value}, nil

	case *ir.Ref:
		if err := l.gate("reference", e.Span(), target, m); err != nil {
			return nil, err
		}
		return &Ref{lexprBase: lexprBase{lbase{l.newID("lexpr"), e.Span()}, e.Type().String()}, Name: e.Name}, nil

	case *ir.Unary:
		if err := l.gate("unary", e.Span(), target, m); err != nil {
			return nil, err
		}
		operand, err := l.lowerExpr(e.Operand, target, m, notes)
		if err != nil {
			return nil, err
		}
		// Step 4: canonical operator names are retained; packs render.
		return &Unary{lexprBase: lexprBase{lbase{l.newID("lexpr"), e.Span()}, e.Type().String()}, Operator: e.Operator, Operand: operand}, nil

	case *ir.Binary:
		if err := l.gate(binaryFeature(e.Operator), e.Span(), target, m); err != nil {
			return nil, err
		}
		left, err := l.lowerExpr(e.Left, target, m, notes)
		if err != nil {
			return nil, err
		}
		right, err := l.lowerExpr(e.Right, target, m, notes)
		if err != nil {
			return nil, err
		}
		return &Binary{lexprBase: lexprBase{lbase{l.newID("lexpr"), e.Span()}, e.Type().String()}, Left: left, Operator: e.Operator, Right: right}, nil

	case *ir.Call:
		if err := l.gate("call", e.Span(), target, m); err != nil {
			return nil, err
		}
		if e.AtPrefixed {
			if err := l.gate("at_call", e.Span(), target, m); err != nil {
				return nil, err
			}
		}
		callee, err := l.lowerExpr(e.Callee, target, m, notes)
		if err != nil {
			return nil, err
		}
		args := make([]LExpr, len(e.Args))
		for i, a := range e.Args {
			lowered, err := l.lowerExpr(a, target, m, notes)
			if err != nil {
				return nil, err
			}
			args[i] = lowered
		}
		// Step 3: call normalization — the @-flag is dropped; calls are uniform.
		return &Call{lexprBase: lexprBase{lbase{l.newID("lexpr"), e.Span()}, e.Type().String()}, Callee: callee, Args: args}, nil

	case *ir.Lambda:
		if err := l.gate("lambda", e.Span(), target, m); err != nil {
			return nil, err
		}
		body, err := l.lowerExpr(e.Body, target, m, notes)
		if err != nil {
			return nil, err
		}
		params := make([]Param, len(e.Params))
		for i, p := range e.Params {
			params[i] = Param{Name: p.Name, TypeHint: p.TypeHint}
		}
		return &Lambda{lexprBase: lexprBase{lbase{l.newID("lexpr"), e.Span()}, e.Type().String()}, Params: params, ReturnType: e.ReturnType, Body: body}, nil

	case *ir.Group:
		// Explicit grouping is preserved by the lowered tree shape itself
		// (step 4); Group has no distinct lowered form, it lowers to its inner.
		return l.lowerExpr(e.Inner, target, m, notes)

	default:
		return nil, diagnostics.NewWithHint("LOW003", expr.Span(),
			"unsupported IR expression in lowering",
			"extend expression lowering support for this target")
	}
}

func binaryFeature(operator string) string {
	switch operator {
	case "&&", "||":
		return "logic"
	case "==", "!=", "<", "<=", ">", ">=":
		return "comparison"
	default:
		return "arithmetic"
	}
}

func requiredHelpers(statements []LStmt, target string) []string {
	switch target {
	case "web", "js", "javascript", "typescript":
		if containsPrintCall(statements) {
			return []string{"print"}
		}
	}
	return nil
}

func containsPrintCall(statements []LStmt) bool {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ExpressionStmt:
			if exprHasPrint(s.Expr) {
				return true
			}
		case *If:
			if containsPrintCall(s.Then) || containsPrintCall(s.Else) {
				return true
			}
		case *Loop:
			if containsPrintCall(s.Body) {
				return true
			}
		case *Function:
			if containsPrintCall(s.Body) {
				return true
			}
		case *Return:
			if s.Value != nil && exprHasPrint(s.Value) {
				return true
			}
		case *Assignment:
			if exprHasPrint(s.Value) {
				return true
			}
		}
	}
	return false
}

func exprHasPrint(expr LExpr) bool {
	switch e := expr.(type) {
	case *Call:
		if ref, ok := e.Callee.(*Ref); ok && ref.Name == "print" {
			return true
		}
		if e.Callee != nil && exprHasPrint(e.Callee) {
			return true
		}
		for _, a := range e.Args {
			if exprHasPrint(a) {
				return true
			}
		}
	case *Unary:
		return exprHasPrint(e.Operand)
	case *Binary:
		return exprHasPrint(e.Left) || exprHasPrint(e.Right)
	case *Lambda:
		return exprHasPrint(e.Body)
	}
	return false
}

func (l *Lowerer) newID(prefix string) string {
	l.counter++
	return prefix + strconv.Itoa(l.counter)
}
