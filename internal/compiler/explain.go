package compiler

import (
	"strconv"

	"github.com/funvibe/icl/internal/alias"
	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/graph"
	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/lowering"
	"github.com/funvibe/icl/internal/token"
)

// ExplainResult is the stable-key payload of spec.md §6's `explain` command:
// `ast`, `ir`, `lowered` (present only when a target is given), `graph`,
// `source_map`, and an optional `alias_trace`.
type ExplainResult struct {
	AST        map[string]any        `json:"ast"`
	IR         map[string]any        `json:"ir"`
	Lowered    map[string]any        `json:"lowered,omitempty"`
	Graph      graph.GraphJSON        `json:"graph"`
	SourceMap  map[string]token.Span  `json:"source_map"`
	AliasTrace []alias.Rewrite        `json:"alias_trace,omitempty"`
}

// Explain runs the front end (and, if target is non-empty, lowering against
// that target's registered pack) and projects every stage's output into the
// stable JSON shape spec.md §6 names.
func (p *Pipeline) Explain(source, target string, opts Options) (*ExplainResult, diagnostics.List) {
	fe, errs := p.runFrontend(source, opts)
	if errs.HasErrors() {
		return nil, errs
	}

	out := &ExplainResult{
		AST:        programJSON(fe.Program),
		IR:         irModuleJSON(fe.IR),
		Graph:      fe.Graph.ToJSON(),
		SourceMap:  irSourceMap(fe.IR),
		AliasTrace: fe.AliasTrace,
	}

	if target != "" {
		lp, err := p.Registry.Get(target)
		if err != nil {
			return nil, diagnostics.List{err}
		}
		lowered, lowerErr := lowering.New().Lower(fe.IR, target, lp.Manifest())
		if lowerErr != nil {
			return nil, diagnostics.List{lowerErr}
		}
		out.Lowered = loweredModuleJSON(lowered)
	}

	return out, nil
}

func irSourceMap(mod *ir.Module) map[string]token.Span {
	// The builder's SourceMap lives alongside the Builder, not the Module;
	// Explain rebuilds an equivalent id->span table by walking the IR tree,
	// since every node already carries its own span and id.
	out := map[string]token.Span{}
	var walkStmt func(ir.Stmt)
	var walkExpr func(ir.Expr)

	walkExpr = func(e ir.Expr) {
		if e == nil {
			return
		}
		out[itoa(e.ID())] = e.Span()
		switch x := e.(type) {
		case *ir.Unary:
			walkExpr(x.Operand)
		case *ir.Binary:
			walkExpr(x.Left)
			walkExpr(x.Right)
		case *ir.Call:
			walkExpr(x.Callee)
			for _, a := range x.Args {
				walkExpr(a)
			}
		case *ir.Lambda:
			walkExpr(x.Body)
		case *ir.Group:
			walkExpr(x.Inner)
		}
	}

	walkStmt = func(s ir.Stmt) {
		if s == nil {
			return
		}
		out[itoa(s.ID())] = s.Span()
		switch x := s.(type) {
		case *ir.Assignment:
			walkExpr(x.Value)
		case *ir.ExpressionStmt:
			walkExpr(x.Expr)
		case *ir.If:
			walkExpr(x.Condition)
			for _, t := range x.Then {
				walkStmt(t)
			}
			for _, e := range x.Else {
				walkStmt(e)
			}
		case *ir.Loop:
			walkExpr(x.Start)
			walkExpr(x.End)
			for _, b := range x.Body {
				walkStmt(b)
			}
		case *ir.Function:
			if x.ExprBody != nil {
				walkExpr(x.ExprBody)
			}
			for _, b := range x.Body {
				walkStmt(b)
			}
		case *ir.Return:
			walkExpr(x.Value)
		}
	}

	out[itoa(mod.ID())] = mod.Span()
	for _, s := range mod.Statements {
		walkStmt(s)
	}
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }

// --- AST projection ---

func programJSON(prog *ast.Program) map[string]any {
	stmts := make([]any, len(prog.Statements))
	for i, s := range prog.Statements {
		stmts[i] = astStmtJSON(s)
	}
	return map[string]any{"kind": "Program", "statements": stmts}
}

func spanJSON(s token.Span) map[string]any {
	return map[string]any{
		"file": s.File, "line": s.Line, "column": s.Column,
		"end_line": s.EndLine, "end_column": s.EndColumn,
	}
}

func astStmtJSON(s ast.Statement) map[string]any {
	switch n := s.(type) {
	case *ast.AssignmentStmt:
		return map[string]any{"kind": "AssignmentStmt", "span": spanJSON(n.Span()), "name": n.Name, "type_hint": n.TypeHint, "value": astExprJSON(n.Value)}
	case *ast.ExpressionStmt:
		return map[string]any{"kind": "ExpressionStmt", "span": spanJSON(n.Span()), "expr": astExprJSON(n.Expr)}
	case *ast.IfStmt:
		return map[string]any{"kind": "IfStmt", "span": spanJSON(n.Span()), "condition": astExprJSON(n.Condition), "then": astStmtList(n.Then), "else": astStmtList(n.Else)}
	case *ast.LoopStmt:
		return map[string]any{"kind": "LoopStmt", "span": spanJSON(n.Span()), "iterator": n.Iterator, "start": astExprJSON(n.Start), "end": astExprJSON(n.End), "body": astStmtList(n.Body)}
	case *ast.FunctionDefStmt:
		m := map[string]any{"kind": "FunctionDefStmt", "span": spanJSON(n.Span()), "name": n.Name, "params": astParamList(n.Params), "return_type": n.ReturnType}
		if n.IsExprBody() {
			m["expr_body"] = astExprJSON(n.ExprBody)
		} else {
			m["body"] = astStmtList(n.Body)
		}
		return m
	case *ast.ReturnStmt:
		m := map[string]any{"kind": "ReturnStmt", "span": spanJSON(n.Span())}
		if n.Value != nil {
			m["value"] = astExprJSON(n.Value)
		}
		return m
	case *ast.MacroStmt:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = astExprJSON(a)
		}
		return map[string]any{"kind": "MacroStmt", "span": spanJSON(n.Span()), "name": n.Name, "args": args}
	default:
		return map[string]any{"kind": "UnknownStmt", "span": spanJSON(s.Span())}
	}
}

func astStmtList(stmts []ast.Statement) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = astStmtJSON(s)
	}
	return out
}

func astParamList(params []ast.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = map[string]any{"name": p.Name, "type_hint": p.TypeHint}
	}
	return out
}

func astExprJSON(e ast.Expression) map[string]any {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return map[string]any{"kind": "LiteralExpr", "span": spanJSON(n.Span()), "value": n.Value}
	case *ast.IdentifierExpr:
		return map[string]any{"kind": "IdentifierExpr", "span": spanJSON(n.Span()), "name": n.Name}
	case *ast.UnaryExpr:
		return map[string]any{"kind": "UnaryExpr", "span": spanJSON(n.Span()), "operator": n.Operator, "operand": astExprJSON(n.Operand)}
	case *ast.BinaryExpr:
		return map[string]any{"kind": "BinaryExpr", "span": spanJSON(n.Span()), "left": astExprJSON(n.Left), "operator": n.Operator, "right": astExprJSON(n.Right)}
	case *ast.LambdaExpr:
		return map[string]any{"kind": "LambdaExpr", "span": spanJSON(n.Span()), "params": astParamList(n.Params), "return_type": n.ReturnType, "body": astExprJSON(n.Body)}
	case *ast.CallExpr:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = astExprJSON(a)
		}
		return map[string]any{"kind": "CallExpr", "span": spanJSON(n.Span()), "callee": astExprJSON(n.Callee), "args": args, "at_prefixed": n.AtPrefixed}
	case *ast.GroupExpr:
		return map[string]any{"kind": "GroupExpr", "span": spanJSON(n.Span()), "inner": astExprJSON(n.Inner)}
	default:
		return map[string]any{"kind": "UnknownExpr", "span": spanJSON(e.Span())}
	}
}

// --- IR projection ---

func irModuleJSON(mod *ir.Module) map[string]any {
	stmts := make([]any, len(mod.Statements))
	for i, s := range mod.Statements {
		stmts[i] = irStmtJSON(s)
	}
	return map[string]any{"kind": "Module", "id": mod.ID(), "statements": stmts}
}

func irStmtJSON(s ir.Stmt) map[string]any {
	switch n := s.(type) {
	case *ir.Assignment:
		return map[string]any{"kind": "Assignment", "id": n.ID(), "span": spanJSON(n.Span()), "name": n.Name, "type_hint": n.TypeHint, "value": irExprJSON(n.Value)}
	case *ir.ExpressionStmt:
		return map[string]any{"kind": "ExpressionStmt", "id": n.ID(), "span": spanJSON(n.Span()), "expr": irExprJSON(n.Expr)}
	case *ir.If:
		return map[string]any{"kind": "If", "id": n.ID(), "span": spanJSON(n.Span()), "condition": irExprJSON(n.Condition), "then": irStmtList(n.Then), "else": irStmtList(n.Else)}
	case *ir.Loop:
		return map[string]any{"kind": "Loop", "id": n.ID(), "span": spanJSON(n.Span()), "iterator": n.Iterator, "start": irExprJSON(n.Start), "end": irExprJSON(n.End), "body": irStmtList(n.Body)}
	case *ir.Function:
		m := map[string]any{"kind": "Function", "id": n.ID(), "span": spanJSON(n.Span()), "name": n.Name, "params": irParamList(n.Params), "return_type": n.ReturnType}
		if n.ExprBody != nil {
			m["expr_body"] = irExprJSON(n.ExprBody)
		} else {
			m["body"] = irStmtList(n.Body)
		}
		return m
	case *ir.Return:
		m := map[string]any{"kind": "Return", "id": n.ID(), "span": spanJSON(n.Span())}
		if n.Value != nil {
			m["value"] = irExprJSON(n.Value)
		}
		return m
	default:
		return map[string]any{"kind": "Unknown", "id": s.ID(), "span": spanJSON(s.Span())}
	}
}

func irStmtList(stmts []ir.Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = irStmtJSON(s)
	}
	return out
}

func irParamList(params []ir.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = map[string]any{"name": p.Name, "type_hint": p.TypeHint}
	}
	return out
}

func irExprJSON(e ir.Expr) map[string]any {
	if e == nil {
		return nil
	}
	base := map[string]any{"id": e.ID(), "span": spanJSON(e.Span()), "type": e.Type().String()}
	switch n := e.(type) {
	case *ir.Literal:
		base["kind"] = "Literal"
		base["value"] = n.Value
	case *ir.Ref:
		base["kind"] = "Ref"
		base["name"] = n.Name
	case *ir.Unary:
		base["kind"] = "Unary"
		base["operator"] = n.Operator
		base["operand"] = irExprJSON(n.Operand)
	case *ir.Binary:
		base["kind"] = "Binary"
		base["left"] = irExprJSON(n.Left)
		base["operator"] = n.Operator
		base["right"] = irExprJSON(n.Right)
	case *ir.Call:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = irExprJSON(a)
		}
		base["kind"] = "Call"
		base["callee"] = irExprJSON(n.Callee)
		base["args"] = args
		base["at_prefixed"] = n.AtPrefixed
	case *ir.Lambda:
		base["kind"] = "Lambda"
		base["params"] = irParamList(n.Params)
		base["return_type"] = n.ReturnType
		base["body"] = irExprJSON(n.Body)
	case *ir.Group:
		base["kind"] = "Group"
		base["inner"] = irExprJSON(n.Inner)
	default:
		base["kind"] = "Unknown"
	}
	return base
}

// --- Lowered projection ---

func loweredModuleJSON(mod *lowering.Module) map[string]any {
	stmts := make([]any, len(mod.Statements))
	for i, s := range mod.Statements {
		stmts[i] = loweredStmtJSON(s)
	}
	return map[string]any{
		"kind": "LoweredModule", "id": mod.ID(), "target": mod.Target,
		"required_helpers": mod.RequiredHelpers, "diagnostics": mod.Diagnostics,
		"statements": stmts,
	}
}

func loweredStmtJSON(s lowering.LStmt) map[string]any {
	switch n := s.(type) {
	case *lowering.Assignment:
		return map[string]any{"kind": "Assignment", "id": n.ID(), "name": n.Name, "type_hint": n.TypeHint, "value": loweredExprJSON(n.Value)}
	case *lowering.ExpressionStmt:
		return map[string]any{"kind": "ExpressionStmt", "id": n.ID(), "expr": loweredExprJSON(n.Expr)}
	case *lowering.If:
		return map[string]any{"kind": "If", "id": n.ID(), "condition": loweredExprJSON(n.Condition), "then": loweredStmtList(n.Then), "else": loweredStmtList(n.Else)}
	case *lowering.Loop:
		return map[string]any{"kind": "Loop", "id": n.ID(), "iterator": n.Iterator, "start": loweredExprJSON(n.Start), "end": loweredExprJSON(n.End), "body": loweredStmtList(n.Body)}
	case *lowering.Function:
		return map[string]any{"kind": "Function", "id": n.ID(), "name": n.Name, "params": loweredParamList(n.Params), "return_type": n.ReturnType, "body": loweredStmtList(n.Body)}
	case *lowering.Return:
		m := map[string]any{"kind": "Return", "id": n.ID()}
		if n.Value != nil {
			m["value"] = loweredExprJSON(n.Value)
		}
		return m
	default:
		return map[string]any{"kind": "Unknown", "id": s.ID()}
	}
}

func loweredStmtList(stmts []lowering.LStmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = loweredStmtJSON(s)
	}
	return out
}

func loweredParamList(params []lowering.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = map[string]any{"name": p.Name, "type_hint": p.TypeHint}
	}
	return out
}

func loweredExprJSON(e lowering.LExpr) map[string]any {
	if e == nil {
		return nil
	}
	base := map[string]any{"id": e.ID(), "type": e.ExprType()}
	switch n := e.(type) {
	case *lowering.Literal:
		base["kind"] = "Literal"
		base["value"] = n.Value
	case *lowering.Ref:
		base["kind"] = "Ref"
		base["name"] = n.Name
	case *lowering.Unary:
		base["kind"] = "Unary"
		base["operator"] = n.Operator
		base["operand"] = loweredExprJSON(n.Operand)
	case *lowering.Binary:
		base["kind"] = "Binary"
		base["left"] = loweredExprJSON(n.Left)
		base["operator"] = n.Operator
		base["right"] = loweredExprJSON(n.Right)
	case *lowering.Call:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = loweredExprJSON(a)
		}
		base["kind"] = "Call"
		base["callee"] = loweredExprJSON(n.Callee)
		base["args"] = args
	case *lowering.Lambda:
		base["kind"] = "Lambda"
		base["params"] = loweredParamList(n.Params)
		base["return_type"] = n.ReturnType
		base["body"] = loweredExprJSON(n.Body)
	default:
		base["kind"] = "Unknown"
	}
	return base
}
