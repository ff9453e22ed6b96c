package graph

import "github.com/funvibe/icl/internal/ir"

// Build converts an IR module into its Intent Graph projection, grounded on
// original_source/icl/graph.go's IntentGraphBuilder. Canonical node kinds
// and edge types follow spec.md §3 exactly.
func Build(mod *ir.Module) *Graph {
	g := New()
	moduleID := g.AddNode("ModuleIntent", map[string]any{"name": "module"})
	g.RootID = moduleID

	for idx, stmt := range mod.Statements {
		buildStmt(g, stmt, moduleID, "contains", idx)
	}
	return g
}

func buildStmt(g *Graph, stmt ir.Stmt, parentID, edgeType string, order int) string {
	var nodeID string

	switch s := stmt.(type) {
	case *ir.Assignment:
		nodeID = g.AddNode("AssignmentIntent", map[string]any{"name": s.Name, "type_hint": s.TypeHint})
		valueID := buildExpr(g, s.Value)
		g.AddEdge(nodeID, valueID, "value", 0)

	case *ir.ExpressionStmt:
		nodeID = g.AddNode("OperationIntent", map[string]any{"kind": "expression_statement"})
		exprID := buildExpr(g, s.Expr)
		g.AddEdge(nodeID, exprID, "expr", 0)

	case *ir.If:
		nodeID = g.AddNode("ControlIntent", map[string]any{"control": "if"})
		condID := buildExpr(g, s.Condition)
		g.AddEdge(nodeID, condID, "condition", 0)
		for idx, then := range s.Then {
			buildStmt(g, then, nodeID, "contains_then", idx)
		}
		for idx, els := range s.Else {
			buildStmt(g, els, nodeID, "contains_else", idx)
		}

	case *ir.Loop:
		nodeID = g.AddNode("LoopIntent", map[string]any{"iterator": s.Iterator})
		startID := buildExpr(g, s.Start)
		endID := buildExpr(g, s.End)
		g.AddEdge(nodeID, startID, "start", 0)
		g.AddEdge(nodeID, endID, "end", 1)
		for idx, body := range s.Body {
			buildStmt(g, body, nodeID, "contains_body", idx)
		}

	case *ir.Function:
		params := make([]map[string]any, len(s.Params))
		for i, p := range s.Params {
			params[i] = map[string]any{"name": p.Name, "type_hint": p.TypeHint}
		}
		nodeID = g.AddNode("FuncIntent", map[string]any{
			"name": s.Name, "params": params, "return_type": s.ReturnType, "expr_body": s.ExprBody != nil,
		})
		if s.ExprBody != nil {
			exprID := buildExpr(g, s.ExprBody)
			g.AddEdge(nodeID, exprID, "return_expr", 0)
		} else {
			for idx, body := range s.Body {
				buildStmt(g, body, nodeID, "contains_body", idx)
			}
		}

	case *ir.Return:
		nodeID = g.AddNode("ReturnIntent", map[string]any{})
		if s.Value != nil {
			valueID := buildExpr(g, s.Value)
			g.AddEdge(nodeID, valueID, "value", 0)
		}

	default:
		nodeID = g.AddNode("UnknownIntent", map[string]any{})
	}

	g.AddEdge(parentID, nodeID, edgeType, order)
	return nodeID
}

func buildExpr(g *Graph, expr ir.Expr) string {
	switch e := expr.(type) {
	case *ir.Literal:
		return g.AddNode("LiteralIntent", map[string]any{"value": e.Value, "kind": literalKindName(e.Kind)})

	case *ir.Ref:
		return g.AddNode("RefIntent", map[string]any{"name": e.Name})

	case *ir.Unary:
		nodeID := g.AddNode("OperationIntent", map[string]any{"operator": e.Operator, "arity": 1})
		operandID := buildExpr(g, e.Operand)
		g.AddEdge(nodeID, operandID, "operand", 0)
		return nodeID

	case *ir.Binary:
		nodeID := g.AddNode("OperationIntent", map[string]any{"operator": e.Operator, "arity": 2})
		leftID := buildExpr(g, e.Left)
		rightID := buildExpr(g, e.Right)
		g.AddEdge(nodeID, leftID, "operand", 0)
		g.AddEdge(nodeID, rightID, "operand", 1)
		return nodeID

	case *ir.Call:
		attrs := map[string]any{"at_prefixed": e.AtPrefixed}
		nodeID := g.AddNode("CallIntent", attrs)
		if ref, ok := e.Callee.(*ir.Ref); ok {
			g.Nodes[nodeID].Attrs["callee_name"] = ref.Name
		} else {
			calleeID := buildExpr(g, e.Callee)
			g.AddEdge(nodeID, calleeID, "callee", 0)
		}
		for idx, arg := range e.Args {
			argID := buildExpr(g, arg)
			g.AddEdge(nodeID, argID, "arg", idx)
		}
		return nodeID

	case *ir.Lambda:
		params := make([]map[string]any, len(e.Params))
		for i, p := range e.Params {
			params[i] = map[string]any{"name": p.Name, "type_hint": p.TypeHint}
		}
		nodeID := g.AddNode("LambdaIntent", map[string]any{"params": params, "return_type": e.ReturnType})
		bodyID := buildExpr(g, e.Body)
		g.AddEdge(nodeID, bodyID, "body", 0)
		return nodeID

	case *ir.Group:
		return buildExpr(g, e.Inner)

	default:
		return g.AddNode("UnknownExprIntent", map[string]any{})
	}
}

func literalKindName(k ir.LiteralKind) string {
	switch k {
	case ir.LiteralNum:
		return "num"
	case ir.LiteralBool:
		return "bool"
	default:
		return "str"
	}
}
