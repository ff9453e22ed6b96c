package graph

import "fmt"

// OptimizationReport summarizes the passes a GraphOptimizer applied.
// spec.md leaves "optimize" semantics non-normative: disabled by default,
// it never affects artifact byte-stability (spec.md §9's Open Question
// resolution — recorded in SPEC_FULL.md §9).
type OptimizationReport struct {
	FoldedOperations  int
	RemovedAssignments int
	Notes             []string
}

// GraphOptimizer applies deterministic optimization passes to a Graph,
// grounded on original_source/icl/optimize.go.
type GraphOptimizer struct{}

// Optimize runs constant-folding, dead-assignment-removal, and
// orphan-pruning over a copy of g, returning the optimized graph and report.
func (GraphOptimizer) Optimize(g *Graph) (*Graph, *OptimizationReport) {
	optimized := clone(g)
	report := &OptimizationReport{}

	constantFold(optimized, report)
	removeDeadAssignments(optimized, report)
	pruneOrphans(optimized)

	return optimized, report
}

func clone(g *Graph) *Graph {
	out := New()
	out.RootID = g.RootID
	out.counter = g.counter
	for id, n := range g.Nodes {
		attrs := make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			attrs[k] = v
		}
		out.Nodes[id] = &Node{ID: n.ID, Kind: n.Kind, Attrs: attrs}
	}
	out.Edges = append([]Edge(nil), g.Edges...)
	return out
}

func constantFold(g *Graph, report *OptimizationReport) {
	for id, node := range g.Nodes {
		if node.Kind != "OperationIntent" {
			continue
		}
		operands := g.Outgoing(id, "operand")
		if len(operands) == 0 {
			continue
		}
		values := make([]any, 0, len(operands))
		allLiteral := true
		for _, e := range operands {
			opNode := g.Nodes[e.Target]
			if opNode.Kind != "LiteralIntent" {
				allLiteral = false
				break
			}
			values = append(values, opNode.Attrs["value"])
		}
		if !allLiteral {
			continue
		}
		operator, _ := node.Attrs["operator"].(string)
		folded, ok := evalOperator(operator, values)
		if !ok {
			continue
		}
		node.Kind = "LiteralIntent"
		node.Attrs = map[string]any{"value": folded, "folded_from": operator}
		kept := g.Edges[:0]
		for _, e := range g.Edges {
			if !(e.Source == id && e.EdgeType == "operand") {
				kept = append(kept, e)
			}
		}
		g.Edges = kept
		report.FoldedOperations++
		report.Notes = append(report.Notes, fmt.Sprintf("folded operation node %s (%s)", id, operator))
	}
}

func removeDeadAssignments(g *Graph, report *OptimizationReport) {
	referenced := map[string]bool{}
	for _, n := range g.Nodes {
		if n.Kind == "RefIntent" {
			if name, ok := n.Attrs["name"].(string); ok {
				referenced[name] = true
			}
		}
	}
	for id, n := range g.Nodes {
		if n.Kind != "AssignmentIntent" {
			continue
		}
		name, _ := n.Attrs["name"].(string)
		if referenced[name] {
			continue
		}
		g.RemoveNode(id)
		report.RemovedAssignments++
		report.Notes = append(report.Notes, fmt.Sprintf("removed dead assignment node %s (%s)", id, name))
	}
}

func pruneOrphans(g *Graph) {
	for {
		changed := false
		for id := range g.Nodes {
			if id == g.RootID {
				continue
			}
			if len(g.Incoming(id, "")) > 0 {
				continue
			}
			g.RemoveNode(id)
			changed = true
		}
		if !changed {
			return
		}
	}
}

// evalOperator mirrors original_source/icl/optimize.go's operator table,
// restricted to the operand kinds the symbolic type lattice allows.
func evalOperator(operator string, values []any) (any, bool) {
	num := func(v any) (float64, bool) { f, ok := v.(float64); return f, ok }
	switch operator {
	case "+":
		if len(values) == 1 {
			a, ok := num(values[0])
			return a, ok
		}
		a, ok1 := num(values[0])
		b, ok2 := num(values[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return a + b, true
	case "-":
		if len(values) == 1 {
			a, ok := num(values[0])
			return -a, ok
		}
		a, ok1 := num(values[0])
		b, ok2 := num(values[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return a - b, true
	case "+u":
		a, ok := num(values[0])
		return a, ok
	case "*":
		a, ok1 := num(values[0])
		b, ok2 := num(values[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return a * b, true
	case "/":
		a, ok1 := num(values[0])
		b, ok2 := num(values[1])
		if !ok1 || !ok2 || b == 0 {
			return nil, false
		}
		return a / b, true
	case "%":
		a, ok1 := num(values[0])
		b, ok2 := num(values[1])
		if !ok1 || !ok2 || b == 0 {
			return nil, false
		}
		return float64(int64(a) % int64(b)), true
	case "==":
		return values[0] == values[1], true
	case "!=":
		return values[0] != values[1], true
	case "<", "<=", ">", ">=":
		a, ok1 := num(values[0])
		b, ok2 := num(values[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		switch operator {
		case "<":
			return a < b, true
		case "<=":
			return a <= b, true
		case ">":
			return a > b, true
		default:
			return a >= b, true
		}
	case "&&":
		a, ok1 := values[0].(bool)
		b, ok2 := values[1].(bool)
		if !ok1 || !ok2 {
			return nil, false
		}
		return a && b, true
	case "||":
		a, ok1 := values[0].(bool)
		b, ok2 := values[1].(bool)
		if !ok1 || !ok2 {
			return nil, false
		}
		return a || b, true
	case "!":
		a, ok := values[0].(bool)
		if !ok {
			return nil, false
		}
		return !a, true
	default:
		return nil, false
	}
}
