package graph

import (
	"testing"

	"github.com/funvibe/icl/internal/ir"
	"github.com/funvibe/icl/internal/lexer"
	"github.com/funvibe/icl/internal/parser"
	"github.com/funvibe/icl/internal/semantic"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, src string) *Graph {
	t.Helper()
	toks, lexErrs := lexer.New(src, "<test>").Tokenize()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).ParseProgram()
	require.Empty(t, parseErrs)
	sem, semErrs := semantic.New().Analyze(prog)
	require.Empty(t, semErrs)
	mod := ir.NewBuilder(sem).Build(prog)
	return Build(mod)
}

func TestBuildRootIsModuleIntent(t *testing.T) {
	g := buildGraph(t, "x := 1;")
	require.Equal(t, "ModuleIntent", g.Nodes[g.RootID].Kind)
}

func TestBuildAssignmentHasValueEdge(t *testing.T) {
	g := buildGraph(t, "x := 1 + 2;")
	var assignID string
	for id, n := range g.Nodes {
		if n.Kind == "AssignmentIntent" {
			assignID = id
		}
	}
	require.NotEmpty(t, assignID)
	edges := g.Outgoing(assignID, "value")
	require.Len(t, edges, 1)
	require.Equal(t, "OperationIntent", g.Nodes[edges[0].Target].Kind)
}

func TestOutgoingSortedByOrder(t *testing.T) {
	g := buildGraph(t, "fn add(a,b,c) => a + b + c; x := add(1,2,3);")
	var callID string
	for id, n := range g.Nodes {
		if n.Kind == "CallIntent" {
			callID = id
		}
	}
	args := g.Outgoing(callID, "arg")
	for i, e := range args {
		require.Equal(t, i, e.Order)
	}
}

func TestRemoveNodeDropsTouchingEdges(t *testing.T) {
	g := buildGraph(t, "x := 1;")
	before := len(g.Edges)
	var litID string
	for id, n := range g.Nodes {
		if n.Kind == "LiteralIntent" {
			litID = id
		}
	}
	g.RemoveNode(litID)
	require.Less(t, len(g.Edges), before)
	require.NotContains(t, g.Nodes, litID)
}

func TestDiffGraphsDetectsAddedNode(t *testing.T) {
	before := buildGraph(t, "x := 1;")
	after := buildGraph(t, "x := 1; y := 2;")
	d := DiffGraphs(before, after)
	require.NotEmpty(t, d.AddedNodes)
}

func TestOptimizeConstantFoldsLiteralOperation(t *testing.T) {
	g := buildGraph(t, "x := 1 + 2; print(x);")
	optimized, report := GraphOptimizer{}.Optimize(g)
	require.Equal(t, 1, report.FoldedOperations)
	var assignID string
	for id, n := range optimized.Nodes {
		if n.Kind == "AssignmentIntent" {
			assignID = id
		}
	}
	valueEdges := optimized.Outgoing(assignID, "value")
	require.Len(t, valueEdges, 1)
	require.Equal(t, "LiteralIntent", optimized.Nodes[valueEdges[0].Target].Kind)
}

func TestOptimizeRemovesDeadAssignment(t *testing.T) {
	g := buildGraph(t, "x := 1; y := 2;")
	_, report := GraphOptimizer{}.Optimize(g)
	require.Equal(t, 2, report.RemovedAssignments)
}

func TestOptimizeKeepsReferencedAssignment(t *testing.T) {
	g := buildGraph(t, "x := 1; y := x + 1;")
	optimized, report := GraphOptimizer{}.Optimize(g)
	require.Equal(t, 1, report.RemovedAssignments)
	var names []string
	for _, n := range optimized.Nodes {
		if n.Kind == "AssignmentIntent" {
			names = append(names, n.Attrs["name"].(string))
		}
	}
	require.Contains(t, names, "x")
}

func TestToJSONDeterministicOrder(t *testing.T) {
	g := buildGraph(t, "x := 1 + 2;")
	j1 := g.ToJSON()
	j2 := g.ToJSON()
	require.Equal(t, j1, j2)
}
