package graph

import (
	"fmt"
	"reflect"
	"sort"
)

// Diff is the structural diff between two Graph snapshots, serialized for
// the `diff` CLI command (spec.md §6).
type Diff struct {
	AddedNodes   []string `json:"added_nodes"`
	RemovedNodes []string `json:"removed_nodes"`
	ChangedNodes []string `json:"changed_nodes"`
	AddedEdges   []string `json:"added_edges"`
	RemovedEdges []string `json:"removed_edges"`
}

// DiffGraphs computes a structural diff between before and after, grounded
// on original_source/icl/graph.go's diff_graphs.
func DiffGraphs(before, after *Graph) *Diff {
	beforeIDs := nodeIDSet(before)
	afterIDs := nodeIDSet(after)

	d := &Diff{}
	for id := range afterIDs {
		if !beforeIDs[id] {
			d.AddedNodes = append(d.AddedNodes, id)
		}
	}
	for id := range beforeIDs {
		if !afterIDs[id] {
			d.RemovedNodes = append(d.RemovedNodes, id)
		}
	}
	for id := range beforeIDs {
		if !afterIDs[id] {
			continue
		}
		b, a := before.Nodes[id], after.Nodes[id]
		if b.Kind != a.Kind || !reflect.DeepEqual(b.Attrs, a.Attrs) {
			d.ChangedNodes = append(d.ChangedNodes, id)
		}
	}

	beforeEdges := edgeSet(before)
	afterEdges := edgeSet(after)
	for key := range afterEdges {
		if !beforeEdges[key] {
			d.AddedEdges = append(d.AddedEdges, key)
		}
	}
	for key := range beforeEdges {
		if !afterEdges[key] {
			d.RemovedEdges = append(d.RemovedEdges, key)
		}
	}

	sort.Strings(d.AddedNodes)
	sort.Strings(d.RemovedNodes)
	sort.Strings(d.ChangedNodes)
	sort.Strings(d.AddedEdges)
	sort.Strings(d.RemovedEdges)
	return d
}

func nodeIDSet(g *Graph) map[string]bool {
	out := make(map[string]bool, len(g.Nodes))
	for id := range g.Nodes {
		out[id] = true
	}
	return out
}

func edgeSet(g *Graph) map[string]bool {
	out := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		out[edgeKey(e)] = true
	}
	return out
}

func edgeKey(e Edge) string {
	return fmt.Sprintf("%s|%s|%s|%d", e.Source, e.Target, e.EdgeType, e.Order)
}
