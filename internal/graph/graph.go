// Package graph implements ICL's Intent Graph (spec.md §3, §4.6): a derived
// directed typed multigraph projection of the IR, used for the `explain`
// and `diff` CLI artifacts. Grounded on original_source/icl/graph.go.
package graph

import (
	"sort"
	"strconv"
)

// Node is a typed semantic node in the Intent Graph.
type Node struct {
	ID    string
	Kind  string
	Attrs map[string]any
}

// Edge is a directed, typed, ordered relation between two nodes.
type Edge struct {
	Source   string
	Target   string
	EdgeType string
	Order    int
}

// Graph is a directed, acyclic-by-construction typed multigraph (spec.md's
// "no cycle check is performed" — acyclicity follows from build order, not
// from any runtime enforcement).
type Graph struct {
	Nodes  map[string]*Node
	Edges  []Edge
	RootID string

	counter int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddNode creates a new node of kind with attrs and returns its id.
func (g *Graph) AddNode(kind string, attrs map[string]any) string {
	g.counter++
	id := "n" + strconv.Itoa(g.counter)
	if attrs == nil {
		attrs = map[string]any{}
	}
	g.Nodes[id] = &Node{ID: id, Kind: kind, Attrs: attrs}
	return id
}

// AddEdge appends a directed typed edge.
func (g *Graph) AddEdge(source, target, edgeType string, order int) {
	g.Edges = append(g.Edges, Edge{Source: source, Target: target, EdgeType: edgeType, Order: order})
}

// Outgoing returns edges leaving source, optionally filtered by edgeType,
// sorted by Order for deterministic traversal (spec.md §3).
func (g *Graph) Outgoing(source, edgeType string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source != source {
			continue
		}
		if edgeType != "" && e.EdgeType != edgeType {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Incoming returns edges arriving at target, optionally filtered by edgeType.
func (g *Graph) Incoming(target, edgeType string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Target != target {
			continue
		}
		if edgeType != "" && e.EdgeType != edgeType {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ChildIDs returns target node ids for an ordered outgoing edge type.
func (g *Graph) ChildIDs(source, edgeType string) []string {
	edges := g.Outgoing(source, edgeType)
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.Target
	}
	return ids
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id string) {
	delete(g.Nodes, id)
	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
}

// NodeJSON and EdgeJSON give the stable §6 Explain JSON shape.
type NodeJSON struct {
	ID    string         `json:"id"`
	Kind  string         `json:"kind"`
	Attrs map[string]any `json:"attrs"`
}

type EdgeJSON struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	EdgeType string `json:"edge_type"`
	Order    int    `json:"order"`
}

type GraphJSON struct {
	Nodes  []NodeJSON `json:"nodes"`
	Edges  []EdgeJSON `json:"edges"`
	RootID string     `json:"root_id"`
}

// ToJSON serializes the graph in deterministic node-id order
// (spec.md's "Determinism" requirement for graph serialization).
func (g *Graph) ToJSON() GraphJSON {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return nodeNum(ids[i]) < nodeNum(ids[j]) })

	out := GraphJSON{RootID: g.RootID}
	for _, id := range ids {
		n := g.Nodes[id]
		out.Nodes = append(out.Nodes, NodeJSON{ID: n.ID, Kind: n.Kind, Attrs: n.Attrs})
	}
	edges := make([]Edge, len(g.Edges))
	copy(edges, g.Edges)
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return nodeNum(edges[i].Source) < nodeNum(edges[j].Source)
		}
		if edges[i].EdgeType != edges[j].EdgeType {
			return edges[i].EdgeType < edges[j].EdgeType
		}
		return edges[i].Order < edges[j].Order
	})
	for _, e := range edges {
		out.Edges = append(out.Edges, EdgeJSON{Source: e.Source, Target: e.Target, EdgeType: e.EdgeType, Order: e.Order})
	}
	return out
}

// FromJSON reconstructs a Graph from its serialized form, used by the
// `diff` CLI entry which takes two already-serialized graphs as input
// (spec.md §6).
func FromJSON(gj GraphJSON) *Graph {
	g := New()
	g.RootID = gj.RootID
	for _, n := range gj.Nodes {
		g.Nodes[n.ID] = &Node{ID: n.ID, Kind: n.Kind, Attrs: n.Attrs}
		if num := nodeNum(n.ID); num > g.counter {
			g.counter = num
		}
	}
	for _, e := range gj.Edges {
		g.Edges = append(g.Edges, Edge{Source: e.Source, Target: e.Target, EdgeType: e.EdgeType, Order: e.Order})
	}
	return g
}

func nodeNum(id string) int {
	n := 0
	for _, c := range id {
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
		}
	}
	return n
}

