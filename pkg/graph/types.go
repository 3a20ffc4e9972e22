package graph

import (
	"slices"
	"strings"

	"github.com/fpicetti/stenfront/pkg/stencil"
	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// Node kinds mirror symbolic.DimensionKind on the wire.
const (
	KindSpace    = "space"
	KindNonSpace = "nonspace"
)

// Graph is the canonical serialization format for dimension precedence
// graphs. Nodes are dimensions, edges are observed "must precede"
// constraints.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a serialized dimension.
type Node struct {
	ID     string `json:"id"`
	Kind   string `json:"kind,omitempty"`   // "space" (default) or "nonspace"
	Parent string `json:"parent,omitempty"` // set for derived dimensions
}

// Edge is a directed precedence constraint: From must come before To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Report bundles the analysis results for one model.
type Report struct {
	// Model is the analyzed model's name.
	Model string `json:"model"`

	// RunID uniquely identifies the analysis run that produced this report.
	RunID string `json:"run_id,omitempty"`

	// Equations holds one entry per analyzed equation, in declaration order.
	Equations []EquationReport `json:"equations"`

	// Precedence is the merged precedence graph over all equations.
	Precedence Graph `json:"precedence"`
}

// EquationReport is the per-equation slice of a report.
type EquationReport struct {
	// Source is the rendered equation text.
	Source string `json:"source"`

	// Ordering is the resolved dimension order, outermost first.
	Ordering []string `json:"ordering"`

	// Stencil maps dimension names to their accessed offsets, ascending.
	// Insertion order is not preserved by JSON; Dimensions records it.
	Stencil map[string][]int `json:"stencil"`

	// Dimensions lists the stencil's dimensions in first-encounter order.
	Dimensions []string `json:"dimensions"`
}

// FromDimensions builds a precedence graph from relations over dimensions.
// Each relation contributes an edge between consecutive members. Nodes and
// edges are sorted for deterministic output; duplicate edges collapse.
func FromDimensions(relations [][]*symbolic.Dimension) Graph {
	nodes := make(map[string]Node)
	edges := make(map[Edge]bool)
	for _, rel := range relations {
		for i, d := range rel {
			if _, ok := nodes[d.Name()]; !ok {
				nodes[d.Name()] = toNode(d)
			}
			if i > 0 && rel[i-1] != d {
				edges[Edge{From: rel[i-1].Name(), To: d.Name()}] = true
			}
		}
	}

	g := Graph{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
	}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, n)
	}
	slices.SortFunc(g.Nodes, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })
	for e := range edges {
		g.Edges = append(g.Edges, e)
	}
	slices.SortFunc(g.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return g
}

func toNode(d *symbolic.Dimension) Node {
	n := Node{ID: d.Name()}
	if !d.IsSpace() {
		n.Kind = KindNonSpace
	}
	if d.IsDerived() {
		n.Parent = d.Parent().Name()
	}
	return n
}

// EquationResult converts one equation's analysis output into its report
// form. The ordering keeps resolver output order; the stencil keeps
// first-encounter dimension order in Dimensions.
func EquationResult(eq *symbolic.Equation, ordering []*symbolic.Dimension, s *stencil.Stencil) EquationReport {
	r := EquationReport{
		Source:   eq.String(),
		Ordering: make([]string, len(ordering)),
		Stencil:  make(map[string][]int, len(s.Dimensions())),
	}
	for i, d := range ordering {
		r.Ordering[i] = d.Name()
	}
	for _, d := range s.Dimensions() {
		r.Dimensions = append(r.Dimensions, d.Name())
		r.Stencil[d.Name()] = s.Get(d)
	}
	return r
}
