// Package order resolves a set of partial ordering relations over
// dimensions into one deterministic total order.
//
// A relation is an ordered tuple of dimensions: each element must precede
// its immediate successor. Relations from different sources are independent
// observations and may be contradictory, in which case resolution fails
// with [ErrCycle].
//
// Determinism matters because downstream code generation is sensitive to
// loop-nest order: repeated calls on equal input always yield identical
// output. Ties between unconstrained dimensions are broken by declaration
// order of the element set, then alphabetically by name.
package order

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// ErrCycle is returned by [Resolve] when the relations are mutually
// contradictory (a directed cycle in the induced precedence graph).
// No valid ordering exists; this indicates a modeling bug, not a
// transient condition.
var ErrCycle = errors.New("ordering relations contain a cycle")

// Resolve computes a total order consistent with all relations.
//
// The vertex set is the union of elements and every dimension mentioned in
// any relation. Each relation tuple contributes an edge from each member to
// its immediate successor. Among vertices with no remaining precedence
// constraint, the one earliest in elements wins; vertices not in elements
// rank after all declared ones and among themselves alphabetically.
func Resolve(elements []*symbolic.Dimension, relations [][]*symbolic.Dimension) ([]*symbolic.Dimension, error) {
	g := newPrecedence(elements)
	for _, rel := range relations {
		for i := range rel {
			g.addVertex(rel[i])
			if i > 0 {
				g.addEdge(rel[i-1], rel[i])
			}
		}
	}
	return g.sort()
}

// precedence is the adjacency structure built per call. It is deliberately
// index-based rather than pointer-linked so that parent/derived dimension
// chains cannot introduce ownership cycles.
type precedence struct {
	verts []*symbolic.Dimension
	rank  map[*symbolic.Dimension]int // declaration rank for tie-breaking
	succ  map[*symbolic.Dimension]map[*symbolic.Dimension]bool
	indeg map[*symbolic.Dimension]int
}

func newPrecedence(elements []*symbolic.Dimension) *precedence {
	g := &precedence{
		rank:  make(map[*symbolic.Dimension]int),
		succ:  make(map[*symbolic.Dimension]map[*symbolic.Dimension]bool),
		indeg: make(map[*symbolic.Dimension]int),
	}
	for _, d := range elements {
		g.addVertex(d)
		if _, ok := g.rank[d]; !ok {
			g.rank[d] = len(g.rank)
		}
	}
	return g
}

func (g *precedence) addVertex(d *symbolic.Dimension) {
	if _, ok := g.indeg[d]; ok {
		return
	}
	g.verts = append(g.verts, d)
	g.indeg[d] = 0
}

// addEdge records from→to. Duplicate edges are collapsed so repeated
// observations of the same relation do not skew in-degrees.
func (g *precedence) addEdge(from, to *symbolic.Dimension) {
	if from == to {
		return
	}
	set := g.succ[from]
	if set == nil {
		set = make(map[*symbolic.Dimension]bool)
		g.succ[from] = set
	}
	if set[to] {
		return
	}
	set[to] = true
	g.indeg[to]++
}

// before reports whether a should be emitted ahead of b when both are
// unconstrained. Declared elements come first in declaration order;
// undeclared vertices follow, alphabetically.
func (g *precedence) before(a, b *symbolic.Dimension) bool {
	ra, aDeclared := g.rank[a]
	rb, bDeclared := g.rank[b]
	switch {
	case aDeclared && bDeclared:
		return ra < rb
	case aDeclared:
		return true
	case bDeclared:
		return false
	default:
		return a.Name() < b.Name()
	}
}

// sort runs Kahn's algorithm with the deterministic tie-break.
func (g *precedence) sort() ([]*symbolic.Dimension, error) {
	remaining := len(g.verts)
	emitted := make(map[*symbolic.Dimension]bool, remaining)
	out := make([]*symbolic.Dimension, 0, remaining)

	for remaining > 0 {
		var next *symbolic.Dimension
		for _, d := range g.verts {
			if emitted[d] || g.indeg[d] != 0 {
				continue
			}
			if next == nil || g.before(d, next) {
				next = d
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: involving %s", ErrCycle, g.stuck(emitted))
		}
		emitted[next] = true
		out = append(out, next)
		remaining--
		for s := range g.succ[next] {
			g.indeg[s]--
		}
	}
	return out, nil
}

// stuck names the vertices still blocked when no progress is possible.
func (g *precedence) stuck(emitted map[*symbolic.Dimension]bool) string {
	var names []string
	for _, d := range g.verts {
		if !emitted[d] {
			names = append(names, d.Name())
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
