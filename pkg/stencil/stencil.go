// Package stencil computes per-dimension footprints: the set of relative
// neighbor offsets an equation accesses along each axis. The lowering
// pipeline consumes footprints to size halo regions and to compute data
// dependencies across iterations.
package stencil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// Stencil maps dimensions to the set of integer offsets used with them in
// expressions, including zero offsets. The mapping is ordered: iteration
// follows the order in which dimensions were first encountered during
// extraction (or inserted).
//
// A Stencil is not safe for concurrent mutation; build one per equation and
// freeze it before sharing.
type Stencil struct {
	dims    []*symbolic.Dimension
	offsets map[*symbolic.Dimension]map[int]bool
	frozen  bool
}

// New creates an empty stencil.
func New() *Stencil {
	return &Stencil{offsets: make(map[*symbolic.Dimension]map[int]bool)}
}

// Extract computes the stencil of eq. Every indexed access reachable from
// either side, including accesses nested inside index expressions, is
// scanned: a bare dimension index registers offset 0, and an index holding
// a single dimension together with integer literals registers every such
// literal as an offset for that dimension. Indices without a recognizable
// dimension contribute nothing.
func Extract(eq *symbolic.Equation) *Stencil {
	s := New()
	for _, ix := range symbolic.RetrieveIndexedEq(eq, true) {
		for _, idx := range ix.Indices() {
			s.registerIndex(idx)
		}
	}
	return s
}

func (s *Stencil) registerIndex(idx symbolic.Expr) {
	if d, ok := idx.(*symbolic.Dimension); ok {
		s.Add(d, 0)
		return
	}

	var dim *symbolic.Dimension
	var offs []int
	for _, arg := range args(idx) {
		switch v := arg.(type) {
		case *symbolic.Dimension:
			dim = v
		case symbolic.Int:
			offs = append(offs, int(v))
		}
	}
	if dim == nil {
		return
	}
	s.ensure(dim)
	for _, o := range offs {
		s.Add(dim, o)
	}
}

// args returns the immediate arguments of a compound index expression.
func args(e symbolic.Expr) []symbolic.Expr {
	switch v := e.(type) {
	case *symbolic.Add:
		return v.Terms()
	case *symbolic.Mul:
		return v.Factors()
	default:
		return nil
	}
}

// Add registers an offset for the given dimension, creating its entry if
// absent. It panics on a frozen stencil.
func (s *Stencil) Add(d *symbolic.Dimension, offset int) {
	if s.frozen {
		panic("stencil: add to frozen stencil")
	}
	s.ensure(d)
	s.offsets[d][offset] = true
}

func (s *Stencil) ensure(d *symbolic.Dimension) {
	if _, ok := s.offsets[d]; !ok {
		s.dims = append(s.dims, d)
		s.offsets[d] = make(map[int]bool)
	}
}

// Dimensions returns the stored dimensions in first-encounter order.
// The returned slice must not be modified.
func (s *Stencil) Dimensions() []*symbolic.Dimension { return s.dims }

// Get returns the offsets stored for d, sorted ascending. Querying an
// absent dimension yields the singleton {0}: the zero offset is the
// implicit default, never absence.
func (s *Stencil) Get(d *symbolic.Dimension) []int {
	set, ok := s.offsets[d]
	if !ok {
		return []int{0}
	}
	return sortedOffsets(set)
}

// Has reports whether the stencil stores an entry for d.
func (s *Stencil) Has(d *symbolic.Dimension) bool {
	_, ok := s.offsets[d]
	return ok
}

// Union combines stencils: for each dimension present in any input, the
// result holds the union of the corresponding offset sets. Only stored
// entries participate; the default-lookup {0} applies to queries, not to
// union. Dimension order follows first encounter across the inputs.
func Union(stencils ...*Stencil) *Stencil {
	out := New()
	for _, s := range stencils {
		for _, d := range s.dims {
			out.ensure(d)
			for o := range s.offsets[d] {
				out.offsets[d][o] = true
			}
		}
	}
	return out
}

// Subtract computes the per-dimension set difference with o. Dimensions
// present only in s pass through unchanged; dimensions present only in o
// are not added.
func (s *Stencil) Subtract(o *Stencil) *Stencil {
	out := New()
	for _, d := range s.dims {
		out.ensure(d)
		for off := range s.offsets[d] {
			if other, ok := o.offsets[d]; ok && other[off] {
				continue
			}
			out.offsets[d][off] = true
		}
	}
	return out
}

// Frozen returns an immutable snapshot of the stencil. Mutating methods on
// the snapshot panic; the original remains mutable.
func (s *Stencil) Frozen() *Stencil {
	out := New()
	for _, d := range s.dims {
		out.ensure(d)
		for o := range s.offsets[d] {
			out.offsets[d][o] = true
		}
	}
	out.frozen = true
	return out
}

// IsFrozen reports whether the stencil is an immutable snapshot.
func (s *Stencil) IsFrozen() bool { return s.frozen }

// Empty reports whether every stored offset set is empty. A stencil with
// no entries at all is empty too.
func (s *Stencil) Empty() bool {
	for _, set := range s.offsets {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two stencils store the same dimensions with the
// same offset sets, in the same encounter order.
func (s *Stencil) Equal(o *Stencil) bool {
	if len(s.dims) != len(o.dims) {
		return false
	}
	for i, d := range s.dims {
		if o.dims[i] != d {
			return false
		}
		a, b := s.offsets[d], o.offsets[d]
		if len(a) != len(b) {
			return false
		}
		for off := range a {
			if !b[off] {
				return false
			}
		}
	}
	return true
}

// String renders the stencil as {x: [0 1], y: [-2 0]} with dimensions in
// encounter order and offsets ascending.
func (s *Stencil) String() string {
	parts := make([]string, len(s.dims))
	for i, d := range s.dims {
		parts[i] = fmt.Sprintf("%s: %v", d.Name(), sortedOffsets(s.offsets[d]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedOffsets(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for o := range set {
		out = append(out, o)
	}
	sort.Ints(out)
	return out
}
