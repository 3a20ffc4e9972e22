// Package analysis implements the equation analyses consumed by the
// lowering pipeline: dimension ordering (which axes nest outside which) and
// relation extraction from indexed accesses.
//
// All analyses are pure, synchronous computations over immutable symbolic
// input. They are safe to call concurrently on independent equations.
package analysis

import (
	"errors"
	"sort"

	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// ErrMultipleDimensions is returned by [DimensionSort] when an equation
// carries a subdomain ordering and a single index expression is associated
// with more than one dimension, making the space/nonspace classification of
// that index ambiguous. It indicates a malformed equation or subdomain
// declaration and is not recoverable.
var ErrMultipleDimensions = errors.New("index expression associated with more than one dimension")

// Relations returns eq's deduplicated per-access relations in
// first-encounter order. This is the raw constraint set the dimension sort
// resolves, exposed for precedence graph reporting.
func Relations(eq *symbolic.Equation) [][]*symbolic.Dimension {
	return dedupRelations(symbolic.RetrieveIndexedEq(eq, true))
}

// ExtractRelation produces the ordered tuple of dimensions observed while
// scanning the index expressions of an access left to right.
//
// For each index expression, in declared order:
//
//  1. Affine decomposition: on success the dimension is appended (the
//     offset is discarded here; only the stencil extraction uses it).
//  2. Otherwise nested indexed accesses inside the expression are extracted
//     recursively, outer before inner.
//  3. If there are none, every dimension among the expression's free
//     symbols is appended, sorted by name for determinism.
//
// The result may contain duplicates; they only reinforce edges already
// implied and are harmless to the resolver.
func ExtractRelation(ix *symbolic.Indexed) []*symbolic.Dimension {
	var rel []*symbolic.Dimension
	for _, slot := range extractSlots(ix) {
		rel = append(rel, slot...)
	}
	return rel
}

// extractSlots is ExtractRelation keeping the per-index grouping: one
// dimension slice per index expression. The subdomain-ordering
// classification needs the grouping to detect ambiguous indices.
func extractSlots(ix *symbolic.Indexed) [][]*symbolic.Dimension {
	slots := make([][]*symbolic.Dimension, 0, len(ix.Indices()))
	for _, idx := range ix.Indices() {
		slots = append(slots, dimsOfIndex(idx))
	}
	return slots
}

func dimsOfIndex(idx symbolic.Expr) []*symbolic.Dimension {
	if d, _, ok := symbolic.SplitAffine(idx); ok {
		return []*symbolic.Dimension{d}
	}

	// Maybe the index holds nested accesses (the A[B[i]] situation).
	if nested := symbolic.RetrieveIndexed(idx, false); len(nested) > 0 {
		var dims []*symbolic.Dimension
		for _, n := range nested {
			dims = append(dims, ExtractRelation(n)...)
		}
		return dims
	}

	// Fallback: take every dimension we can find, regardless of what the
	// expression is attempting to do.
	dims := symbolic.FreeDimensions(idx)
	sort.Slice(dims, func(i, j int) bool { return dims[i].Name() < dims[j].Name() })
	return dims
}
