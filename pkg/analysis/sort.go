package analysis

import (
	"sort"
	"strings"

	"github.com/fpicetti/stenfront/pkg/order"
	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// DimensionSort computes a deterministic, dependency-respecting total order
// of the dimensions appearing in eq, based on the order in which they occur
// within indexed accesses. The result decides loop nesting downstream
// (outermost first), so equal input always yields an identical sequence.
//
// The analysis gathers one relation per indexed access (including accesses
// nested inside index expressions), merges in the equation's subdomain
// ordering if present, adds loose dimensions that appear outside any index
// as well as declared axes of every referenced function, derives implicit
// parent and root constraints for derived dimensions, and resolves the
// whole set with [order.Resolve].
//
// Errors: [ErrMultipleDimensions] when the subdomain merge finds an
// ambiguous index, [order.ErrCycle] when the relations are contradictory.
func DimensionSort(eq *symbolic.Equation) ([]*symbolic.Dimension, error) {
	indexeds := symbolic.RetrieveIndexedEq(eq, true)

	relations := dedupRelations(indexeds)

	if sub := eq.Subdomain(); len(sub) > 0 {
		combined, err := mergeWithSubdomain(indexeds, relations, sub)
		if err != nil {
			return nil, err
		}
		relations = [][]*symbolic.Dimension{combined}
	}

	extra := looseDimensions(eq, indexeds)

	relations = append(relations, implicitRelations(extra, relations)...)

	return order.Resolve(extra, relations)
}

// dedupRelations extracts one relation per access and drops structurally
// identical tuples, keeping first-encounter order.
func dedupRelations(indexeds []*symbolic.Indexed) [][]*symbolic.Dimension {
	var out [][]*symbolic.Dimension
	seen := make(map[string]bool)
	for _, ix := range indexeds {
		rel := ExtractRelation(ix)
		if len(rel) == 0 {
			continue
		}
		key := relationKey(rel)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rel)
	}
	return out
}

// relationKey builds a dedup key from dimension names, which are unique
// within a model.
func relationKey(rel []*symbolic.Dimension) string {
	names := make([]string, len(rel))
	for i, d := range rel {
		names[i] = d.Name()
	}
	return strings.Join(names, "\x00")
}

// mergeWithSubdomain rebuilds a single combined relation from the extracted
// relations and the declared subdomain ordering: nonspace dimensions from
// the extraction (relative order preserved), then the subdomain tuple, then
// space dimensions from the extraction (relative order preserved).
//
// When more than one distinct relation survived dedup, the relations are
// first merged into a single consistent tuple via the resolver rather than
// picking one arbitrarily.
func mergeWithSubdomain(indexeds []*symbolic.Indexed, relations [][]*symbolic.Dimension, sub []*symbolic.Dimension) ([]*symbolic.Dimension, error) {
	// An index expression tied to several dimensions cannot be classified
	// as space or nonspace.
	for _, ix := range indexeds {
		for _, slot := range extractSlots(ix) {
			if len(slot) > 1 {
				return nil, ErrMultipleDimensions
			}
		}
	}

	var extracted []*symbolic.Dimension
	switch len(relations) {
	case 0:
	case 1:
		extracted = relations[0]
	default:
		merged, err := order.Resolve(nil, relations)
		if err != nil {
			return nil, err
		}
		extracted = merged
	}

	inSub := make(map[*symbolic.Dimension]bool, len(sub))
	for _, d := range sub {
		inSub[d] = true
	}

	var nonspace, space []*symbolic.Dimension
	seen := make(map[*symbolic.Dimension]bool)
	for _, d := range extracted {
		if seen[d] || inSub[d] {
			continue
		}
		seen[d] = true
		if d.IsSpace() {
			space = append(space, d)
		} else {
			nonspace = append(nonspace, d)
		}
	}

	combined := make([]*symbolic.Dimension, 0, len(nonspace)+len(sub)+len(space))
	combined = append(combined, nonspace...)
	combined = append(combined, sub...)
	combined = append(combined, space...)
	return combined, nil
}

// looseDimensions computes the element set handed to the resolver: free
// dimensions of the whole equation plus the declared axes of every
// referenced function. The latter covers pure data dimensions accessed only
// via literal integer indices, which are invisible to relation extraction.
// The result is sorted by name to enforce determinism.
func looseDimensions(eq *symbolic.Equation, indexeds []*symbolic.Indexed) []*symbolic.Dimension {
	seen := make(map[*symbolic.Dimension]bool)
	var extra []*symbolic.Dimension
	add := func(d *symbolic.Dimension) {
		if !seen[d] {
			seen[d] = true
			extra = append(extra, d)
		}
	}

	for _, d := range symbolic.FreeDimensionsEq(eq) {
		add(d)
	}
	for _, ix := range indexeds {
		for _, d := range ix.Function().Axes() {
			add(d)
		}
	}

	sort.Slice(extra, func(i, j int) bool { return extra[i].Name() < extra[j].Name() })
	return extra
}

// implicitRelations derives the constraints that keep derived dimensions
// consistent with their ancestry:
//
//  1. (parent(d), d) for every derived dimension in extra or in any
//     relation. The parent must come first: in ((t, time), (t, x, y),
//     (x, y)) the derived time must not let x slip ahead of t.
//  2. A root-projected copy of every relation. For ((time, xi), (x,)) with
//     xi derived from x, (x, xi) alone could yield (x, time, xi); adding
//     (time, x) forces the sensible (time, x, xi).
func implicitRelations(extra []*symbolic.Dimension, relations [][]*symbolic.Dimension) [][]*symbolic.Dimension {
	var implicit [][]*symbolic.Dimension
	seenDerived := make(map[*symbolic.Dimension]bool)

	addParent := func(d *symbolic.Dimension) {
		if d.IsDerived() && !seenDerived[d] {
			seenDerived[d] = true
			implicit = append(implicit, []*symbolic.Dimension{d.Parent(), d})
		}
	}
	for _, d := range extra {
		addParent(d)
	}
	for _, rel := range relations {
		for _, d := range rel {
			addParent(d)
		}
	}

	seenRoots := make(map[string]bool)
	for _, rel := range relations {
		roots := make([]*symbolic.Dimension, len(rel))
		for i, d := range rel {
			roots[i] = d.Root()
		}
		key := relationKey(roots)
		if seenRoots[key] {
			continue
		}
		seenRoots[key] = true
		implicit = append(implicit, roots)
	}

	return implicit
}
