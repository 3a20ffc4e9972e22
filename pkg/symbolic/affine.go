package symbolic

// SplitAffine decomposes an index expression into a dimension plus an
// integer offset. It succeeds only when expr is exactly one dimension,
// optionally combined with integer literals via addition (constants are
// folded):
//
//	x       → (x, 0, true)
//	x + 1   → (x, 1, true)
//	x - 2   → (x, -2, true)
//
// Products, multiple distinct dimensions, non-dimension symbols, nested
// accesses, and bare constants all report ok=false. SplitAffine has no side
// effects; callers fall back to other strategies on failure.
func SplitAffine(expr Expr) (dim *Dimension, offset int, ok bool) {
	switch e := expr.(type) {
	case *Dimension:
		return e, 0, true
	case *Add:
		for _, t := range e.Terms() {
			switch v := t.(type) {
			case *Dimension:
				if dim != nil {
					return nil, 0, false
				}
				dim = v
			case Int:
				offset += int(v)
			default:
				return nil, 0, false
			}
		}
		if dim == nil {
			return nil, 0, false
		}
		return dim, offset, true
	default:
		return nil, 0, false
	}
}
