package symbolic

// RetrieveIndexed collects the indexed accesses reachable from expr in a
// deterministic left-to-right pre-order walk. With deep=false the walk does
// not descend into the index expressions of an access, so nested accesses
// such as the B in A[B[i]] are not reported. With deep=true nested accesses
// are included, outer before inner.
func RetrieveIndexed(expr Expr, deep bool) []*Indexed {
	var out []*Indexed
	var walk func(e Expr)
	walk = func(e Expr) {
		if ix, ok := e.(*Indexed); ok {
			out = append(out, ix)
			if !deep {
				return
			}
		}
		for _, c := range e.children() {
			walk(c)
		}
	}
	walk(expr)
	return out
}

// RetrieveIndexedEq collects indexed accesses from both sides of an
// equation, left side first.
func RetrieveIndexedEq(eq *Equation, deep bool) []*Indexed {
	out := RetrieveIndexed(eq.LHS(), deep)
	return append(out, RetrieveIndexed(eq.RHS(), deep)...)
}

// FreeDimensions collects every dimension appearing anywhere in expr,
// including inside index expressions, deduplicated in first-encounter order.
func FreeDimensions(expr Expr) []*Dimension {
	seen := make(map[*Dimension]bool)
	var out []*Dimension
	var walk func(e Expr)
	walk = func(e Expr) {
		if d, ok := e.(*Dimension); ok && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
		for _, c := range e.children() {
			walk(c)
		}
	}
	walk(expr)
	return out
}

// FreeDimensionsEq collects the free dimensions of both sides of an
// equation, deduplicated in first-encounter order (left side first).
func FreeDimensionsEq(eq *Equation) []*Dimension {
	seen := make(map[*Dimension]bool)
	var out []*Dimension
	for _, d := range append(FreeDimensions(eq.LHS()), FreeDimensions(eq.RHS())...) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
