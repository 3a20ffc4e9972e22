package symbolic

import "testing"

func TestRetrieveIndexed_ShallowSkipsNested(t *testing.T) {
	x := NewDimension("x", Space)
	g := NewFunction("g", x)
	f := NewFunction("f", x)

	inner := g.At(x)
	outer := f.At(inner)

	got := RetrieveIndexed(outer, false)
	if len(got) != 1 || got[0] != outer {
		t.Errorf("RetrieveIndexed(f[g[x]], shallow) = %v, want [f[g[x]]]", got)
	}
}

func TestRetrieveIndexed_DeepOuterBeforeInner(t *testing.T) {
	x := NewDimension("x", Space)
	g := NewFunction("g", x)
	f := NewFunction("f", x)

	inner := g.At(x)
	outer := f.At(inner)

	got := RetrieveIndexed(outer, true)
	if len(got) != 2 || got[0] != outer || got[1] != inner {
		t.Errorf("RetrieveIndexed(f[g[x]], deep) = %v, want [f[g[x]] g[x]]", got)
	}
}

func TestRetrieveIndexedEq_LeftFirst(t *testing.T) {
	x := NewDimension("x", Space)
	f := NewFunction("f", x)
	g := NewFunction("g", x)

	lhs := f.At(x)
	rhs := g.At(AddExpr(x, Int(1)))
	eq := NewEquation(lhs, rhs)

	got := RetrieveIndexedEq(eq, false)
	if len(got) != 2 || got[0] != lhs || got[1] != rhs {
		t.Errorf("RetrieveIndexedEq = %v, want [f[x] g[x + 1]]", got)
	}
}

func TestFreeDimensions_EncounterOrderDeduped(t *testing.T) {
	x := NewDimension("x", Space)
	y := NewDimension("y", Space)
	f := NewFunction("f", y, x)

	expr := AddExpr(f.At(y, AddExpr(x, Int(1))), MulExpr(Int(2), x))

	got := FreeDimensions(expr)
	if len(got) != 2 || got[0] != y || got[1] != x {
		t.Errorf("FreeDimensions = %v, want [y x]", got)
	}
}

func TestString_Rendering(t *testing.T) {
	t1 := NewDimension("t", NonSpace)
	x := NewDimension("x", Space)
	u := NewFunction("u", t1, x)

	eq := NewEquation(
		u.At(AddExpr(t1, Int(1)), x),
		u.At(t1, AddExpr(x, Int(-1))),
	)

	want := "u[t + 1, x] = u[t, x - 1]"
	if got := eq.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
