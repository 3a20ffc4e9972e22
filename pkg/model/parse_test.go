package model

import (
	"strings"
	"testing"

	"github.com/fpicetti/stenfront/pkg/symbolic"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	m, err := Load([]byte(`
[[dimensions]]
name = "t"
kind = "nonspace"

[[dimensions]]
name = "x"

[[functions]]
name = "u"
axes = ["t", "x"]

[[functions]]
name = "p"
axes = ["x"]
`), FormatTOML, "test")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func TestParseExpr_Roundtrip(t *testing.T) {
	m := testModel(t)

	cases := []struct {
		src  string
		want string
	}{
		{"x", "x"},
		{"x + 1", "x + 1"},
		{"x-2", "x - 2"},
		{"u[t, x]", "u[t, x]"},
		{"u[t+1, x-1]", "u[t + 1, x - 1]"},
		{"2*u[t, x] + c", "2*u[t, x] + c"},
		{"p[u[t, x]]", "p[u[t, x]]"},
		{"-x", "-1*x"},
		{"(x + 1)*2", "(x + 1)*2"},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			e, err := ParseExpr(tc.src, m)
			if err != nil {
				t.Fatalf("ParseExpr(%q) error = %v", tc.src, err)
			}
			if got := e.String(); got != tc.want {
				t.Errorf("ParseExpr(%q) = %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

func TestParseExpr_ResolvesModelObjects(t *testing.T) {
	m := testModel(t)

	e, err := ParseExpr("u[t+1, x]", m)
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}

	ix, ok := e.(*symbolic.Indexed)
	if !ok {
		t.Fatalf("ParseExpr() = %T, want *symbolic.Indexed", e)
	}
	if ix.Function() != m.Function("u") {
		t.Error("parsed access does not reference the interned function")
	}
	d, off, affine := symbolic.SplitAffine(ix.Indices()[0])
	if !affine || d != m.Dimension("t") || off != 1 {
		t.Errorf("first index = (%v, %d, %v), want (t, 1, true)", d, off, affine)
	}
}

func TestParseExpr_SubtractionFoldsIntoOffset(t *testing.T) {
	m := testModel(t)

	e, err := ParseExpr("x - 1", m)
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}
	d, off, ok := symbolic.SplitAffine(e)
	if !ok || d != m.Dimension("x") || off != -1 {
		t.Errorf("SplitAffine(x - 1) = (%v, %d, %v), want (x, -1, true)", d, off, ok)
	}
}

func TestParseEquation(t *testing.T) {
	m := testModel(t)

	eq, err := ParseEquation("u[t+1, x] = u[t, x-1] + u[t, x+1]", m)
	if err != nil {
		t.Fatalf("ParseEquation() error = %v", err)
	}
	want := "u[t + 1, x] = u[t, x - 1] + u[t, x + 1]"
	if got := eq.String(); got != want {
		t.Errorf("ParseEquation() = %q, want %q", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	m := testModel(t)

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"missing equals", "u[t, x]", "missing '='"},
		{"unknown function", "q[x] = 0", "unknown function"},
		{"wrong arity", "u[x] = 0", "takes 2 indices"},
		{"dangling operator", "x + = 0", "unexpected"},
		{"unbalanced bracket", "u[t, x = 0", "expected ']'"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEquation(tc.src, m)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("ParseEquation(%q) error = %v, want containing %q", tc.src, err, tc.want)
			}
		})
	}
}
