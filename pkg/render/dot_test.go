package render

import (
	"strings"
	"testing"

	"github.com/fpicetti/stenfront/pkg/graph"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "time", Kind: graph.KindNonSpace},
			{ID: "x"},
			{ID: "xi", Parent: "x"},
		},
		Edges: []graph.Edge{
			{From: "time", To: "x"},
			{From: "x", To: "xi"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	for _, want := range []string{
		`"time" [label="time", fillcolor=lightgrey];`,
		`"x" [label="x"];`,
		`"xi" [label="xi", style="rounded,filled,dashed"];`,
		`"time" -> "x";`,
		`"x" -> "xi";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Detailed: true})

	for _, want := range []string{
		"kind: nonspace",
		"kind: space",
		"parent: x",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := testGraph()
	first := ToDOT(g, Options{Detailed: true})
	for i := 0; i < 5; i++ {
		if got := ToDOT(g, Options{Detailed: true}); got != first {
			t.Fatalf("run %d differs from first render", i)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00">content</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not set: %s", out)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>no viewbox</svg>")
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("input without viewBox changed: %s", got)
	}
}
