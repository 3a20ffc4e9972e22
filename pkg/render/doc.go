// Package render turns dimension precedence graphs into visual outputs.
//
// # Overview
//
// The package converts a [graph.Graph] to Graphviz DOT format and renders
// the DOT text to SVG:
//
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, err := render.SVG(dot)
//
// Nodes are dimensions. Non-spatial dimensions (time-like axes) are drawn
// with a grey fill so the sequential axes stand out from the parallel
// spatial ones. Derived dimensions carry a dashed outline and, in detailed
// mode, name their parent in the label.
//
// # Determinism
//
// DOT output follows the node and edge order of the input graph, which
// [graph.FromDimensions] sorts. Rendering the same graph twice yields the
// same DOT text.
//
// [graph.Graph]: github.com/fpicetti/stenfront/pkg/graph
// [graph.FromDimensions]: github.com/fpicetti/stenfront/pkg/graph
package render
