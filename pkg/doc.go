// Package pkg provides the core libraries for stenfront equation analysis.
//
// # Overview
//
// Stenfront is the equation-analysis front end of a stencil compiler: it
// takes symbolic stencil equations and derives the facts a code generator
// needs before lowering, namely the dimension ordering (which axes nest
// outside which) and the access stencil (which offsets each axis is read
// and written at). The pkg directory is organized into five main areas:
//
//  1. [symbolic] - Expression types (dimensions, functions, indexed accesses)
//  2. [model] - Model file loading and the equation parser
//  3. [analysis], [order], [stencil] - The analyses themselves
//  4. [graph], [render] - Report serialization and visualization
//  5. [pipeline], [cache] - Orchestration (load → analyze → report)
//
// # Architecture
//
// The typical data flow through stenfront:
//
//	Model File (TOML/YAML)
//	         ↓
//	[model] Load - intern dimensions/functions, parse equations
//	         ↓
//	[analysis] DimensionSort - relations → [order] Resolve
//	[stencil] Extract - per-dimension offset sets
//	         ↓
//	[graph] Report - JSON serialization, precedence graph
//	         ↓
//	[render] ToDOT / SVG - Graphviz visualization
//
// The [pipeline] package drives this flow with caching ([cache]) and
// structured logging; [observability] hooks expose the stage events.
//
// [symbolic]: github.com/fpicetti/stenfront/pkg/symbolic
// [model]: github.com/fpicetti/stenfront/pkg/model
// [analysis]: github.com/fpicetti/stenfront/pkg/analysis
// [order]: github.com/fpicetti/stenfront/pkg/order
// [stencil]: github.com/fpicetti/stenfront/pkg/stencil
// [graph]: github.com/fpicetti/stenfront/pkg/graph
// [render]: github.com/fpicetti/stenfront/pkg/render
// [pipeline]: github.com/fpicetti/stenfront/pkg/pipeline
// [cache]: github.com/fpicetti/stenfront/pkg/cache
// [observability]: github.com/fpicetti/stenfront/pkg/observability
package pkg
