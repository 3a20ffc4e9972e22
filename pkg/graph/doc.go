// Package graph provides serialization types for analysis results: the
// dimension precedence graph, the resolved ordering, and the stencil table.
//
// This package defines the wire format used for JSON files, the analysis
// cache, and cross-tool interoperability.
//
// # Precedence Graph
//
// The precedence graph records which dimensions must precede which, as
// observed in the analyzed equations. It uses a plain node-link format:
//
//	{
//	  "nodes": [{"id": "time", "kind": "nonspace"}, {"id": "x"}],
//	  "edges": [{"from": "time", "to": "x"}]
//	}
//
// Node IDs are dimension names; derived dimensions carry their parent's
// name. Nodes are sorted by ID for deterministic output, edges by
// (from, to).
//
// # Reports
//
// A [Report] bundles everything the analysis produced for one model:
// per-equation orderings, stencils, and the precedence graph. Use
// [MarshalReport] and [WriteReportFile] for output.
//
// # Concurrency
//
// All functions are safe for concurrent use; the types are plain data.
package graph
