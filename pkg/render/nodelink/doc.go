// Package nodelink renders shader node graphs as node-link diagrams.
//
// # Overview
//
// The text report is the primary output of shaderdoc; a diagram of the same
// graph is often easier to review next to it. This package produces a
// Graphviz drawing where nodes appear as boxes and links as labeled arrows.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(mat.Tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include operations, blend types, image names and
//     unlinked input defaults, formatted as in the text report
//   - ExpandGroups: nested group graphs are drawn as dashed clusters
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
