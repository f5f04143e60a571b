// Package document renders a shader node graph as an indented text outline.
//
// # Overview
//
// A [Documenter] walks a graph depth-first from its sink node and writes one
// line per node, detail and input socket to a [LineSink]. Lines stream to the
// sink as they are produced; the report is never held in memory unless the
// sink itself collects it ([Lines]).
//
//	Material Output (ShaderNodeOutputMaterial)
//	|-Surface: Connected from 'Math' (Value)
//	|   |_Math (ShaderNodeMath)
//	|       Operation: Add
//	|   |-Value: Value: 2.0000
//	|   |-Value: Value: 3.0000
//	|-Displacement: Not Connected
//
// # Tree Shape
//
// Every indent level is a four character field. Ancestor levels render as a
// continuation bar ("|   "), node lines end in "|_", input lines in "|-" and
// detail lines in four spaces. Nodes reached through an input link sit one
// field deeper than nodes reached structurally (the root, or a group's output
// node), because they hang off an input line rather than a node line.
//
// # Cycles and Shared Nodes
//
// Each traversal scope keeps a visited-set of node IDs. A node already in the
// set is rendered as a single "(ALREADY DOCUMENTED ABOVE)" line and not
// descended into again, which terminates cycles and collapses diamonds. The
// main graph shares one set across all linked recursion; every time a group
// node's nested graph is entered a brand-new set is created, so group
// contents are documented independently of the outer graph and of every
// other group expansion.
//
// # Errors
//
// Rendering never fails on graph data: missing group outputs, dangling links
// and cycles all degrade to marker lines. Only sink errors are reported, as
// WRITE_FAILURE errors from package errors. After the first sink error no
// further lines are written.
package document
