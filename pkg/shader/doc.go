// Package shader provides the read-only node graph model that shaderdoc
// documents.
//
// # Overview
//
// A material's shading network is a directed graph of nodes connected
// through sockets. Each [Node] carries a type tag (the host editor's node
// identifier, such as "ShaderNodeMath"), an ordered list of input sockets,
// an ordered list of output sockets, and a few type-specific attributes.
// Each input [Socket] either receives a [Link] from an upstream output socket
// or holds a literal default [Value].
//
// Nodes live in a [Graph], an arena addressed by [NodeID]. The graph keeps
// insertion order, so every enumeration (and therefore every report) is
// deterministic:
//
//	g := shader.NewGraph("Wood")
//	_ = g.AddNode(&shader.Node{ID: "out", Name: "Material Output", Type: shader.TypeOutputMaterial,
//	    Inputs: []shader.Socket{{Name: "Surface"}}})
//	_ = g.AddNode(&shader.Node{ID: "math", Name: "Math", Type: shader.TypeMath, Operation: "ADD",
//	    Inputs:  []shader.Socket{{Name: "Value", Default: shader.Scalar(2)}, {Name: "Value", Default: shader.Scalar(3)}},
//	    Outputs: []shader.Socket{{Name: "Value"}}})
//	_ = g.Connect("math", "Value", "out", "Surface")
//
// # Cycles and Groups
//
// The graph is allowed to contain cycles and shared fan-in (diamonds); the
// model never rejects them. Group nodes embed a nested [Graph] through
// [Node.Group]. Nested graphs are shared datablocks: several group nodes may
// point at the same nested graph, exactly like node groups in the host
// editor.
//
// # Sources
//
// Consumers such as the documenter are written against the [Source]
// interface rather than the concrete [Graph], so any host adapter that can
// enumerate nodes and answer link queries can be documented.
//
// # Root Resolution
//
// [ResolveOutput] finds the sink node a report starts from, and
// [FindGroupOutput] finds the designated output node of a group's nested
// graph.
//
// # Concurrency
//
// Graph instances are not safe for concurrent modification. Once built, a
// graph may be read from multiple goroutines.
package shader
