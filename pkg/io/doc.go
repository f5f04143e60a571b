// Package io reads and writes shader libraries as JSON, YAML or TOML.
//
// # Overview
//
// A library file is a snapshot of the materials and node groups of one scene.
// It is the stand-in for the host editor's live data: the documenter, the
// node-link renderer and the HTTP server all consume libraries loaded here.
//
// # Format
//
// The three encodings share one schema. In JSON:
//
//	{
//	  "materials": [
//	    {
//	      "name": "Basic",
//	      "use_nodes": true,
//	      "tree": {
//	        "nodes": [
//	          {"id": "out", "name": "Material Output", "type": "ShaderNodeOutputMaterial",
//	           "inputs": [{"name": "Surface"}, {"name": "Displacement"}]},
//	          {"id": "math", "name": "Math", "type": "ShaderNodeMath", "operation": "ADD",
//	           "inputs": [{"name": "Value", "default": 2}, {"name": "Value", "default": 3}],
//	           "outputs": [{"name": "Value"}]}
//	        ],
//	        "links": [
//	          {"from_node": "math", "from_socket": "Value", "to_node": "out", "to_socket": "Surface"}
//	        ]
//	      }
//	    }
//	  ],
//	  "groups": [
//	    {"name": "Noise Mix", "nodes": [...], "links": [...]}
//	  ]
//	}
//
// # Node Fields
//
//   - id: unique within its graph; defaults to name, or a random UUID when
//     both are missing (such a node cannot be linked)
//   - name: display name; defaults to id
//   - type: type tag such as "ShaderNodeMath"
//   - inputs, outputs: ordered sockets with optional "id" and, for inputs,
//     an optional "default" (number, boolean, numeric list or string)
//   - operation, blend_type: math operation and color mix blend mode
//   - image: {"name", "filepath"} of an image texture
//   - group: name of the node group a group node instantiates
//
// Link socket references match a socket identifier first and the display
// name second. Repeated names receive identifiers "Value", "Value_001", ...
// so the second math input is addressed as "Value_001".
//
// A material without "use_nodes" uses nodes whenever it has a tree.
//
// # Errors
//
// Decoding and structural problems are reported as INVALID_LIBRARY errors
// from package errors, wrapping the cause and naming the material, group,
// node or link involved. A missing file is FILE_NOT_FOUND.
package io
