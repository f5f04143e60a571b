package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

const basicJSON = `{
  "materials": [
    {
      "name": "Basic",
      "tree": {
        "nodes": [
          {"id": "out", "name": "Material Output", "type": "ShaderNodeOutputMaterial",
           "inputs": [{"name": "Surface"}, {"name": "Displacement"}]},
          {"id": "math", "name": "Math", "type": "ShaderNodeMath", "operation": "ADD",
           "inputs": [{"name": "Value", "default": 2}, {"name": "Value", "default": 3}, {"name": "Value", "default": true}],
           "outputs": [{"name": "Value"}]},
          {"id": "grp", "name": "Group", "type": "ShaderNodeGroup", "group": "Tint",
           "outputs": [{"name": "Color"}]}
        ],
        "links": [
          {"from_node": "math", "from_socket": "Value", "to_node": "out", "to_socket": "Surface"},
          {"from_node": "grp", "from_socket": "Color", "to_node": "math", "to_socket": "Value_001"}
        ]
      }
    },
    {"name": "Flat", "use_nodes": false}
  ],
  "groups": [
    {
      "name": "Tint",
      "nodes": [
        {"id": "gout", "name": "Group Output", "type": "NodeGroupOutput",
         "inputs": [{"name": "Color", "default": [1, 0.5, 0, 1]}]}
      ]
    }
  ]
}`

const basicYAML = `
materials:
  - name: Basic
    tree:
      nodes:
        - id: out
          name: Material Output
          type: ShaderNodeOutputMaterial
          inputs:
            - name: Surface
        - id: tex
          name: Image Texture
          type: ShaderNodeTexImage
          image:
            name: wood.png
            filepath: //textures/wood.png
          inputs:
            - name: Vector
          outputs:
            - name: Color
      links:
        - from_node: tex
          from_socket: Color
          to_node: out
          to_socket: Surface
`

const basicTOML = `
[[materials]]
name = "Basic"

[materials.tree]

[[materials.tree.nodes]]
id = "out"
name = "Material Output"
type = "ShaderNodeOutputMaterial"

[[materials.tree.nodes.inputs]]
name = "Surface"
default = [0.8, 0.8, 0.8, 1.0]

[[materials.tree.nodes.inputs]]
name = "Strength"
default = 2
`

func TestReadLibraryJSON(t *testing.T) {
	lib, err := ReadLibrary(strings.NewReader(basicJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"Basic", "Flat"}, lib.MaterialNames())

	basic, ok := lib.Material("Basic")
	require.True(t, ok)
	assert.True(t, basic.HasNodeGraph())
	assert.Equal(t, 3, basic.Tree.NodeCount())
	assert.Equal(t, 2, basic.Tree.LinkCount())

	math, ok := basic.Tree.Node("math")
	require.True(t, ok)
	assert.Equal(t, "ADD", math.Operation)
	assert.Equal(t, shader.Scalar(2), math.Inputs[0].Default)
	assert.Equal(t, shader.Scalar(1), math.Inputs[2].Default)

	links := basic.Tree.InputLinks("math", 1)
	require.Len(t, links, 1)
	assert.Equal(t, shader.NodeID("grp"), links[0].FromNode)

	grp, _ := basic.Tree.Node("grp")
	tint, ok := lib.Group("Tint")
	require.True(t, ok)
	assert.Same(t, tint, grp.Group)

	gout, _ := tint.Node("gout")
	assert.True(t, gout.Inputs[0].Default.Equal(shader.Vector(1, 0.5, 0, 1)))

	flat, _ := lib.Material("Flat")
	assert.False(t, flat.HasNodeGraph())
}

func TestReadLibraryYAML(t *testing.T) {
	lib, err := ReadLibrary(strings.NewReader(basicYAML), FormatYAML)
	require.NoError(t, err)

	basic, ok := lib.Material("Basic")
	require.True(t, ok)
	tex, ok := basic.Tree.Node("tex")
	require.True(t, ok)
	require.NotNil(t, tex.Image)
	assert.Equal(t, "//textures/wood.png", tex.Image.Filepath)
	assert.Len(t, basic.Tree.InputLinks("out", 0), 1)
	assert.False(t, tex.Inputs[0].Default.IsSet())
}

func TestReadLibraryTOML(t *testing.T) {
	lib, err := ReadLibrary(strings.NewReader(basicTOML), FormatTOML)
	require.NoError(t, err)

	basic, ok := lib.Material("Basic")
	require.True(t, ok)
	out, ok := basic.Tree.Node("out")
	require.True(t, ok)
	assert.True(t, out.Inputs[0].Default.Equal(shader.Vector(0.8, 0.8, 0.8, 1)))
	assert.Equal(t, shader.Scalar(2), out.Inputs[1].Default)
}

func TestReadLibraryDefaults(t *testing.T) {
	in := `{"materials": [{"name": "M", "tree": {"nodes": [
		{"name": "Named", "type": "ShaderNodeGeneric"},
		{"type": "ShaderNodeGeneric"}
	]}}]}`
	lib, err := ReadLibrary(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)

	m, _ := lib.Material("M")
	nodes := m.Tree.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, shader.NodeID("Named"), nodes[0].ID)
	assert.Len(t, string(nodes[1].ID), 36, "anonymous node gets a UUID")
	assert.Equal(t, string(nodes[1].ID), nodes[1].Name)
}

func TestReadLibraryErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"malformed", `{"materials": [`, "decode json"},
		{"duplicate node", `{"materials": [{"name": "M", "tree": {"nodes": [{"id": "a"}, {"id": "a"}]}}]}`, "duplicate node ID"},
		{"unknown link node", `{"materials": [{"name": "M", "tree": {"nodes": [{"id": "a"}], "links": [{"from_node": "x", "from_socket": "o", "to_node": "a", "to_socket": "i"}]}}]}`, "unknown node"},
		{"unknown socket", `{"materials": [{"name": "M", "tree": {"nodes": [{"id": "a", "outputs": [{"name": "o"}]}, {"id": "b"}], "links": [{"from_node": "a", "from_socket": "o", "to_node": "b", "to_socket": "i"}]}}]}`, "unknown socket"},
		{"unknown group", `{"materials": [{"name": "M", "tree": {"nodes": [{"id": "g", "group": "Nope"}]}}]}`, "unknown node group"},
		{"duplicate material", `{"materials": [{"name": "M"}, {"name": "M"}]}`, "duplicate material"},
		{"unnamed material", `{"materials": [{"name": ""}]}`, "name must not be empty"},
		{"blank material", `{"materials": [{"name": "  "}]}`, "name must not be empty"},
		{"long material", `{"materials": [{"name": "` + strings.Repeat("m", 64) + `"}]}`, "name too long"},
		{"self-referencing group", `{"groups": [{"name": "G", "nodes": [
			{"id": "gout", "type": "NodeGroupOutput", "inputs": [{"name": "Color"}]},
			{"id": "g", "type": "ShaderNodeGroup", "group": "G", "outputs": [{"name": "Color"}]}],
			"links": [{"from_node": "g", "from_socket": "Color", "to_node": "gout", "to_socket": "Color"}]}],
			"materials": [{"name": "M", "tree": {"nodes": [{"id": "g", "type": "ShaderNodeGroup", "group": "G"}]}}]}`,
			"recursive node group: G -> G"},
		{"mutually recursive groups", `{"groups": [
			{"name": "A", "nodes": [{"id": "b", "type": "ShaderNodeGroup", "group": "B"}]},
			{"name": "B", "nodes": [{"id": "a", "type": "ShaderNodeGroup", "group": "A"}]}]}`,
			"recursive node group: A -> B -> A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLibrary(strings.NewReader(tt.input), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidLibrary), "code = %s", errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"lib.json", FormatJSON, false},
		{"lib.YAML", FormatYAML, false},
		{"lib.yml", FormatYAML, false},
		{"dir/lib.toml", FormatTOML, false},
		{"lib.blend", "", true},
		{"lib", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	orig, err := ReadLibrary(strings.NewReader(basicJSON), FormatJSON)
	require.NoError(t, err)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteLibrary(orig, &buf, format))

			got, err := ReadLibrary(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, orig.MaterialNames(), got.MaterialNames())

			want, _ := orig.Material("Basic")
			have, _ := got.Material("Basic")
			require.NotNil(t, have.Tree)
			assert.Equal(t, want.Tree.Links(), have.Tree.Links())
			for _, n := range want.Tree.Nodes() {
				m, ok := have.Tree.Node(n.ID)
				require.True(t, ok, "node %s", n.ID)
				assert.Equal(t, n.Name, m.Name)
				assert.Equal(t, n.Type, m.Type)
				require.Len(t, m.Inputs, len(n.Inputs))
				for i := range n.Inputs {
					assert.True(t, n.Inputs[i].Default.Equal(m.Inputs[i].Default), "%s input %d", n.ID, i)
				}
			}

			flat, _ := got.Material("Flat")
			assert.False(t, flat.HasNodeGraph())
			_, ok := got.Group("Tint")
			assert.True(t, ok)
		})
	}
}

func TestImportExportFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lib.json")
	require.NoError(t, os.WriteFile(src, []byte(basicJSON), 0o644))

	lib, err := ImportLibrary(src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "lib.yaml")
	require.NoError(t, ExportLibrary(lib, dst))

	again, err := ImportLibrary(dst)
	require.NoError(t, err)
	assert.Equal(t, lib.MaterialNames(), again.MaterialNames())

	_, err = ImportLibrary(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}
