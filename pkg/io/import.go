package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// ReadLibrary decodes a library in the given format from r.
//
// Node groups are created before any material so group nodes can reference
// groups declared later in the file, and groups can nest other groups.
// ReadLibrary does not close r.
func ReadLibrary(r io.Reader, format Format) (*shader.Library, error) {
	data, err := decode(r, format)
	if err != nil {
		return nil, err
	}
	lib, err := build(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLibrary, err, "invalid library")
	}
	return lib, nil
}

// ImportLibrary reads the library file at path. The format is derived from
// the file extension.
func ImportLibrary(path string) (*shader.Library, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "library file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLibrary(f, format)
}

func decode(r io.Reader, format Format) (*library, error) {
	var data library
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&data)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&data)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&data)
	default:
		return nil, errors.ValidateFormat(string(format), "json", "yaml", "toml")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLibrary, err, "decode %s", format)
	}
	return &data, nil
}

func build(data *library) (*shader.Library, error) {
	lib := shader.NewLibrary()

	// Declare every group first; contents are filled in afterwards.
	for _, t := range data.Groups {
		if err := lib.AddGroup(shader.NewGraph(t.Name)); err != nil {
			return nil, err
		}
	}
	for _, t := range data.Groups {
		g, _ := lib.Group(t.Name)
		if err := fill(g, t, lib); err != nil {
			return nil, fmt.Errorf("group %q: %w", t.Name, err)
		}
	}
	if err := lib.CheckGroups(); err != nil {
		return nil, err
	}

	for _, m := range data.Materials {
		mat := &shader.Material{Name: m.Name, UseNodes: m.Tree != nil}
		if m.UseNodes != nil {
			mat.UseNodes = *m.UseNodes
		}
		if m.Tree != nil {
			mat.Tree = shader.NewGraph(m.Name)
			if err := fill(mat.Tree, *m.Tree, lib); err != nil {
				return nil, fmt.Errorf("material %q: %w", m.Name, err)
			}
		}
		if err := lib.AddMaterial(mat); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func fill(g *shader.Graph, t tree, lib *shader.Library) error {
	for _, n := range t.Nodes {
		sn, err := toNode(n, lib)
		if err != nil {
			return err
		}
		if err := g.AddNode(sn); err != nil {
			return fmt.Errorf("node %s: %w", sn.ID, err)
		}
	}
	for _, l := range t.Links {
		err := g.Connect(shader.NodeID(l.FromNode), l.FromSocket, shader.NodeID(l.ToNode), l.ToSocket)
		if err != nil {
			return fmt.Errorf("link %s.%s->%s.%s: %w", l.FromNode, l.FromSocket, l.ToNode, l.ToSocket, err)
		}
	}
	return nil
}

func toNode(n node, lib *shader.Library) (*shader.Node, error) {
	id := n.ID
	if id == "" {
		id = n.Name
	}
	if id == "" {
		id = uuid.NewString()
	}

	sn := &shader.Node{
		ID:        shader.NodeID(id),
		Name:      n.Name,
		Type:      n.Type,
		Inputs:    toSockets(n.Inputs),
		Outputs:   toSockets(n.Outputs),
		Operation: n.Operation,
		BlendType: n.BlendType,
	}
	if n.Image != nil {
		sn.Image = &shader.Image{Name: n.Image.Name, Filepath: n.Image.Filepath}
	}
	if n.Group != "" {
		g, ok := lib.Group(n.Group)
		if !ok {
			return nil, fmt.Errorf("node %s: unknown node group %q", id, n.Group)
		}
		sn.Group = g
	}
	return sn, nil
}

func toSockets(in []socket) []shader.Socket {
	if len(in) == 0 {
		return nil
	}
	out := make([]shader.Socket, len(in))
	for i, s := range in {
		out[i] = shader.Socket{ID: s.ID, Name: s.Name, Default: shader.ValueOf(s.Default)}
	}
	return out
}
