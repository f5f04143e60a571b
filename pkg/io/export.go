package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// WriteLibrary encodes lib in the given format and writes it to w.
//
// Socket identifiers are always written so links stay unambiguous on
// re-import. Group nodes whose graph is not registered in lib export that
// graph as an additional group. Non-finite defaults cannot be encoded as
// JSON and make WriteLibrary fail.
func WriteLibrary(lib *shader.Library, w io.Writer, format Format) error {
	out := fromLibrary(lib)

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(out)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(out)
	default:
		_, err = ParseFormat(string(format))
		return err
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ExportLibrary writes lib to the file at path. The format is derived from
// the file extension.
func ExportLibrary(lib *shader.Library, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLibrary(lib, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fromLibrary(lib *shader.Library) library {
	var out library
	seen := make(map[*shader.Graph]bool)
	var pending []*shader.Graph

	collect := func(g *shader.Graph) {
		for _, n := range g.Nodes() {
			if n.Group != nil && !seen[n.Group] {
				seen[n.Group] = true
				pending = append(pending, n.Group)
			}
		}
	}

	for _, g := range lib.Groups() {
		seen[g] = true
		pending = append(pending, g)
	}
	for _, m := range lib.Materials() {
		mat := material{Name: m.Name}
		useNodes := m.UseNodes
		mat.UseNodes = &useNodes
		if m.Tree != nil {
			t := fromGraph(m.Tree)
			mat.Tree = &t
			collect(m.Tree)
		}
		out.Materials = append(out.Materials, mat)
	}
	for i := 0; i < len(pending); i++ {
		g := pending[i]
		t := fromGraph(g)
		t.Name = g.Name()
		out.Groups = append(out.Groups, t)
		collect(g)
	}
	return out
}

func fromGraph(g *shader.Graph) tree {
	var t tree
	for _, n := range g.Nodes() {
		nd := node{
			ID:        string(n.ID),
			Name:      n.Name,
			Type:      n.Type,
			Inputs:    fromSockets(n.Inputs),
			Outputs:   fromSockets(n.Outputs),
			Operation: n.Operation,
			BlendType: n.BlendType,
		}
		if n.Image != nil {
			nd.Image = &image{Name: n.Image.Name, Filepath: n.Image.Filepath}
		}
		if n.Group != nil {
			nd.Group = n.Group.Name()
		}
		t.Nodes = append(t.Nodes, nd)
	}
	for _, l := range g.Links() {
		from, _ := g.Node(l.FromNode)
		to, _ := g.Node(l.ToNode)
		t.Links = append(t.Links, link{
			FromNode:   string(l.FromNode),
			FromSocket: from.Outputs[l.FromSocket].ID,
			ToNode:     string(l.ToNode),
			ToSocket:   to.Inputs[l.ToSocket].ID,
		})
	}
	return t
}

func fromSockets(in []shader.Socket) []socket {
	if len(in) == 0 {
		return nil
	}
	out := make([]socket, len(in))
	for i, s := range in {
		out[i] = socket{ID: s.ID, Name: s.Name, Default: s.Default.Any()}
	}
	return out
}
