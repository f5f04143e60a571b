package shader

import (
	"errors"
	"strings"
	"testing"
)

func sinkNode(id NodeID, name, typ string) *Node {
	return &Node{
		ID:      id,
		Name:    name,
		Type:    typ,
		Inputs:  []Socket{{Name: "In"}},
		Outputs: []Socket{{Name: "Out"}},
	}
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *Graph
		wantID NodeID
	}{
		{
			name: "material output wins",
			build: func() *Graph {
				g := NewGraph("m")
				_ = g.AddNode(sinkNode("custom", "Custom Output", "ShaderNodeCustom"))
				_ = g.AddNode(sinkNode("out1", "Material Output", TypeOutputMaterial))
				_ = g.AddNode(sinkNode("out2", "Material Output.001", TypeOutputMaterial))
				return g
			},
			wantID: "out1",
		},
		{
			name: "single sink with Output in name",
			build: func() *Graph {
				g := NewGraph("m")
				_ = g.AddNode(sinkNode("tex", "Noise", "ShaderNodeTexNoise"))
				_ = g.AddNode(sinkNode("out", "My Output", "ShaderNodeEmission"))
				_ = g.Connect("tex", "Out", "out", "In")
				return g
			},
			wantID: "out",
		},
		{
			name: "prefers Output over first candidate",
			build: func() *Graph {
				g := NewGraph("m")
				_ = g.AddNode(sinkNode("a", "Mix", TypeMixRGB))
				_ = g.AddNode(sinkNode("b", "Group Out", TypeGroupOutput))
				return g
			},
			wantID: "b",
		},
		{
			name: "falls back to first candidate",
			build: func() *Graph {
				g := NewGraph("m")
				_ = g.AddNode(sinkNode("src", "Value", "ShaderNodeValue"))
				_ = g.AddNode(sinkNode("a", "Mix", TypeMixRGB))
				_ = g.AddNode(sinkNode("b", "Emission", "ShaderNodeEmission"))
				_ = g.Connect("src", "Out", "b", "In")
				return g
			},
			wantID: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ResolveOutput(tt.build())
			if err != nil {
				t.Fatalf("ResolveOutput() error = %v", err)
			}
			if n.ID != tt.wantID {
				t.Errorf("ResolveOutput() = %q, want %q", n.ID, tt.wantID)
			}
		})
	}
}

func TestResolveOutputFailures(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Graph
	}{
		{
			name:  "empty graph",
			build: func() *Graph { return NewGraph("Empty") },
		},
		{
			name: "every node feeds another",
			build: func() *Graph {
				g := NewGraph("Loop")
				_ = g.AddNode(sinkNode("a", "A", "X"))
				_ = g.AddNode(sinkNode("b", "B", "X"))
				_ = g.Connect("a", "Out", "b", "In")
				_ = g.Connect("b", "Out", "a", "In")
				return g
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build()
			_, err := ResolveOutput(g)
			if !errors.Is(err, ErrNoOutputNode) {
				t.Fatalf("ResolveOutput() error = %v, want ErrNoOutputNode", err)
			}
			if !strings.Contains(err.Error(), g.Name()) {
				t.Errorf("error %q should name the graph %q", err, g.Name())
			}
		})
	}
}

func TestResolveOutputIsDeterministic(t *testing.T) {
	build := func() *Graph {
		g := NewGraph("m")
		for _, id := range []NodeID{"d", "c", "b", "a"} {
			_ = g.AddNode(sinkNode(id, string(id), "X"))
		}
		return g
	}
	for i := 0; i < 20; i++ {
		n, err := ResolveOutput(build())
		if err != nil {
			t.Fatalf("ResolveOutput: %v", err)
		}
		if n.ID != "d" {
			t.Fatalf("run %d: ResolveOutput() = %q, want first inserted node d", i, n.ID)
		}
	}
}

// outsideSource wraps a graph and reports an extra link from every output to
// a node that lives in another graph.
type outsideSource struct{ *Graph }

func (s outsideSource) OutputLinks(id NodeID, output int) []Link {
	links := s.Graph.OutputLinks(id, output)
	return append(links, Link{FromNode: id, FromSocket: output, ToNode: "elsewhere"})
}

func TestSinkCandidatesIgnoreOutsideLinks(t *testing.T) {
	g := NewGraph("m")
	_ = g.AddNode(sinkNode("a", "A", "X"))
	_ = g.AddNode(sinkNode("b", "B", "X"))
	_ = g.Connect("a", "Out", "b", "In")

	got := SinkCandidates(outsideSource{g})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("SinkCandidates() = %v, want [b]", got)
	}
}

func TestFindGroupOutput(t *testing.T) {
	g := NewGraph("group")
	_ = g.AddNode(sinkNode("in", "Group Input", TypeGroupInput))
	if _, ok := FindGroupOutput(g); ok {
		t.Error("FindGroupOutput() found a node in a graph without group output")
	}

	_ = g.AddNode(sinkNode("out", "Group Output", TypeGroupOutput))
	n, ok := FindGroupOutput(g)
	if !ok || n.ID != "out" {
		t.Errorf("FindGroupOutput() = %v, %v; want out", n, ok)
	}
}
