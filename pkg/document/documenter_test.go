package document

import (
	"errors"
	"strings"
	"testing"

	derrors "github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// builder assembles small graphs without per-call error handling.
type builder struct {
	t *testing.T
	g *shader.Graph
}

func newBuilder(t *testing.T, name string) *builder {
	t.Helper()
	return &builder{t: t, g: shader.NewGraph(name)}
}

func (b *builder) add(n *shader.Node) *shader.Node {
	b.t.Helper()
	if err := b.g.AddNode(n); err != nil {
		b.t.Fatalf("AddNode(%s): %v", n.ID, err)
	}
	return n
}

func (b *builder) link(from shader.NodeID, out string, to shader.NodeID, in string) {
	b.t.Helper()
	if err := b.g.Connect(from, out, to, in); err != nil {
		b.t.Fatalf("Connect(%s.%s -> %s.%s): %v", from, out, to, in, err)
	}
}

func generic(id, name string, inputs ...string) *shader.Node {
	n := &shader.Node{ID: shader.NodeID(id), Name: name, Type: "ShaderNodeGeneric", Outputs: []shader.Socket{{Name: "Out"}}}
	for _, in := range inputs {
		n.Inputs = append(n.Inputs, shader.Socket{Name: in})
	}
	return n
}

func outputNode() *shader.Node {
	return &shader.Node{
		ID:     "out",
		Name:   "Material Output",
		Type:   shader.TypeOutputMaterial,
		Inputs: []shader.Socket{{Name: "Surface"}, {Name: "Displacement"}},
	}
}

func render(t *testing.T, src shader.Source, root *shader.Node) []string {
	t.Helper()
	var lines Lines
	if err := New(&lines).Render(src, root); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return lines.Strings()
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("lines mismatch\ngot:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRenderMathScenario(t *testing.T) {
	b := newBuilder(t, "Basic")
	out := b.add(outputNode())
	b.add(&shader.Node{
		ID:        "math",
		Name:      "Math",
		Type:      shader.TypeMath,
		Operation: "ADD",
		Inputs: []shader.Socket{
			{Name: "Value", Default: shader.Scalar(2)},
			{Name: "Value", Default: shader.Scalar(3)},
		},
		Outputs: []shader.Socket{{Name: "Value"}},
	})
	b.link("math", "Value", "out", "Surface")

	assertLines(t, render(t, b.g, out), []string{
		"Material Output (ShaderNodeOutputMaterial)",
		"|-Surface: Connected from 'Math' (Value)",
		"|   |_Math (ShaderNodeMath)",
		"|       Operation: Add",
		"|   |-Value: Value: 2.0000",
		"|   |-Value: Value: 3.0000",
		"|-Displacement: Not Connected",
	})
}

func TestRenderLeafValues(t *testing.T) {
	b := newBuilder(t, "Leaves")
	n := b.add(&shader.Node{
		ID:   "bsdf",
		Name: "Principled BSDF",
		Type: "ShaderNodeBsdfPrincipled",
		Inputs: []shader.Socket{
			{Name: "Roughness", Default: shader.Scalar(0.5)},
			{Name: "Base Color", Default: shader.Vector(1, 0, 0)},
			{Name: "Emission", Default: shader.Vector(1, 1, 1, 1)},
			{Name: "Normal"},
			{Name: "Label", Default: shader.Text("<bpy_struct>")},
		},
	})

	assertLines(t, render(t, b.g, n), []string{
		"Principled BSDF (ShaderNodeBsdfPrincipled)",
		"|-Roughness: Value: 0.5000",
		"|-Base Color: Value: (1.0000, 0.0000, 0.0000)",
		"|-Emission: Value: (1.0000, 1.0000, 1.0000, 1.0000)",
		"|-Normal: Not Connected",
		"|-Label: Value: <bpy_struct>",
	})
}

func TestRenderNodeWithoutInputs(t *testing.T) {
	b := newBuilder(t, "Single")
	n := b.add(generic("n", "Lonely"))
	assertLines(t, render(t, b.g, n), []string{"Lonely (ShaderNodeGeneric)"})
}

func TestRenderCycle(t *testing.T) {
	b := newBuilder(t, "Cycle")
	a := b.add(generic("a", "A", "In"))
	b.add(generic("b", "B", "In"))
	b.link("b", "Out", "a", "In")
	b.link("a", "Out", "b", "In")

	got := render(t, b.g, a)
	assertLines(t, got, []string{
		"A (ShaderNodeGeneric)",
		"|-In: Connected from 'B' (Out)",
		"|   |_B (ShaderNodeGeneric)",
		"|   |-In: Connected from 'A' (Out)",
		"|   |   |_A (ALREADY DOCUMENTED ABOVE)",
	})
}

func TestRenderSelfLoop(t *testing.T) {
	b := newBuilder(t, "Self")
	a := b.add(generic("a", "A", "In"))
	b.link("a", "Out", "a", "In")

	assertLines(t, render(t, b.g, a), []string{
		"A (ShaderNodeGeneric)",
		"|-In: Connected from 'A' (Out)",
		"|   |_A (ALREADY DOCUMENTED ABOVE)",
	})
}

func TestRenderDiamond(t *testing.T) {
	b := newBuilder(t, "Diamond")
	root := b.add(generic("root", "Root", "Left", "Right"))
	b.add(generic("l", "L", "In"))
	b.add(generic("r", "R", "In"))
	b.add(generic("shared", "Shared", "Factor"))
	b.link("l", "Out", "root", "Left")
	b.link("r", "Out", "root", "Right")
	b.link("shared", "Out", "l", "In")
	b.link("shared", "Out", "r", "In")

	got := render(t, b.g, root)
	assertLines(t, got, []string{
		"Root (ShaderNodeGeneric)",
		"|-Left: Connected from 'L' (Out)",
		"|   |_L (ShaderNodeGeneric)",
		"|   |-In: Connected from 'Shared' (Out)",
		"|   |   |_Shared (ShaderNodeGeneric)",
		"|   |   |-Factor: Not Connected",
		"|-Right: Connected from 'R' (Out)",
		"|   |_R (ShaderNodeGeneric)",
		"|   |-In: Connected from 'Shared' (Out)",
		"|   |   |_Shared (ALREADY DOCUMENTED ABOVE)",
	})

	expanded := 0
	for _, line := range got {
		if strings.HasSuffix(line, "Shared (ShaderNodeGeneric)") {
			expanded++
		}
	}
	if expanded != 1 {
		t.Errorf("Shared expanded %d times, want 1", expanded)
	}
}

func TestRenderGroup(t *testing.T) {
	inner := shader.NewGraph("Noise Mix")
	for _, n := range []*shader.Node{
		{ID: "gin", Name: "Group Input", Type: shader.TypeGroupInput, Outputs: []shader.Socket{{Name: "Fac"}}},
		{ID: "gout", Name: "Group Output", Type: shader.TypeGroupOutput, Inputs: []shader.Socket{{Name: "Color"}}},
	} {
		if err := inner.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := inner.Connect("gin", "Fac", "gout", "Color"); err != nil {
		t.Fatal(err)
	}

	b := newBuilder(t, "Grouped")
	out := b.add(outputNode())
	b.add(&shader.Node{
		ID:      "grp",
		Name:    "Group",
		Type:    shader.TypeGroup,
		Inputs:  []shader.Socket{{Name: "Fac", Default: shader.Scalar(0.25)}},
		Outputs: []shader.Socket{{Name: "Color"}},
		Group:   inner,
	})
	b.link("grp", "Color", "out", "Surface")

	assertLines(t, render(t, b.g, out), []string{
		"Material Output (ShaderNodeOutputMaterial)",
		"|-Surface: Connected from 'Group' (Color)",
		"|   |_Group (ShaderNodeGroup)",
		"|       --- Group Contents ---",
		"|   |_Group Output (NodeGroupOutput)",
		"|   |   |-Color: Connected from 'Group Input' (Fac)",
		"|   |   |   |_Group Input (NodeGroupInput)",
		"|       --- End Group Contents ---",
		"|   |-Fac: Value: 0.2500",
		"|-Displacement: Not Connected",
	})
}

func TestRenderGroupWithoutOutput(t *testing.T) {
	tests := []struct {
		name  string
		inner *shader.Graph
	}{
		{name: "empty nested graph", inner: shader.NewGraph("Empty")},
		{name: "no group output", inner: func() *shader.Graph {
			g := shader.NewGraph("Inputs Only")
			_ = g.AddNode(&shader.Node{ID: "gin", Type: shader.TypeGroupInput})
			return g
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, "Grouped")
			grp := b.add(&shader.Node{ID: "grp", Name: "Group", Type: shader.TypeGroup, Group: tt.inner})

			assertLines(t, render(t, b.g, grp), []string{
				"Group (ShaderNodeGroup)",
				"    --- Group Contents ---",
				"    (No output node found in group)",
				"    --- End Group Contents ---",
			})
		})
	}
}

func TestRenderGroupWithoutNestedGraph(t *testing.T) {
	b := newBuilder(t, "Grouped")
	grp := b.add(&shader.Node{ID: "grp", Name: "Group", Type: shader.TypeGroup})

	assertLines(t, render(t, b.g, grp), []string{
		"Group (ShaderNodeGroup)",
		"    --- Group Contents ---",
		"    --- End Group Contents ---",
	})
}

func TestRenderRecursiveGroup(t *testing.T) {
	// Graphs assembled in code can nest a group inside itself. The inner
	// reference is reported instead of being entered again.
	loop := shader.NewGraph("Loop")
	for _, n := range []*shader.Node{
		{ID: "gout", Name: "Group Output", Type: shader.TypeGroupOutput, Inputs: []shader.Socket{{Name: "Color"}}},
		{ID: "self", Name: "Inner", Type: shader.TypeGroup, Outputs: []shader.Socket{{Name: "Color"}}, Group: loop},
	} {
		if err := loop.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := loop.Connect("self", "Color", "gout", "Color"); err != nil {
		t.Fatal(err)
	}

	b := newBuilder(t, "Recursive")
	grp := b.add(&shader.Node{ID: "grp", Name: "Group", Type: shader.TypeGroup, Group: loop})

	var lines Lines
	d := New(&lines)
	if err := d.Render(b.g, grp); err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertLines(t, lines.Strings(), []string{
		"Group (ShaderNodeGroup)",
		"    --- Group Contents ---",
		"|_Group Output (NodeGroupOutput)",
		"|   |-Color: Connected from 'Inner' (Color)",
		"|   |   |_Inner (ShaderNodeGroup)",
		"|   |       --- Group Contents ---",
		"|   |       (Recursive group, contents not expanded)",
		"|   |       --- End Group Contents ---",
		"    --- End Group Contents ---",
	})
	if got := d.Stats().Groups; got != 1 {
		t.Errorf("Stats().Groups = %d, want 1", got)
	}

	// Only groups on the current path are skipped: a second render with the
	// same Documenter enters the group again.
	if err := d.Render(b.g, grp); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := lines.Strings(); len(got) != 18 || got[11] != got[2] {
		t.Errorf("second render lines = %q", got)
	}
}

func TestRenderGroupIsolation(t *testing.T) {
	// Both graphs contain a node with ID "tex". It is expanded once in the
	// outer scope and once in every group expansion.
	inner := shader.NewGraph("Shared Group")
	for _, n := range []*shader.Node{
		{ID: "tex", Name: "Texture", Type: "ShaderNodeTexNoise", Outputs: []shader.Socket{{Name: "Fac"}}},
		{ID: "gout", Name: "Group Output", Type: shader.TypeGroupOutput, Inputs: []shader.Socket{{Name: "Fac"}}},
	} {
		if err := inner.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := inner.Connect("tex", "Fac", "gout", "Fac"); err != nil {
		t.Fatal(err)
	}

	b := newBuilder(t, "Isolation")
	root := b.add(generic("root", "Root", "A", "B", "C"))
	b.add(&shader.Node{ID: "tex", Name: "Texture", Type: "ShaderNodeTexNoise", Outputs: []shader.Socket{{Name: "Fac"}}})
	b.add(&shader.Node{ID: "g1", Name: "Group", Type: shader.TypeGroup, Outputs: []shader.Socket{{Name: "Fac"}}, Group: inner})
	b.add(&shader.Node{ID: "g2", Name: "Group.001", Type: shader.TypeGroup, Outputs: []shader.Socket{{Name: "Fac"}}, Group: inner})
	b.link("tex", "Fac", "root", "A")
	b.link("g1", "Fac", "root", "B")
	b.link("g2", "Fac", "root", "C")

	got := render(t, b.g, root)

	var expanded, repeated int
	for _, line := range got {
		switch {
		case strings.HasSuffix(line, "Texture (ShaderNodeTexNoise)"):
			expanded++
		case strings.HasSuffix(line, "Texture (ALREADY DOCUMENTED ABOVE)"):
			repeated++
		}
	}
	if expanded != 3 || repeated != 0 {
		t.Errorf("Texture expanded %d times and repeated %d times, want 3 and 0\n%s",
			expanded, repeated, strings.Join(got, "\n"))
	}
}

func TestRenderSameGroupTwiceInScope(t *testing.T) {
	// A group node linked into two inputs is expanded once; the second
	// occurrence is a marker and does not re-enter the group.
	inner := shader.NewGraph("G")
	if err := inner.AddNode(&shader.Node{ID: "gout", Name: "Group Output", Type: shader.TypeGroupOutput}); err != nil {
		t.Fatal(err)
	}

	b := newBuilder(t, "Twice")
	root := b.add(generic("root", "Root", "A", "B"))
	b.add(&shader.Node{ID: "g", Name: "Group", Type: shader.TypeGroup, Outputs: []shader.Socket{{Name: "Out"}}, Group: inner})
	b.link("g", "Out", "root", "A")
	b.link("g", "Out", "root", "B")

	assertLines(t, render(t, b.g, root), []string{
		"Root (ShaderNodeGeneric)",
		"|-A: Connected from 'Group' (Out)",
		"|   |_Group (ShaderNodeGroup)",
		"|       --- Group Contents ---",
		"|   |_Group Output (NodeGroupOutput)",
		"|       --- End Group Contents ---",
		"|-B: Connected from 'Group' (Out)",
		"|   |_Group (ALREADY DOCUMENTED ABOVE)",
	})
}

func TestRenderDetails(t *testing.T) {
	tests := []struct {
		name string
		node *shader.Node
		want []string
	}{
		{
			name: "image texture",
			node: &shader.Node{ID: "tex", Name: "Image Texture", Type: shader.TypeTexImage,
				Image: &shader.Image{Name: "wood.png", Filepath: "//textures/wood.png"}},
			want: []string{"Image Texture (ShaderNodeTexImage)", `    Image: "wood.png"`},
		},
		{
			name: "image texture windows path",
			node: &shader.Node{ID: "tex", Name: "Image Texture", Type: shader.TypeTexImage,
				Image: &shader.Image{Filepath: `C:\assets\rock.exr`}},
			want: []string{"Image Texture (ShaderNodeTexImage)", `    Image: "rock.exr"`},
		},
		{
			name: "image texture without image",
			node: &shader.Node{ID: "tex", Name: "Image Texture", Type: shader.TypeTexImage},
			want: []string{"Image Texture (ShaderNodeTexImage)"},
		},
		{
			name: "math",
			node: &shader.Node{ID: "m", Name: "Math", Type: shader.TypeMath, Operation: "MULTIPLY_ADD"},
			want: []string{"Math (ShaderNodeMath)", "    Operation: Multiply Add"},
		},
		{
			name: "mix",
			node: &shader.Node{ID: "mix", Name: "Mix", Type: shader.TypeMixRGB, BlendType: "LINEAR_LIGHT"},
			want: []string{"Mix (ShaderNodeMixRGB)", "    Blend Type: Linear Light"},
		},
		{
			name: "operation ignored on other types",
			node: &shader.Node{ID: "n", Name: "Vector Math", Type: "ShaderNodeVectorMath", Operation: "ADD"},
			want: []string{"Vector Math (ShaderNodeVectorMath)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, "Details")
			n := b.add(tt.node)
			assertLines(t, render(t, b.g, n), tt.want)
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	b := newBuilder(t, "Deterministic")
	root := b.add(generic("root", "Root", "A", "B"))
	b.add(generic("a", "A", "In"))
	b.add(generic("b", "B", "In"))
	b.link("a", "Out", "root", "A")
	b.link("b", "Out", "root", "B")
	b.link("b", "Out", "a", "In")
	b.link("a", "Out", "b", "In")

	first := strings.Join(render(t, b.g, root), "\n")
	for range 5 {
		if got := strings.Join(render(t, b.g, root), "\n"); got != first {
			t.Fatalf("render not deterministic\nfirst:\n%s\nlater:\n%s", first, got)
		}
	}
}

func TestRenderFirstLinkWins(t *testing.T) {
	b := newBuilder(t, "Multi")
	root := b.add(generic("root", "Root", "In"))
	b.add(generic("a", "A"))
	b.add(generic("b", "B"))
	b.link("a", "Out", "root", "In")
	b.link("b", "Out", "root", "In")

	assertLines(t, render(t, b.g, root), []string{
		"Root (ShaderNodeGeneric)",
		"|-In: Connected from 'A' (Out)",
		"|   |_A (ShaderNodeGeneric)",
	})
}

func TestStats(t *testing.T) {
	b := newBuilder(t, "Stats")
	a := b.add(generic("a", "A", "In"))
	b.add(generic("b", "B", "In"))
	b.link("b", "Out", "a", "In")
	b.link("a", "Out", "b", "In")

	var lines Lines
	d := New(&lines)
	if err := d.Render(b.g, a); err != nil {
		t.Fatal(err)
	}
	want := Stats{Lines: 5, Nodes: 2, Repeats: 1, MaxDepth: 2}
	if got := d.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

type failingSink struct {
	after  int
	writes int
	closed bool
}

var errDiskFull = errors.New("disk full")

func (s *failingSink) WriteLine(string) error {
	if s.writes >= s.after {
		return errDiskFull
	}
	s.writes++
	return nil
}

func (s *failingSink) Close() error {
	s.closed = true
	return nil
}

func TestRenderWriteFailure(t *testing.T) {
	b := newBuilder(t, "Fail")
	root := b.add(generic("root", "Root", "A", "B", "C"))

	sink := &failingSink{after: 2}
	d := New(sink)
	err := d.Render(b.g, root)
	if !derrors.Is(err, derrors.ErrCodeWriteFailure) {
		t.Fatalf("Render() error = %v, want WRITE_FAILURE", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("Render() error does not wrap sink error: %v", err)
	}
	if sink.writes != 2 {
		t.Errorf("sink received %d lines, want 2", sink.writes)
	}
	if err2 := d.Render(b.g, root); !errors.Is(err2, errDiskFull) {
		t.Errorf("second Render() error = %v, want sticky failure", err2)
	}
}

func TestDocument(t *testing.T) {
	b := newBuilder(t, "Basic")
	out := b.add(outputNode())

	var lines Lines
	stats, err := Document(&lines, "Basic", b.g, out)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	assertLines(t, lines.Strings(), []string{
		"--- Shader Documentation for: Basic ---",
		"",
		"Material Output (ShaderNodeOutputMaterial)",
		"|-Surface: Not Connected",
		"|-Displacement: Not Connected",
	})
	if stats.Lines != 5 {
		t.Errorf("stats.Lines = %d, want 5", stats.Lines)
	}
}

func TestDocumentClosesSinkOnFailure(t *testing.T) {
	b := newBuilder(t, "Basic")
	out := b.add(outputNode())

	sink := &failingSink{after: 1}
	stats, err := Document(sink, "Basic", b.g, out)
	if !derrors.Is(err, derrors.ErrCodeWriteFailure) {
		t.Fatalf("Document() error = %v, want WRITE_FAILURE", err)
	}
	if !sink.closed {
		t.Error("sink not closed after failure")
	}
	if stats.Lines != 1 {
		t.Errorf("stats.Lines = %d, want 1", stats.Lines)
	}
}
