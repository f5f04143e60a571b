package shader

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// MaxNameLength is the host editor's datablock name limit in bytes.
const MaxNameLength = 63

var (
	// ErrInvalidName is returned when a material or node group has no name.
	ErrInvalidName = errors.New("name must not be empty")

	// ErrNameTooLong is returned by [Library.AddMaterial] for names longer
	// than [MaxNameLength] bytes.
	ErrNameTooLong = errors.New("name too long")

	// ErrControlCharacter is returned by [Library.AddMaterial] for names
	// containing control characters.
	ErrControlCharacter = errors.New("name contains control characters")

	// ErrRecursiveGroup is returned by [Library.CheckGroups] when a node
	// group contains itself, directly or through other groups.
	ErrRecursiveGroup = errors.New("recursive node group")

	// ErrDuplicateMaterial is returned by [Library.AddMaterial] for a name
	// that is already taken.
	ErrDuplicateMaterial = errors.New("duplicate material")

	// ErrDuplicateGroup is returned by [Library.AddGroup] for a name that is
	// already taken.
	ErrDuplicateGroup = errors.New("duplicate node group")
)

// Material is a named shader. Only materials with UseNodes set and a Tree
// have a node graph to document.
type Material struct {
	Name     string
	UseNodes bool
	Tree     *Graph
}

// HasNodeGraph reports whether the material can be documented.
func (m *Material) HasNodeGraph() bool { return m.UseNodes && m.Tree != nil }

// Library is the collection of materials and node groups of one scene file.
// Node groups are shared: group nodes in any material (or in other groups)
// reference them by pointer.
type Library struct {
	materials []*Material
	groups    []*Graph
	byName    map[string]*Material
	groupName map[string]*Graph
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		byName:    make(map[string]*Material),
		groupName: make(map[string]*Graph),
	}
}

// AddMaterial appends m to the library. Names follow the same rules as a
// material selection: not blank, at most [MaxNameLength] bytes and free of
// control characters.
func (l *Library) AddMaterial(m *Material) error {
	switch {
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("material: %w", ErrInvalidName)
	case len(m.Name) > MaxNameLength:
		return fmt.Errorf("material %.20q...: %w (max %d bytes)", m.Name, ErrNameTooLong, MaxNameLength)
	case strings.ContainsFunc(m.Name, unicode.IsControl):
		return fmt.Errorf("material %q: %w", m.Name, ErrControlCharacter)
	}
	if _, ok := l.byName[m.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMaterial, m.Name)
	}
	l.materials = append(l.materials, m)
	l.byName[m.Name] = m
	return nil
}

// AddGroup appends a node group to the library.
func (l *Library) AddGroup(g *Graph) error {
	if g.Name() == "" {
		return fmt.Errorf("node group: %w", ErrInvalidName)
	}
	if _, ok := l.groupName[g.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateGroup, g.Name())
	}
	l.groups = append(l.groups, g)
	l.groupName[g.Name()] = g
	return nil
}

// CheckGroups returns an error wrapping [ErrRecursiveGroup] when a node
// group reaches itself through group nodes. The message names the cycle,
// e.g. "A -> B -> A". Every group expansion documents its contents in a new
// scope, so such a library would never finish rendering.
func (l *Library) CheckGroups() error {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[*Graph]int, len(l.groups))
	var path []*Graph

	var visit func(g *Graph) error
	visit = func(g *Graph) error {
		switch state[g] {
		case active:
			start := slices.Index(path, g)
			names := make([]string, 0, len(path)-start+1)
			for _, p := range path[start:] {
				names = append(names, p.Name())
			}
			names = append(names, g.Name())
			return fmt.Errorf("%w: %s", ErrRecursiveGroup, strings.Join(names, " -> "))
		case done:
			return nil
		}

		state[g] = active
		path = append(path, g)
		for _, n := range g.nodes {
			if n.Group == nil {
				continue
			}
			if err := visit(n.Group); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[g] = done
		return nil
	}

	for _, g := range l.groups {
		if err := visit(g); err != nil {
			return err
		}
	}
	return nil
}

// Material looks up a material by name.
func (l *Library) Material(name string) (*Material, bool) {
	m, ok := l.byName[name]
	return m, ok
}

// Group looks up a node group by name.
func (l *Library) Group(name string) (*Graph, bool) {
	g, ok := l.groupName[name]
	return g, ok
}

// Materials returns all materials in insertion order.
func (l *Library) Materials() []*Material { return slices.Clone(l.materials) }

// Groups returns all node groups in insertion order.
func (l *Library) Groups() []*Graph { return slices.Clone(l.groups) }

// MaterialNames returns the material names in insertion order.
func (l *Library) MaterialNames() []string {
	names := make([]string, len(l.materials))
	for i, m := range l.materials {
		names[i] = m.Name
	}
	return names
}
