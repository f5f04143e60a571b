package shader

import (
	"fmt"
	"strings"
)

// Type tags recognized by root resolution and the documenter. The set of
// type tags is open; any other string is a valid, generic node type.
const (
	TypeOutputMaterial = "ShaderNodeOutputMaterial"
	TypeTexImage       = "ShaderNodeTexImage"
	TypeMath           = "ShaderNodeMath"
	TypeMixRGB         = "ShaderNodeMixRGB"
	TypeGroup          = "ShaderNodeGroup"
	TypeGroupInput     = "NodeGroupInput"
	TypeGroupOutput    = "NodeGroupOutput"
)

// NodeID identifies a node within its owning graph.
type NodeID string

// Image is an image resource referenced by an image texture node.
type Image struct {
	Name     string
	Filepath string
}

// Socket is a named connection point on a node.
//
// ID is unique among the sockets of one side (inputs or outputs) of a node.
// When left empty, [Graph.AddNode] derives it from Name, appending "_001",
// "_002", ... to repeated names the same way the host editor does.
type Socket struct {
	ID      string
	Name    string
	Default Value // only meaningful for input sockets
}

// Node is a unit of the shading network.
//
// Nodes are shared, never copied: every link refers to its endpoints by ID.
// The attributes below Outputs are type-specific and are ignored for types
// that do not use them.
type Node struct {
	ID      NodeID
	Name    string
	Type    string
	Inputs  []Socket
	Outputs []Socket

	Operation string // math node operation, e.g. "MULTIPLY_ADD"
	BlendType string // color mix blend mode, e.g. "LINEAR_LIGHT"
	Image     *Image // image texture resource, nil when unassigned
	Group     *Graph // nested graph of a group node, nil when unassigned
}

// IsGroup reports whether the node embeds a nested graph.
func (n *Node) IsGroup() bool { return n.Type == TypeGroup }

// Input returns the index of the input socket matching ref. The socket
// identifier is matched first, then the display name.
func (n *Node) Input(ref string) (int, bool) { return findSocket(n.Inputs, ref) }

// Output returns the index of the output socket matching ref. The socket
// identifier is matched first, then the display name.
func (n *Node) Output(ref string) (int, bool) { return findSocket(n.Outputs, ref) }

// String returns "name (type)".
func (n *Node) String() string { return fmt.Sprintf("%s (%s)", n.Name, n.Type) }

func findSocket(sockets []Socket, ref string) (int, bool) {
	for i, s := range sockets {
		if s.ID == ref {
			return i, true
		}
	}
	for i, s := range sockets {
		if s.Name == ref {
			return i, true
		}
	}
	return -1, false
}

// assignSocketIDs fills empty socket identifiers from names and makes
// identifiers unique within one side of a node.
func assignSocketIDs(sockets []Socket) error {
	seen := make(map[string]bool, len(sockets))
	for i := range sockets {
		if sockets[i].ID != "" {
			if seen[sockets[i].ID] {
				return fmt.Errorf("%w: %q", ErrDuplicateSocketID, sockets[i].ID)
			}
			seen[sockets[i].ID] = true
		}
	}
	for i := range sockets {
		if sockets[i].ID != "" {
			continue
		}
		id := sockets[i].Name
		for n := 1; id == "" || seen[id]; n++ {
			id = fmt.Sprintf("%s_%03d", strings.TrimSpace(sockets[i].Name), n)
		}
		seen[id] = true
		sockets[i].ID = id
	}
	return nil
}
