package shader

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. IDs are unique per graph only;
	// nested group graphs have their own ID space.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateSocketID is returned by [Graph.AddNode] when two sockets on
	// the same side of a node carry the same explicit identifier.
	ErrDuplicateSocketID = errors.New("duplicate socket ID")

	// ErrUnknownNode is returned by [Graph.Connect] when either endpoint is
	// not a node of this graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSocket is returned by [Graph.Connect] when a socket
	// reference matches neither an identifier nor a name.
	ErrUnknownSocket = errors.New("unknown socket")
)

// Link is a directed edge from an output socket to an input socket.
// Sockets are addressed by index because socket names are not unique
// (a math node has three inputs all named "Value").
type Link struct {
	FromNode   NodeID
	FromSocket int
	ToNode     NodeID
	ToSocket   int
}

// Source is read-only access to one node graph.
//
// The documenter and root resolution only depend on this interface. Node
// enumeration order must be stable: it breaks ties during root resolution
// and therefore decides what a report looks like.
type Source interface {
	// Name identifies the graph (material or node group) in messages.
	Name() string
	// Nodes returns every node in enumeration order.
	Nodes() []*Node
	// Node looks up a node by ID.
	Node(id NodeID) (*Node, bool)
	// InputLinks returns the links feeding input socket index of node id.
	InputLinks(id NodeID, input int) []Link
	// OutputLinks returns the links leaving output socket index of node id.
	OutputLinks(id NodeID, output int) []Link
	// Subgraph returns the nested graph of a group node, or nil.
	Subgraph(id NodeID) Source
}

type socketKey struct {
	node  NodeID
	index int
}

// Graph is an ordered arena of nodes plus the links between their sockets.
//
// The zero value is not usable - use [NewGraph].
type Graph struct {
	name    string
	nodes   []*Node
	index   map[NodeID]*Node
	links   []Link
	inputs  map[socketKey][]Link
	outputs map[socketKey][]Link
}

// NewGraph creates an empty graph. name is the material or node group name
// used in reports and error messages.
func NewGraph(name string) *Graph {
	return &Graph{
		name:    name,
		index:   make(map[NodeID]*Node),
		inputs:  make(map[socketKey][]Link),
		outputs: make(map[socketKey][]Link),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// AddNode appends n to the graph. The node is stored by reference; callers
// must not change its ID or sockets afterwards.
//
// Returns ErrInvalidNodeID for an empty ID, ErrDuplicateNodeID when the ID is
// taken and ErrDuplicateSocketID for clashing explicit socket identifiers.
// An empty Name defaults to the ID.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	if err := assignSocketIDs(n.Inputs); err != nil {
		return fmt.Errorf("node %q inputs: %w", n.ID, err)
	}
	if err := assignSocketIDs(n.Outputs); err != nil {
		return fmt.Errorf("node %q outputs: %w", n.ID, err)
	}
	if n.Name == "" {
		n.Name = string(n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.index[n.ID] = n
	return nil
}

// Connect links output socket fromSocket of node from to input socket
// toSocket of node to. Socket references are resolved with [Node.Output] and
// [Node.Input]. Cycles are allowed.
//
// An input socket may receive several links; consumers use the first one,
// in the order links were added.
func (g *Graph) Connect(from NodeID, fromSocket string, to NodeID, toSocket string) error {
	src, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	dst, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	out, ok := src.Output(fromSocket)
	if !ok {
		return fmt.Errorf("%w: output %q on %q", ErrUnknownSocket, fromSocket, from)
	}
	in, ok := dst.Input(toSocket)
	if !ok {
		return fmt.Errorf("%w: input %q on %q", ErrUnknownSocket, toSocket, to)
	}
	g.addLink(Link{FromNode: from, FromSocket: out, ToNode: to, ToSocket: in})
	return nil
}

func (g *Graph) addLink(l Link) {
	g.links = append(g.links, l)
	in := socketKey{l.ToNode, l.ToSocket}
	out := socketKey{l.FromNode, l.FromSocket}
	g.inputs[in] = append(g.inputs[in], l)
	g.outputs[out] = append(g.outputs[out], l)
}

// Nodes returns all nodes in insertion order. The slice is a copy; the nodes
// are shared.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Node looks up a node by ID.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Contains reports whether id names a node of this graph.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Links returns all links in insertion order.
func (g *Graph) Links() []Link { return slices.Clone(g.links) }

// InputLinks returns the links feeding an input socket, oldest first.
func (g *Graph) InputLinks(id NodeID, input int) []Link {
	return slices.Clone(g.inputs[socketKey{id, input}])
}

// OutputLinks returns the links leaving an output socket, oldest first.
func (g *Graph) OutputLinks(id NodeID, output int) []Link {
	return slices.Clone(g.outputs[socketKey{id, output}])
}

// Subgraph returns the nested graph of node id, or nil when the node is not
// a group or has no graph assigned.
func (g *Graph) Subgraph(id NodeID) Source {
	n, ok := g.index[id]
	if !ok || n.Group == nil {
		return nil
	}
	return n.Group
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links in the graph.
func (g *Graph) LinkCount() int { return len(g.links) }

var _ Source = (*Graph)(nil)
