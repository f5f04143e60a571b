package shader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoOutputNode is returned by [ResolveOutput] when no node qualifies as
// the sink of a graph.
var ErrNoOutputNode = errors.New("no suitable output node")

// outputHint is the substring that makes a sink candidate preferable.
const outputHint = "Output"

// ResolveOutput returns the node a report starts from.
//
// The first node tagged [TypeOutputMaterial] wins. Without one, every sink
// candidate (see [SinkCandidates]) is considered: the first whose name or
// type contains "Output" is returned, otherwise the first candidate. All
// ties are broken by the source's enumeration order.
//
// Returns an error wrapping ErrNoOutputNode that names the graph when the
// graph is empty or has no candidate (every node feeds another).
func ResolveOutput(src Source) (*Node, error) {
	if n, ok := FindByType(src, TypeOutputMaterial); ok {
		return n, nil
	}

	candidates := SinkCandidates(src)
	for _, n := range candidates {
		if strings.Contains(n.Name, outputHint) || strings.Contains(n.Type, outputHint) {
			return n, nil
		}
	}
	if len(candidates) > 0 {
		return candidates[0], nil
	}
	return nil, fmt.Errorf("%w for %q", ErrNoOutputNode, src.Name())
}

// FindGroupOutput returns the designated output node of a group's nested
// graph: the first node tagged [TypeGroupOutput].
func FindGroupOutput(src Source) (*Node, bool) {
	return FindByType(src, TypeGroupOutput)
}

// FindByType returns the first node tagged typ in enumeration order.
func FindByType(src Source, typ string) (*Node, bool) {
	for _, n := range src.Nodes() {
		if n.Type == typ {
			return n, true
		}
	}
	return nil, false
}

// SinkCandidates returns the nodes nothing downstream consumes within src:
// every output socket has no links, or links only to nodes outside the
// graph. The result keeps enumeration order.
func SinkCandidates(src Source) []*Node {
	var out []*Node
	for _, n := range src.Nodes() {
		if isSink(src, n) {
			out = append(out, n)
		}
	}
	return out
}

func isSink(src Source, n *Node) bool {
	for i := range n.Outputs {
		for _, l := range src.OutputLinks(n.ID, i) {
			if _, inside := src.Node(l.ToNode); inside {
				return false
			}
		}
	}
	return true
}
