package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// Tree glyphs. Each indent level is exactly four characters wide.
const (
	bar          = "|   "
	nodeBranch   = "|_"
	inputBranch  = "|-"
	detailIndent = "    "
)

// Marker lines.
const (
	alreadyDocumented = "(ALREADY DOCUMENTED ABOVE)"
	groupBegin        = "--- Group Contents ---"
	groupEnd          = "--- End Group Contents ---"
	noGroupOutput     = "(No output node found in group)"
	recursiveGroup    = "(Recursive group, contents not expanded)"
)

// Stats summarizes one render.
type Stats struct {
	Lines    int // lines written to the sink
	Nodes    int // full node expansions
	Repeats  int // "already documented" markers
	Groups   int // group scopes entered
	MaxDepth int // deepest indent level reached
}

// Documenter renders node graphs to a LineSink.
//
// A Documenter is not safe for concurrent use. It may render several roots
// in sequence; each call to Render starts a fresh main traversal scope.
type Documenter struct {
	sink  LineSink
	err   error
	stats Stats

	// open holds the names of the groups currently being expanded.
	open []string
}

// New returns a Documenter writing to sink. The caller keeps ownership of
// sink and is responsible for closing it; see [Document] for a helper that
// does both.
func New(sink LineSink) *Documenter {
	return &Documenter{sink: sink}
}

// Stats returns counters accumulated over all renders so far.
func (d *Documenter) Stats() Stats { return d.stats }

// Header writes the report header for material followed by a blank line.
func (d *Documenter) Header(material string) error {
	d.emit(Header(material))
	d.emit("")
	return d.err
}

// Header returns the first line of a report.
func Header(material string) string {
	return fmt.Sprintf("--- Shader Documentation for: %s ---", material)
}

// Render documents root and everything reachable from it through input
// links and group contents. src is the graph root belongs to and is used to
// resolve links. The graph is never modified.
//
// Render only fails when the sink does; the error has code WRITE_FAILURE.
func (d *Documenter) Render(src shader.Source, root *shader.Node) error {
	if d.err != nil {
		return d.err
	}
	d.node(src, root, 0, visited{}, false)
	return d.err
}

// visited is the set of node IDs expanded within one traversal scope.
type visited map[shader.NodeID]struct{}

func (d *Documenter) node(src shader.Source, n *shader.Node, level int, seen visited, linked bool) {
	if d.err != nil {
		return
	}
	if level > d.stats.MaxDepth {
		d.stats.MaxDepth = level
	}

	prefix := nodePrefix(level, linked)
	if _, ok := seen[n.ID]; ok {
		d.stats.Repeats++
		d.emit(prefix + n.Name + " " + alreadyDocumented)
		return
	}
	seen[n.ID] = struct{}{}
	d.stats.Nodes++

	bars := strings.Repeat(bar, level)
	d.emit(fmt.Sprintf("%s%s (%s)", prefix, n.Name, n.Type))
	d.details(src, n, level, bars+detailIndent)

	for i, in := range n.Inputs {
		head := bars + inputBranch + in.Name + ": "
		from, socket, ok := upstream(src, n, i)
		if !ok {
			d.emit(head + FormatValue(in.Default))
			continue
		}
		d.emit(fmt.Sprintf("%sConnected from '%s' (%s)", head, from.Name, socket))
		d.node(src, from, level+1, seen, true)
	}
}

// details writes the type-specific lines of a node's first expansion.
func (d *Documenter) details(src shader.Source, n *shader.Node, level int, prefix string) {
	switch n.Type {
	case shader.TypeTexImage:
		if n.Image != nil {
			d.emit(prefix + `Image: "` + BaseName(n.Image.Filepath) + `"`)
		}
	case shader.TypeMath:
		d.emit(prefix + "Operation: " + TitleCase(n.Operation))
	case shader.TypeMixRGB:
		d.emit(prefix + "Blend Type: " + TitleCase(n.BlendType))
	case shader.TypeGroup:
		d.emit(prefix + groupBegin)
		if sub := src.Subgraph(n.ID); sub != nil {
			d.group(sub, level, prefix)
		}
		d.emit(prefix + groupEnd)
	}
}

// group documents a nested graph in a fresh traversal scope.
// A group already being expanded further up is not entered again.
func (d *Documenter) group(sub shader.Source, level int, prefix string) {
	if slices.Contains(d.open, sub.Name()) {
		d.emit(prefix + recursiveGroup)
		return
	}
	out, ok := shader.FindGroupOutput(sub)
	if !ok {
		d.emit(prefix + noGroupOutput)
		return
	}
	d.stats.Groups++
	d.open = append(d.open, sub.Name())
	d.node(sub, out, level+1, visited{}, false)
	d.open = d.open[:len(d.open)-1]
}

// upstream resolves the first link into input i of n. Links whose source
// node is unknown to src are treated as unlinked.
func upstream(src shader.Source, n *shader.Node, i int) (*shader.Node, string, bool) {
	links := src.InputLinks(n.ID, i)
	if len(links) == 0 {
		return nil, "", false
	}
	l := links[0]
	from, ok := src.Node(l.FromNode)
	if !ok {
		return nil, "", false
	}
	socket := ""
	if l.FromSocket >= 0 && l.FromSocket < len(from.Outputs) {
		socket = from.Outputs[l.FromSocket].Name
	}
	return from, socket, true
}

// nodePrefix returns the branch drawn before a node line. The root has none.
// A linked child hangs off an input line, so its branch sits after the bar
// of its own level; a structural child (group output) sits one field left.
func nodePrefix(level int, linked bool) string {
	switch {
	case level == 0:
		return ""
	case linked:
		return strings.Repeat(bar, level) + nodeBranch
	default:
		return strings.Repeat(bar, level-1) + nodeBranch
	}
}

func (d *Documenter) emit(line string) {
	if d.err != nil {
		return
	}
	if err := d.sink.WriteLine(line); err != nil {
		d.err = errors.Wrap(errors.ErrCodeWriteFailure, err, "write report line %d", d.stats.Lines+1)
		return
	}
	d.stats.Lines++
}

// Document writes a complete report (header, blank line, rendered graph) for
// material to sink and closes sink on every path. root must belong to src.
//
// A failure to close the sink is reported as WRITE_FAILURE unless an earlier
// error already occurred.
func Document(sink LineSink, material string, src shader.Source, root *shader.Node) (stats Stats, err error) {
	d := New(sink)
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeWriteFailure, cerr, "close report")
		}
		stats = d.Stats()
	}()

	if err := d.Header(material); err != nil {
		return d.Stats(), err
	}
	return d.Stats(), d.Render(src, root)
}
