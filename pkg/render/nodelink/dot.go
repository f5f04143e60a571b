package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shaderdoc/pkg/document"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds type-specific attributes and the literal defaults of
	// unlinked inputs to node labels. When false, labels show name and type.
	Detailed bool

	// ExpandGroups draws the nested graph of every group node as a cluster
	// next to the group node.
	ExpandGroups bool
}

// ToDOT converts one node graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Data flows left to right as in the node editor. Edges run from the
// producing node to the consuming node and are labeled with both socket
// names. Group nodes are drawn dashed.
func ToDOT(g shader.Source, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, opts: opts}
	w.graph(g, "", "  ")

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf      *bytes.Buffer
	opts     Options
	clusters int
	open     []string // groups being drawn, outermost first
}

// graph writes the nodes and edges of g. scope prefixes node IDs so nested
// graphs, which have their own ID space, never collide with the outer one.
func (w *dotWriter) graph(g shader.Source, scope, indent string) {
	nodes := g.Nodes()
	for _, n := range nodes {
		fmt.Fprintf(w.buf, "%s%q [%s];\n", indent, scope+string(n.ID), strings.Join(fmtAttrs(n, w.opts.Detailed), ", "))
	}

	w.buf.WriteString("\n")
	for _, n := range nodes {
		for i, in := range n.Inputs {
			for _, l := range g.InputLinks(n.ID, i) {
				from, ok := g.Node(l.FromNode)
				if !ok {
					continue
				}
				label := socketName(from.Outputs, l.FromSocket) + " → " + in.Name
				fmt.Fprintf(w.buf, "%s%q -> %q [label=%q];\n", indent, scope+string(l.FromNode), scope+string(n.ID), label)
			}
		}
	}

	if !w.opts.ExpandGroups {
		return
	}
	for _, n := range nodes {
		sub := g.Subgraph(n.ID)
		if sub == nil || slices.Contains(w.open, sub.Name()) {
			continue
		}
		w.clusters++
		inner := fmt.Sprintf("%s%s/%d/", scope, n.ID, w.clusters)
		fmt.Fprintf(w.buf, "\n%ssubgraph \"cluster_%d\" {\n", indent, w.clusters)
		fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, sub.Name())
		fmt.Fprintf(w.buf, "%s  style=\"rounded,dashed\";\n", indent)
		w.open = append(w.open, sub.Name())
		w.graph(sub, inner, indent+"  ")
		w.open = w.open[:len(w.open)-1]
		fmt.Fprintf(w.buf, "%s}\n", indent)
		if out, ok := shader.FindGroupOutput(sub); ok {
			fmt.Fprintf(w.buf, "%s%q -> %q [style=dotted, arrowhead=none];\n", indent, inner+string(out.ID), scope+string(n.ID))
		}
	}
}

func fmtLabel(n *shader.Node, detailed bool) string {
	label := n.Name + "\n(" + n.Type + ")"
	if !detailed {
		return label
	}

	var parts []string
	switch n.Type {
	case shader.TypeMath:
		parts = append(parts, "Operation: "+document.TitleCase(n.Operation))
	case shader.TypeMixRGB:
		parts = append(parts, "Blend Type: "+document.TitleCase(n.BlendType))
	case shader.TypeTexImage:
		if n.Image != nil {
			parts = append(parts, "Image: "+document.BaseName(n.Image.Filepath))
		}
	}
	for _, in := range n.Inputs {
		if in.Default.IsSet() {
			parts = append(parts, in.Name+": "+strings.TrimPrefix(document.FormatValue(in.Default), "Value: "))
		}
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *shader.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch n.Type {
	case shader.TypeGroup:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case shader.TypeOutputMaterial, shader.TypeGroupOutput:
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func socketName(sockets []shader.Socket, i int) string {
	if i < 0 || i >= len(sockets) {
		return "?"
	}
	return sockets[i].Name
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
