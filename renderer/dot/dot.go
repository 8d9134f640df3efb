// Package dot 把 Knuth–Plass 的搜索过程画成 Graphviz 图：节点是可行断点，边是候选行。
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
)

// Options configures trace rendering.
type Options struct {
	// Detailed adds fitness class and total demerits to node labels.
	Detailed bool
	// Pruned also draws candidates that did not survive as nodes.
	Pruned bool
	// Label returns the text shown for a break position, e.g. the word before it.
	Label func(position int) string
}

// ToDOT converts a search trace to Graphviz DOT. Edges on the chosen path are bold.
func ToDOT[N num.Number[N]](tr *layout.Trace[N], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")
	if tr == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, n := range tr.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts))}
		if tr.OnPath(n.ID) {
			attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, e := range tr.Edges {
		label := fmt.Sprintf("label=%q", "r="+fmt.Sprint(e.Ratio))
		target, ok := tr.Target(e)
		if !ok {
			if !opts.Pruned {
				continue
			}
			pruned := fmt.Sprintf("c%d", i)
			fmt.Fprintf(&buf, "  %q [label=%q, style=dashed, fontcolor=gray];\n", pruned, fmt.Sprintf("@%d", e.Position))
			fmt.Fprintf(&buf, "  %q -> %q [%s, style=dashed, color=gray];\n", nodeID(e.From), pruned, label)
			continue
		}
		if target.Previous == e.From && tr.OnPath(target.ID) && tr.OnPath(e.From) {
			fmt.Fprintf(&buf, "  %q -> %q [%s, penwidth=2, color=blue];\n", nodeID(e.From), nodeID(target.ID), label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(e.From), nodeID(target.ID), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return fmt.Sprintf("n%d", id) }

func nodeLabel[N num.Number[N]](n layout.TraceNode[N], opts Options) string {
	head := fmt.Sprintf("@%d line %d", n.Position, n.Line)
	if n.ID == 0 {
		head = "start"
	}
	parts := []string{head}
	if opts.Label != nil && n.ID != 0 {
		if s := opts.Label(n.Position); s != "" {
			parts = append(parts, s)
		}
	}
	if opts.Detailed {
		parts = append(parts, fmt.Sprintf("fitness %d", n.Fitness), "demerits "+fmt.Sprint(n.Demerits))
	}
	return strings.Join(parts, "\n")
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
	return buf.Bytes(), nil
}
