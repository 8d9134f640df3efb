package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
)

func trace(t *testing.T) (*layout.Paragraph, *layout.Trace[num.Float]) {
	t.Helper()
	p := layout.CharSegment("aaa bbb ccc ddd")
	cfg := layout.DefaultKnuthPlassConfig[num.Float]()
	cfg.Threshold = num.Inf[num.Float]()
	lines, tr := layout.NewKnuthPlass(cfg).Trace(p.Items, 7)
	if len(lines) != 2 {
		t.Fatalf("unexpected lines %+v", lines)
	}
	return &p, tr
}

func TestToDOT(t *testing.T) {
	p, tr := trace(t)
	dot := ToDOT(tr, Options{Detailed: true, Label: func(pos int) string { return p.Fragment(pos - 1) }})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("not a digraph:\n%s", dot)
	}
	if !strings.Contains(dot, `"n0" [label="start`) {
		t.Fatalf("missing start node:\n%s", dot)
	}
	if strings.Count(dot, "color=blue") != len(tr.Chosen)-1 {
		t.Fatalf("expected %d highlighted edges:\n%s", len(tr.Chosen)-1, dot)
	}
	if !strings.Contains(dot, "demerits") {
		t.Fatalf("detailed labels missing:\n%s", dot)
	}
}

func TestToDOTNil(t *testing.T) {
	if got := ToDOT[num.Float](nil, Options{}); got != "digraph G {\n  rankdir=LR;\n  bgcolor=\"transparent\";\n  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n\n}\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	_, tr := trace(t)
	svg, err := RenderSVG(context.Background(), ToDOT(tr, Options{Pruned: true}))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Fatalf("output is not SVG")
	}
}
