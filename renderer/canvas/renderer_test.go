package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/justify/layout"
)

func TestMeasurerWidths(t *testing.T) {
	r := NewRenderer(".")
	m, err := r.Measurer(layout.TextStyle{Font: "goregular", FontSize: 12 * layout.PtToMm})
	if err != nil {
		t.Fatalf("measurer error: %v", err)
	}
	a, ab := m.Measure("a"), m.Measure("ab")
	if a <= 0 || ab <= a {
		t.Fatalf("widths must grow: a=%g ab=%g", a, ab)
	}
	if m.Measure("") != 0 {
		t.Fatalf("empty text must have zero width")
	}

	// 等宽字体中每个字符宽度相同
	mono, err := r.Measurer(layout.TextStyle{Font: "gomono", FontSize: 12 * layout.PtToMm})
	if err != nil {
		t.Fatalf("measurer error: %v", err)
	}
	if diff := math.Abs(mono.Measure("iiii") - mono.Measure("MMMM")); diff > 1e-9 {
		t.Fatalf("gomono should be monospaced, diff=%g", diff)
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRenderer(".")
	m, err := r.Measurer(layout.TextStyle{Font: "no-such-font.ttf"})
	if err != nil {
		t.Fatalf("expected fallback font, got %v", err)
	}
	if m.Measure("hello") <= 0 {
		t.Fatalf("fallback measurer returned no width")
	}
}

// TestJustifiedLinesFillTarget 验证：非末行的最后一个 Span 恰好结束于目标宽度（mm）。
func TestJustifiedLinesFillTarget(t *testing.T) {
	r := NewRenderer(".")
	style := layout.TextStyle{Font: "goregular", FontSize: 11 * layout.PtToMm}
	m, err := r.Measurer(style)
	if err != nil {
		t.Fatalf("measurer error: %v", err)
	}
	text := "The quick brown fox jumps over the lazy dog while the five boxing wizards jump quickly and a wizard's job is to vex chumps quickly in fog."
	p := layout.Segment(text, m, layout.DefaultSegmentOptions())

	opts := layout.DefaultOptions()
	opts.Threshold = math.Inf(1)
	res, err := layout.Typeset(p, 60, opts)
	if err != nil {
		t.Fatalf("typeset error: %v", err)
	}
	if len(res.Lines) < 2 {
		t.Fatalf("expected several lines, got %d", len(res.Lines))
	}
	const eps = 1e-6
	for i, ln := range res.Lines {
		if ln.Last || math.IsInf(float64(ln.Ratio), 0) || len(ln.Spans) == 0 {
			continue
		}
		end := ln.Spans[len(ln.Spans)-1]
		if diff := math.Abs(end.X + end.Width - ln.Target); diff > eps {
			t.Fatalf("line %d ends at %g, target %g", i, end.X+end.Width, ln.Target)
		}
	}

	res.Style = style
	res.Meta = layout.DocumentMeta{Title: "pangrams", Keywords: []string{"test"}}
	pdfBytes, err := r.Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderRejectsEmpty(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{Width: 10}); err == nil {
		t.Fatalf("expected error for result without lines")
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"goregular":        canvas.FontRegular,
		"gobold":           canvas.FontBold,
		"goitalic":         canvas.FontRegular | canvas.FontItalic,
		"Inter-SemiBold":   canvas.FontSemiBold,
		"Inter-BoldItalic": canvas.FontBold | canvas.FontItalic,
	}
	for name, want := range cases {
		if got := parseFontStyle(name); got != want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", name, got, want)
		}
	}
}
