package layout

import (
	"reflect"
	"testing"

	"github.com/ByLCY/justify/num"
)

// aaaBbb 对应文本 "aaa bbb"：每个字符宽 1，空格可拉伸 1，末尾是无限拉伸与带标记的强制断行。
func aaaBbb() []Item[F] {
	return []Item[F]{
		Box[F](1), Box[F](1), Box[F](1),
		Glue[F](1, 1, 0),
		Box[F](1), Box[F](1), Box[F](1),
		Glue[F](0, num.Inf[F](), 0),
		Penalty[F](0, num.NegInf[F](), true),
	}
}

func unbounded() FirstFitConfig[F] {
	cfg := DefaultFirstFitConfig[F]()
	cfg.Threshold = num.Inf[F]()
	return cfg
}

func TestFirstFitBreaksAtGlue(t *testing.T) {
	lines := NewFirstFit(unbounded()).LayoutParagraph(aaaBbb(), 3)
	want := []Line[F]{{BreakAt: 3}, {BreakAt: 8}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func TestFirstFitSingleLine(t *testing.T) {
	lines := NewFirstFit(unbounded()).LayoutParagraph(aaaBbb(), 7)
	want := []Line[F]{{BreakAt: 8}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func overfull() []Item[F] {
	return []Item[F]{
		Box[F](5), Glue[F](1, 1, 0), Box[F](1),
		FillGlue[F](), ForcedBreak[F](false),
	}
}

func TestFirstFitOverflow(t *testing.T) {
	if lines := NewFirstFit(unbounded()).LayoutParagraph(overfull(), 3); lines != nil {
		t.Fatalf("expected infeasible result, got %+v", lines)
	}

	cfg := unbounded()
	cfg.AllowOverflow = true
	lines := NewFirstFit(cfg).LayoutParagraph(overfull(), 3)
	want := []Line[F]{{BreakAt: 1}, {BreakAt: 4}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

// overfullPenalty 中第 5 项带宽度的 Penalty 在宽度 3 时自身溢出，
// 其后的强制断行却能放下。
func overfullPenalty() []Item[F] {
	return []Item[F]{
		Box[F](3), Glue[F](1, 1, 1),
		Box[F](3), Glue[F](1, 1, 1),
		Box[F](3), Penalty[F](1, 10, false),
		FillGlue[F](), ForcedBreak[F](false),
	}
}

func TestFirstFitOverfullPenalty(t *testing.T) {
	if lines := NewFirstFit(unbounded()).LayoutParagraph(overfullPenalty(), 3); lines != nil {
		t.Fatalf("expected infeasible result, got %+v", lines)
	}
	if lines := NewKnuthPlass(unboundedKP()).LayoutParagraph(overfullPenalty(), 3); lines != nil {
		t.Fatalf("knuth-plass: expected infeasible result, got %+v", lines)
	}

	cfg := unbounded()
	cfg.AllowOverflow = true
	lines := NewFirstFit(cfg).LayoutParagraph(overfullPenalty(), 3)
	want := []Line[F]{{BreakAt: 1}, {BreakAt: 3}, {BreakAt: 7}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func TestFirstFitDefaultThreshold(t *testing.T) {
	p := CharSegment("aa bb cc dd")
	lines := NewFirstFit(DefaultFirstFitConfig[F]()).LayoutParagraph(p.Items, 5)
	// "aa bb" / "cc dd"
	want := []Line[F]{{BreakAt: 5}, {BreakAt: 12}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func TestFirstFitShape(t *testing.T) {
	p := CharSegment("aa bb cc dd")
	cfg := unbounded()
	cfg.Shape = []F{2, 8}
	lines := NewFirstFit(cfg).LayoutParagraph(p.Items, 100)
	// 第一行只能放下 "aa"，之后每行宽 8。
	if len(lines) != 2 || lines[0].BreakAt != 2 || lines[1].BreakAt != 12 {
		t.Fatalf("lines = %+v", lines)
	}
	if lines[0].AdjustmentRatio != 0 || lines[1].AdjustmentRatio != 0 {
		t.Fatalf("expected exact fits, got %+v", lines)
	}
}

func TestFirstFitMandatoryBreakInMiddle(t *testing.T) {
	items := []Item[F]{
		Box[F](2), NoBreak[F](), FillGlue[F](), ForcedBreak[F](false),
		Box[F](2), FillGlue[F](), ForcedBreak[F](false),
	}
	lines := NewFirstFit(DefaultFirstFitConfig[F]()).LayoutParagraph(items, 10)
	want := []Line[F]{{BreakAt: 3}, {BreakAt: 6}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}
