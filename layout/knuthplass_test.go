package layout

import (
	"reflect"
	"testing"

	"github.com/ByLCY/justify/num"
)

func unboundedKP() KnuthPlassConfig[F] {
	cfg := DefaultKnuthPlassConfig[F]()
	cfg.Threshold = num.Inf[F]()
	return cfg
}

func TestKnuthPlassScenarios(t *testing.T) {
	kp := NewKnuthPlass(unboundedKP())
	if got, want := kp.LayoutParagraph(aaaBbb(), 3), []Line[F]{{BreakAt: 3}, {BreakAt: 8}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("width 3: lines = %+v, want %+v", got, want)
	}
	if got, want := kp.LayoutParagraph(aaaBbb(), 7), []Line[F]{{BreakAt: 8}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("width 7: lines = %+v, want %+v", got, want)
	}
}

func TestKnuthPlassInfeasible(t *testing.T) {
	if lines := NewKnuthPlass(DefaultKnuthPlassConfig[F]()).LayoutParagraph(overfull(), 3); lines != nil {
		t.Fatalf("expected nil, got %+v", lines)
	}
}

func TestKnuthPlassPrefersBalancedLines(t *testing.T) {
	p := CharSegment("aaa bbb ccc ddd")
	lines := NewKnuthPlass(unboundedKP()).LayoutParagraph(p.Items, 7)
	want := []Line[F]{{BreakAt: 7}, {BreakAt: 16}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func TestKnuthPlassLooseness(t *testing.T) {
	p := CharSegment("aaa bbb ccc ddd")

	cfg := unboundedKP()
	cfg.Looseness = 1
	lines := NewKnuthPlass(cfg).LayoutParagraph(p.Items, 7)
	if len(lines) != 3 {
		t.Fatalf("looseness +1: expected 3 lines, got %+v", lines)
	}
	assertWellFormed(t, p.Items, lines)

	// 一行放不下，最接近的可行解仍是两行。
	cfg.Looseness = -1
	lines = NewKnuthPlass(cfg).LayoutParagraph(p.Items, 7)
	if len(lines) != 2 {
		t.Fatalf("looseness -1: expected 2 lines, got %+v", lines)
	}
}

func TestFitnessClass(t *testing.T) {
	cases := []struct {
		r    F
		want int
	}{{-0.8, 0}, {-0.5, 1}, {0, 1}, {0.5, 1}, {0.7, 2}, {1, 2}, {1.5, 3}, {num.Inf[F](), 3}}
	for _, c := range cases {
		if got := fitnessClass(c.r); got != c.want {
			t.Fatalf("fitnessClass(%v) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestDemerits(t *testing.T) {
	items := []Item[F]{Box[F](1), Penalty[F](0, 50, true), Penalty[F](0, -50, true), ForcedBreak[F](true)}
	r := &knuthPlassRun[F]{cfg: DefaultKnuthPlassConfig[F](), items: items}
	root := &node[F]{fitness: 1}

	if d, c := r.demerits(0, root, 1); d != 51*51 || c != 1 {
		t.Fatalf("positive cost: d=%v c=%d", d, c)
	}
	if d, _ := r.demerits(0, root, 2); d != 1-2500 {
		t.Fatalf("negative cost: d=%v", d)
	}
	if d, _ := r.demerits(1, root, 3); d != 101*101 {
		t.Fatalf("forced break: d=%v", d)
	}

	flagged := &node[F]{fitness: 1, flagged: true, demerits: 10}
	if d, _ := r.demerits(0, flagged, 3); d != 1+100+10 {
		t.Fatalf("flagged pair: d=%v", d)
	}
	tight := &node[F]{fitness: 0}
	if d, c := r.demerits(2, tight, 3); c != 3 || d != 801*801+100 {
		t.Fatalf("fitness jump: d=%v c=%d", d, c)
	}
}

func TestKnuthPlassShape(t *testing.T) {
	p := CharSegment("aa bb cc dd")
	cfg := unboundedKP()
	cfg.Shape = []F{2, 8}
	lines := NewKnuthPlass(cfg).LayoutParagraph(p.Items, 100)
	want := []Line[F]{{BreakAt: 2}, {BreakAt: 12}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func TestKnuthPlassTrace(t *testing.T) {
	lines, tr := NewKnuthPlass(unboundedKP()).Trace(aaaBbb(), 3)
	if len(lines) != 2 {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if len(tr.Nodes) == 0 || tr.Nodes[0].ID != 0 || tr.Nodes[0].Previous != noNode {
		t.Fatalf("trace must start with the root node: %+v", tr.Nodes)
	}
	if len(tr.Chosen) != 3 || tr.Chosen[0] != 0 {
		t.Fatalf("chosen path = %v", tr.Chosen)
	}
	last := tr.Nodes[tr.Chosen[2]]
	if last.Position != 8 || last.Line != 2 {
		t.Fatalf("last node = %+v", last)
	}
	for _, e := range tr.Edges {
		if n, ok := tr.Target(e); ok && tr.OnPath(n.ID) && n.Previous == e.From {
			return
		}
	}
	t.Fatalf("no edge leads along the chosen path: %+v", tr.Edges)
}

func assertWellFormed(t *testing.T, items []Item[F], lines []Line[F]) {
	t.Helper()
	if len(lines) == 0 {
		t.Fatalf("expected lines")
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].BreakAt <= lines[i-1].BreakAt {
			t.Fatalf("break positions not increasing: %+v", lines)
		}
	}
	if lines[len(lines)-1].BreakAt != len(items)-1 {
		t.Fatalf("last break %d, want terminator %d", lines[len(lines)-1].BreakAt, len(items)-1)
	}
}
