package cli

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"

	"github.com/ByLCY/justify/internal/pipeline"
	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
)

func newTestPreview(t *testing.T, req pipeline.Request) previewModel {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, charmlog.New(io.Discard))
	inf := num.Float(math.Inf(1))
	req.Threshold = &inf
	return newPreviewModel(context.Background(), runner, req)
}

func press(t *testing.T, m previewModel, key tea.KeyMsg) (previewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	pm, ok := next.(previewModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func TestPreviewResize(t *testing.T) {
	m := newTestPreview(t, pipeline.Request{Text: "aaa bbb ccc ddd", Width: 7})
	if m.err != nil || m.lines != 2 || m.algorithm != layout.AlgorithmKnuthPlass {
		t.Fatalf("initial model: lines=%d alg=%s err=%v", m.lines, m.algorithm, m.err)
	}
	if !strings.Contains(m.View(), "aaa bbb") {
		t.Fatalf("view missing first line:\n%s", m.View())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.width != 8 {
		t.Fatalf("right: width = %d, want 8", m.width)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftRight})
	if m.width != 13 {
		t.Fatalf("shift+right: width = %d, want 13", m.width)
	}
	if m.lines != 2 {
		t.Fatalf("width 13: lines = %d, want 2", m.lines)
	}
	for range 20 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.width != previewMinWidth {
		t.Fatalf("width should stop at %d, got %d", previewMinWidth, m.width)
	}
}

func TestPreviewAlgorithmToggle(t *testing.T) {
	m := newTestPreview(t, pipeline.Request{Text: "aaa bbb ccc ddd", Width: 7})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.algorithm != layout.AlgorithmFirstFit {
		t.Fatalf("algorithm = %s, want first-fit", m.algorithm)
	}
	if !strings.Contains(m.View(), "first-fit") {
		t.Fatalf("status line should name the algorithm:\n%s", m.View())
	}
}

func TestPreviewQuit(t *testing.T) {
	m := newTestPreview(t, pipeline.Request{Text: "aaa", Width: 7})
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestPreviewShowsErrors(t *testing.T) {
	m := newTestPreview(t, pipeline.Request{Text: "aaa", Width: 7, Algorithm: "sideways"})
	if m.err == nil || !strings.Contains(m.View(), "sideways") {
		t.Fatalf("expected error in view, got %v", m.err)
	}
}
