package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/internal/pipeline"
	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/renderer/terminal"
)

const (
	previewMinWidth = 1
	previewStep     = 5
)

func newPreviewCmd(g *globalOpts) *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Adjust the line width interactively in the terminal",
		Long: `Show the justified paragraph in the terminal and re-break it as the width changes.

Keys: ←/→ width ±1, shift+←/→ width ±5, a switch algorithm, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req, err := flags.request(cmd, args, g.profile)
			if err != nil {
				return err
			}
			if req.Measure == pipeline.MeasureFont {
				return fmt.Errorf("preview 只支持 columns 或 chars 测量")
			}
			runner, err := g.newRunner(ctx, nil)
			if err != nil {
				return err
			}
			// 日志会打乱界面
			runner.Logger = charmlog.New(io.Discard)

			m := newPreviewModel(ctx, runner, req)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	addLayoutFlags(cmd, &flags)
	return cmd
}

// previewModel is the bubbletea model for the preview command.
type previewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	req    pipeline.Request

	width     int
	algorithm layout.Algorithm
	lines     int
	body      string
	err       error
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, req pipeline.Request) previewModel {
	if req.Measure == "" {
		req.Measure = pipeline.MeasureColumns
	}
	m := previewModel{ctx: ctx, runner: runner, req: req, width: int(req.Width)}
	if m.width <= 0 {
		if job, err := runner.Prepare(req); err == nil {
			m.width = int(job.Width)
		} else {
			m.width = pipeline.DefaultColumns
		}
	}
	m.algorithm = layout.Algorithm(req.Algorithm)
	m.relayout()
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.resize(-1)
		case "right", "l":
			m.resize(1)
		case "shift+left", "H":
			m.resize(-previewStep)
		case "shift+right", "L":
			m.resize(previewStep)
		case "a":
			if m.algorithm == layout.AlgorithmFirstFit {
				m.algorithm = layout.AlgorithmKnuthPlass
			} else {
				m.algorithm = layout.AlgorithmFirstFit
			}
			m.relayout()
		}
	}
	return m, nil
}

func (m *previewModel) resize(delta int) {
	m.width = max(m.width+delta, previewMinWidth)
	m.relayout()
}

// relayout re-breaks the paragraph at the current width and algorithm.
func (m *previewModel) relayout() {
	req := m.req
	req.Width = float64(m.width)
	req.Algorithm = string(m.algorithm)
	res, _, err := m.runner.Layout(m.ctx, req)
	if err != nil {
		m.err = err
		m.lines = 0
		return
	}
	m.err = nil
	m.algorithm = res.Algorithm
	m.lines = len(res.Lines)

	tr := terminal.New()
	tr.Style = tr.Style.BorderForeground(colorDim)
	data, err := tr.Render(res)
	if err != nil {
		m.err = err
		return
	}
	m.body = string(data)
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("justify preview"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ width  shift+←/→ ±5  a algorithm  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.body)
	}
	b.WriteString("\n")
	status := fmt.Sprintf("width %s  lines %s  %s",
		StyleNumber.Render(fmt.Sprint(m.width)),
		StyleNumber.Render(fmt.Sprint(m.lines)),
		StyleValue.Render(string(m.algorithm)))
	b.WriteString(status)
	return b.String()
}
