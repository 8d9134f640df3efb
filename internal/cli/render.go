package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/internal/pipeline"
	"github.com/ByLCY/justify/renderer"
	"github.com/ByLCY/justify/renderer/terminal"
)

const (
	formatPDF      = "pdf"
	formatTerminal = "terminal"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string // PDF path; ignored for terminal output
	format   string // "pdf" or "terminal"; derived from output when empty
	title    string // PDF title
	author   string // PDF author
	noBorder bool   // terminal output without the frame
}

func newRenderCmd(g *globalOpts) *cobra.Command {
	var flags layoutFlags
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a justified paragraph to PDF or the terminal",
		Long: `Render a justified paragraph.

PDF output measures text with the font (widths in mm); terminal output
measures display columns and draws the paragraph in a frame.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			format, err := resolveFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, args, g.profile)
			if err != nil {
				return err
			}
			if req.Measure == "" && format == formatPDF {
				req.Measure = pipeline.MeasureFont
			}

			runner, err := g.newRunner(ctx, nil)
			if err != nil {
				return err
			}
			prog := newProgress(logger)
			res, _, err := runner.Layout(ctx, req)
			if err != nil {
				return err
			}
			res.Meta.Title = opts.title
			res.Meta.Author = opts.author
			res.Meta.Creator = "justify " + version

			var r renderer.Renderer
			if format == formatPDF {
				r = runner.Canvas
			} else {
				tr := terminal.New()
				tr.Border = !opts.noBorder
				tr.Style = tr.Style.BorderForeground(colorDim)
				r = tr
			}
			data, err := r.Render(res)
			if err != nil {
				return fmt.Errorf("渲染失败: %w", err)
			}
			prog.done(fmt.Sprintf("Rendered %d lines", len(res.Lines)))

			out := cmd.OutOrStdout()
			if format == formatTerminal {
				_, err := out.Write(data)
				return err
			}
			if err := writeOutput(opts.output, data); err != nil {
				return err
			}
			printSuccess(out, "Rendered %d lines", len(res.Lines))
			printFile(out, opts.output)
			return nil
		},
	}

	addLayoutFlags(cmd, &flags)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF path")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: pdf, terminal (default from --output)")
	cmd.Flags().StringVar(&opts.title, "title", "", "PDF document title")
	cmd.Flags().StringVar(&opts.author, "author", "", "PDF document author")
	cmd.Flags().BoolVar(&opts.noBorder, "no-border", false, "omit the frame around terminal output")
	return cmd
}

// resolveFormat picks the output format: explicit --format wins, otherwise
// a .pdf output means PDF and no output means the terminal.
func resolveFormat(format, output string) (string, error) {
	switch strings.ToLower(format) {
	case formatPDF:
		if output == "" {
			return "", fmt.Errorf("PDF 输出需要 --output")
		}
		return formatPDF, nil
	case formatTerminal, "term", "tty":
		return formatTerminal, nil
	case "":
		if output == "" {
			return formatTerminal, nil
		}
		if strings.EqualFold(filepath.Ext(output), ".pdf") {
			return formatPDF, nil
		}
		return "", fmt.Errorf("无法从 %q 推断输出格式，请指定 --format", output)
	default:
		return "", fmt.Errorf("未知的输出格式 %q", format)
	}
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
