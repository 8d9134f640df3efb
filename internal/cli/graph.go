package cli

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
	"github.com/ByLCY/justify/renderer/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

func newGraphCmd(g *globalOpts) *cobra.Command {
	var flags layoutFlags
	var (
		output   string
		format   string
		detailed bool
		pruned   bool
		traceOut string
	)

	cmd := &cobra.Command{
		Use:   "graph [file|-]",
		Short: "Draw the Knuth–Plass search as a Graphviz graph",
		Long: `Draw the feasible breakpoints found by Knuth–Plass and the candidate lines between them.
The chosen path is highlighted. Output is DOT or SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format = strings.ToLower(format)
			if format == "" {
				format = formatDOT
				if strings.EqualFold(filepath.Ext(output), ".svg") {
					format = formatSVG
				}
			}
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("未知的图格式 %q", format)
			}

			req, err := flags.request(cmd, args, g.profile)
			if err != nil {
				return err
			}
			runner, err := g.newRunner(ctx, nil)
			if err != nil {
				return err
			}
			job, lines, tr, err := runner.Trace(req)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("traced", "nodes", len(tr.Nodes), "edges", len(tr.Edges), "lines", len(lines))
			if traceOut != "" {
				snap := layout.Snapshot[num.Float]{
					Width:     num.Float(job.Width),
					Items:     job.Paragraph.Items,
					Fragments: job.Paragraph.Fragments,
					Lines:     lines,
					Trace:     tr,
				}
				if err := writeSnapshot(traceOut, snap); err != nil {
					return err
				}
			}

			text := dot.ToDOT(tr, dot.Options{
				Detailed: detailed,
				Pruned:   pruned,
				Label:    func(pos int) string { return job.Paragraph.Fragment(pos - 1) },
			})
			data := []byte(text)
			if format == formatSVG {
				if data, err = dot.RenderSVG(ctx, text); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if output == "" || output == "-" {
				_, err := out.Write(data)
				return err
			}
			if err := writeOutput(output, data); err != nil {
				return err
			}
			printSuccess(out, "Graph with %d breakpoints", len(tr.Nodes))
			printFile(out, output)
			return nil
		},
	}

	addLayoutFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "graph format: dot, svg (default from --output)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show fitness class and total demerits on nodes")
	cmd.Flags().BoolVar(&pruned, "pruned", false, "also draw candidates that were not kept")
	cmd.Flags().StringVar(&traceOut, "trace-json", "", "also write the raw search trace as JSON")
	return cmd
}

func writeSnapshot(path string, snap layout.Snapshot[num.Float]) error {
	var buf bytes.Buffer
	if err := layout.WriteDebugJSON(&buf, snap); err != nil {
		return fmt.Errorf("编码搜索快照失败: %w", err)
	}
	return writeOutput(path, buf.Bytes())
}
