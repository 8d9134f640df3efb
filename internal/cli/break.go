package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/cache"
	"github.com/ByLCY/justify/layout"
)

func newBreakCmd(g *globalOpts) *cobra.Command {
	var flags layoutFlags
	var (
		asJSON   bool
		cacheURL string
	)

	cmd := &cobra.Command{
		Use:   "break [file|-]",
		Short: "Break a paragraph and print the chosen lines",
		Long: `Break a paragraph and print one row per line: break position, adjustment ratio, natural and target width.

Input is a text file, a .items DSL file, --text, or stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			req, err := flags.request(cmd, args, g.profile)
			if err != nil {
				return err
			}
			c, err := cache.Open(ctx, cacheURL)
			if err != nil {
				return err
			}
			defer c.Close()
			runner, err := g.newRunner(ctx, c)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			res, cached, err := runner.Layout(ctx, req)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Typeset %d lines", len(res.Lines)))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(out, lineTable(res))
			for i, line := range res.Lines {
				if over := line.Width - line.Target; over > 1e-9 && line.Ratio == 0 {
					printWarning(out, "line %d overfull by %s", i+1, formatWidth(over))
				}
			}
			printKeyValue(out, "algorithm", string(res.Algorithm))
			printKeyValue(out, "lines", strconv.Itoa(len(res.Lines)))
			if cacheURL != "" {
				printKeyValue(out, "cache", cacheTag(cached))
			}
			return nil
		},
	}

	addLayoutFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the composed result as JSON")
	cmd.Flags().StringVar(&cacheURL, "cache", "", "cache backend URL, e.g. a directory or redis://host:6379/0")
	return cmd
}

// lineTable renders the composed lines as a bordered table.
func lineTable(res *layout.Result) string {
	rows := make([][]string, len(res.Lines))
	for i, line := range res.Lines {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(line.BreakAt),
			formatRatio(float64(line.Ratio)),
			formatWidth(line.Width),
			formatWidth(line.Target),
			line.Content,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Break", "Ratio", "Width", "Target", "Line").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatRatio(r float64) string {
	switch {
	case math.IsInf(r, 1):
		return "inf"
	case math.IsInf(r, -1):
		return "-inf"
	}
	return strconv.FormatFloat(r, 'f', 3, 64)
}

func formatWidth(w float64) string {
	if w == math.Trunc(w) {
		return strconv.FormatFloat(w, 'f', 0, 64)
	}
	return strconv.FormatFloat(w, 'f', 2, 64)
}
