// Package cli implements the justify command-line interface.
//
// Commands:
//   - break: break a paragraph and print the line table
//   - render: write the justified paragraph as PDF or framed terminal text
//   - graph: draw the Knuth–Plass search as DOT or SVG
//   - serve: run the HTTP layout service
//   - preview: adjust the line width interactively
//
// All commands accept --verbose (-v) for debug-level logging, --config for a
// TOML profile file and --profile to pick a named profile from it.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/cache"
	"github.com/ByLCY/justify/config"
	"github.com/ByLCY/justify/internal/pipeline"
	canvasrenderer "github.com/ByLCY/justify/renderer/canvas"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version and the
// version command. main calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	verbose    bool
	configPath string
	profile    string
}

// Execute runs the justify CLI under ctx and returns an error if any command
// fails. Errors are not printed; the caller reports them.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}

	root := &cobra.Command{
		Use:           "justify",
		Short:         "justify breaks paragraphs into lines with first-fit or Knuth–Plass",
		Long:          `justify breaks paragraphs into justified lines using the box/glue/penalty model, and renders them to PDF, the terminal or a search graph.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if g.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(versionString())
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "TOML config file with defaults and profiles")
	root.PersistentFlags().StringVarP(&g.profile, "profile", "p", "", "profile name from the config file")

	root.AddCommand(newBreakCmd(g))
	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newGraphCmd(g))
	root.AddCommand(newServeCmd(g))
	root.AddCommand(newPreviewCmd(g))
	root.AddCommand(newVersionCmd())

	return root
}

func versionString() string {
	return fmt.Sprintf("justify %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}

// loadConfig reads --config, or returns the built-in defaults when it is unset.
func (g *globalOpts) loadConfig() (*config.File, error) {
	if g.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(g.configPath)
}

// newRunner builds a pipeline runner from the persistent flags. A nil cache
// disables caching.
func (g *globalOpts) newRunner(ctx context.Context, c cache.Cache) (*pipeline.Runner, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := cfg.Profile(g.profile); err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cfg, c, loggerFromContext(ctx))
	// 命令行下字体路径相对于当前目录解析
	runner.Canvas = canvasrenderer.NewRenderer(".")
	return runner, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
		},
	}
}
