package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/cache"
	"github.com/ByLCY/justify/server"
)

func newServeCmd(g *globalOpts) *cobra.Command {
	var (
		addr     string
		cacheURL string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Endpoints: POST /v1/layout, POST /v1/graph, GET /healthz.
--cache selects the result cache: a directory, file://dir, redis://host:6379/0 or mongodb://host/db.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			c, err := cache.Open(ctx, cacheURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					logger.Warn("close cache", "err", err)
				}
			}()

			runner, err := g.newRunner(ctx, c)
			if err != nil {
				return err
			}
			runner.TTL = ttl
			logger.Debug("cache", "backend", cacheURL, "ttl", ttl)

			return server.New(runner).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheURL, "cache", "", "cache backend URL (empty disables caching)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "cache entry lifetime (0 keeps entries forever)")
	return cmd
}
