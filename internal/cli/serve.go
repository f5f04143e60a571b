package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderdoc/internal/server"
	"github.com/matzehuels/shaderdoc/pkg/observability/metrics"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports and diagrams over HTTP",
		Long: `Serve reports and diagrams over HTTP.

Endpoints:
  POST /v1/document?material=NAME   text report of the posted library
  POST /v1/graph?material=NAME      SVG (or ?format=dot) diagram
  POST /v1/materials                JSON listing of materials
  GET  /healthz                     liveness
  GET  /metrics                     Prometheus metrics

Reports are cached in Redis when cache.redis_addr is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	metrics.New(prometheus.DefaultRegisterer).Install()

	srv := server.New(runner, c.Logger, server.Config{
		Addr:         addr,
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
