// Package serve implements `shipnotes serve`, the HTTP API with its live
// change stream.
package serve

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/api"
	"github.com/shipnotes/shipnotes/internal/app"
	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/server"
)

// AppAnnotation marks commands that build their own application container.
// The root command skips its shared setup for them.
const AppAnnotation = "shipnotes/own-app"

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Every committed change is fanned out to the column cache, Redis (when
configured), the server metrics and clients of GET /api/changes. With Redis,
changes committed by other instances on the same channel reach
GET /api/changes too.

Examples:
  shipnotes serve
  shipnotes serve --addr=127.0.0.1:9090
  shipnotes serve --pprof
  SHIPNOTES_REDIS_URL=redis://localhost:6379/0 shipnotes serve
`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AppAnnotation: "true"},
		RunE:        runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().Bool("pprof", false, "Serve runtime profiles under /debug/pprof")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	cfg := c.Config

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("pprof") {
		cfg.Server.Pprof, _ = cmd.Flags().GetBool("pprof")
	}

	logger := log.StandardLogger()
	srv := server.New(cfg.Server, logger)

	a, err := app.New(ctx, cfg,
		app.WithLogger(logger),
		app.WithPublishers(srv.Metrics(), srv.Hub()),
	)
	if err != nil {
		return formatter.Fail(fmt.Errorf("failed to start: %w", err))
	}
	// Closed with the CLI once the server has stopped
	c.App = a

	api.Register(srv.Echo(), a.APIDeps(srv))

	// Other instances on the same Redis channel feed this instance's change stream
	if err := a.RelayRemoteChanges(ctx, srv.Hub()); err != nil {
		logger.WithError(err).Warn("remote changes unavailable; change stream is local only")
	}

	logger.WithField("addr", cfg.Server.Addr).Info("shipnotes api starting")
	if err := srv.Start(ctx); err != nil {
		return formatter.Fail(err)
	}
	logger.Info("shipnotes api shut down gracefully")
	return nil
}
