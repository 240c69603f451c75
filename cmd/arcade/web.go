package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/platform/web"
	"github.com/vovakirdan/neon-arcade/internal/telemetry"
)

var (
	flagHTTPAddr    string
	flagMaxConns    int
	flagCORSOrigins []string
	flagNoMetrics   bool
	flagTrustProxy  bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the arcade over HTTP and WebSocket",
	Long: `Start an HTTP server with a browser client, a JSON score API,
PNG previews and Prometheus metrics.

Endpoints:
  /                       Browser client
  /api/games              Registered games
  /api/games/{id}/scores  Top scores
  /api/games/{id}/stats   Aggregate statistics
  /api/games/{id}/preview.png
  /ws/{id}                Live play over WebSocket
  /metrics                Prometheus metrics

Examples:
  arcade web
  arcade web --addr :9000
  ARCADE_HTTP_ADDR=:9000 arcade web`,
	RunE: runWeb,
}

func init() {
	def := web.DefaultConfig(":8080")
	webCmd.Flags().StringVar(&flagHTTPAddr, "addr", def.Address, "HTTP listen address (env ARCADE_HTTP_ADDR)")
	webCmd.Flags().IntVar(&flagMaxConns, "max-conns", def.MaxConnections, "Maximum concurrent WebSocket players")
	webCmd.Flags().StringSliceVar(&flagCORSOrigins, "cors-origin", def.CORSOrigins, "Allowed CORS and WebSocket origins")
	webCmd.Flags().BoolVar(&flagNoMetrics, "no-metrics", false, "Disable Prometheus metrics")
	webCmd.Flags().BoolVar(&flagTrustProxy, "trust-proxy", false, "Take client IPs from X-Forwarded-For (behind a reverse proxy only)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("arcade-web", true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := web.DefaultConfig(flagHTTPAddr)
	cfg.Deps = newDeps(store, logger)
	cfg.MaxConnections = flagMaxConns
	cfg.CORSOrigins = flagCORSOrigins
	cfg.TrustProxy = flagTrustProxy
	if !flagNoMetrics {
		cfg.Metrics = telemetry.New(prometheus.DefaultRegisterer)
		cfg.MetricsHandler = promhttp.Handler()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting arcade web server", "addr", cfg.Address, "metrics", !flagNoMetrics)
	return web.New(cfg).ListenAndServe(ctx)
}
