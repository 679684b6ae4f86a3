// cmd/web/serve.go
//
// `web serve` – HTTP server.
//
// Start-up order
// --------------
//
//  1. boot(): config, logger, secrets.
//  2. Optional OpenTelemetry stdout exporter.
//  3. Prismic client, theme, GeoIP resolver.
//  4. Outer router: request ID → request info → access log → HTTPS
//     redirect → security headers, then /metrics and the storefront.
//  5. Serve until SIGINT or SIGTERM, then drain.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/yanizio/storefront/internal/middleware"
	"github.com/yanizio/storefront/internal/prismic"
	"github.com/yanizio/storefront/internal/requestinfo"
	"github.com/yanizio/storefront/internal/server"
	"github.com/yanizio/storefront/internal/storefront"
	"github.com/yanizio/storefront/internal/telemetry"
	"github.com/yanizio/storefront/internal/theme"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := boot(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	//
	// ── Tracing ─────────────────────────────────────────────────────────
	//
	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.Init(cfg.Tracing.ServiceName)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	//
	// ── Content, theme, visitor info ────────────────────────────────────
	//
	client, err := prismic.New(cfg.Prismic.Endpoint,
		prismic.WithTimeout(cfg.Prismic.Timeout),
		prismic.WithUserAgent("storefront/1"),
	)
	if err != nil {
		return err
	}

	th, err := (&theme.Manager{BaseDir: cfg.Theme.BaseDir}).Load(cfg.Theme.Name, storefront.LinkResolver)
	if err != nil {
		return err
	}

	info, err := requestinfo.NewResolver(cfg.Geo.DBPath)
	if err != nil {
		return fmt.Errorf("open geo db: %w", err)
	}
	defer info.Close()

	site := storefront.New(
		storefront.NewOpener(client, cfg.Prismic.AccessToken),
		th,
		storefront.SettingsFrom(cfg),
	)

	//
	// ── Router ──────────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		info.Enrich,
		middleware.AccessLog,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		middleware.Security,
	)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", site.Routes())

	srv := server.New(cfg.HTTP.ListenAddr, r, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	log.Infow("storefront online", "addr", cfg.HTTP.ListenAddr, "theme", th.Name)
	return server.Run(ctx, srv)
}
