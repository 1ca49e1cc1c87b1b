// Package serve implements the serve subcommand: it assembles the
// datastore, quota gate, completion provider and HTTP API, and runs the
// web server until interrupted.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/marinewatch/marinewatch-go/internal/annotation"
	apiv2 "github.com/marinewatch/marinewatch-go/internal/api/v2"
	"github.com/marinewatch/marinewatch-go/internal/camevents"
	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/httpclient"
	"github.com/marinewatch/marinewatch-go/internal/logging"
	"github.com/marinewatch/marinewatch-go/internal/observability"
	"github.com/marinewatch/marinewatch-go/internal/oracle"
	"github.com/marinewatch/marinewatch-go/internal/quota"
)

const shutdownTimeout = 10 * time.Second

// Command returns the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MarineWatch monitoring server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
}

func runServer(settings *conf.Settings) error {
	ds := datastore.New(settings)
	if ds == nil {
		return fmt.Errorf("no database output enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logging.Error("Failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	oracleClient := httpclient.New(&httpclient.Config{
		DefaultTimeout: settings.Oracle.Timeout,
	})
	defer oracleClient.Close()

	provider, err := oracle.NewProvider(settings, oracleClient)
	if err != nil {
		return err
	}

	gate := quota.NewGate(ds)
	annotationSvc := annotation.NewService(settings, ds, gate, provider, metrics)
	aggregator := camevents.NewAggregator(ds, settings.Camera.RecentLimit)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	controller := apiv2.New(e, settings, ds, annotationSvc, aggregator, metrics)
	defer controller.Shutdown()

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Run the server until interrupted, then drain in-flight requests.
	errChan := make(chan error, 1)
	go func() {
		addr := ":" + settings.WebServer.Port
		logging.Info("Starting web server",
			"addr", addr,
			"provider", settings.Oracle.Provider,
			"quota_per_day", settings.Oracle.QuotaPerDay,
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("web server failed: %w", err)
	case sig := <-quit:
		logging.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}

	return nil
}
