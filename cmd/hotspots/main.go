// Command hotspots derives cause-wise risk metrics for the embedded accident
// table, renders the heatmap and dashboard, prints the hotspot ranking, and
// exports the feature table.
//
// With HTTP_ADDR set it keeps serving health, metrics, the latest ranking and
// the report files after the first run, re-running whenever CONFIG_FILE
// changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"

	httpadapter "github.com/couchcryptid/road-accident-hotspots/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/road-accident-hotspots/internal/adapter/kafka"
	"github.com/couchcryptid/road-accident-hotspots/internal/adapter/postgres"
	"github.com/couchcryptid/road-accident-hotspots/internal/config"
	"github.com/couchcryptid/road-accident-hotspots/internal/dataset"
	"github.com/couchcryptid/road-accident-hotspots/internal/export"
	"github.com/couchcryptid/road-accident-hotspots/internal/observability"
	"github.com/couchcryptid/road-accident-hotspots/internal/pipeline"
	"github.com/couchcryptid/road-accident-hotspots/internal/report"
)

// openReport launches a rendered report in the desktop's default viewer.
var openReport = browser.OpenFile

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// stdout carries the ranking and the export confirmation only.
	browser.Stdout = os.Stderr

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, os.Stdout, logger, metrics)
	stop()
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger, metrics *observability.Metrics) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	loaders, cleanup, err := buildLoaders(ctx, cfg, stdout, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	p := pipeline.New(dataset.Source{}, pipeline.NewTransformer(logger), loaders, logger, metrics)

	_, err = p.Run(ctx, cfg.FocusRegion)
	writeTextfile(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.HTTPAddr == "" {
		return nil
	}
	return serve(ctx, cfg, p, logger)
}

// buildLoaders assembles the loaders in run order: charts, viewer, ranking,
// feature exports, then the optional sinks.
func buildLoaders(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) ([]pipeline.Loader, func(), error) {
	heatmapPath := cfg.OutputPath(cfg.HeatmapFile)
	dashboardPath := cfg.OutputPath(cfg.DashboardFile)

	loaders := []pipeline.Loader{
		report.NewHeatmap(heatmapPath, logger),
		report.NewDashboard(dashboardPath, logger),
	}
	if cfg.OpenReports {
		loaders = append(loaders, report.NewViewer(logger, openReport, heatmapPath, dashboardPath))
	}
	loaders = append(loaders,
		report.NewRankingPrinter(stdout),
		export.NewCSVWriter(cfg.OutputPath(cfg.FeaturesFile), stdout, logger),
	)
	if cfg.XLSXFile != "" {
		loaders = append(loaders, export.NewWorkbook(cfg.OutputPath(cfg.XLSXFile), logger))
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		})
		loaders = append(loaders, writer)
		logger.Info("kafka publisher enabled", "topic", cfg.KafkaTopic)
	}

	if cfg.DatabaseEnabled() {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pool.Close)

		store := postgres.NewStore(pool, logger)
		if err := store.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		loaders = append(loaders, store)
		logger.Info("postgres store enabled")
	}

	return loaders, cleanup, nil
}

// serve exposes the latest analysis over HTTP until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) error {
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.OutputDir, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.ConfigFile != "" {
		go func() {
			// Output paths and sinks are fixed at startup; a reload picks
			// up the new focus region and re-renders.
			err := config.Watch(ctx, cfg.ConfigFile, logger, func(next *config.Config) {
				if _, err := p.Run(ctx, next.FocusRegion); err != nil {
					logger.Error("pipeline re-run failed", "error", err)
				}
				writeTextfile(cfg, logger)
			})
			if err != nil {
				logger.Error("config watch error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func writeTextfile(cfg *config.Config, logger *slog.Logger) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("metrics textfile write failed", "path", cfg.MetricsTextfile, "error", err)
	}
}
