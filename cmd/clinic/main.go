package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"clinic/internal/config"
	"clinic/internal/logger"
	"clinic/internal/otel"
	"clinic/internal/repository/factory"
	"clinic/internal/repository/instrumented"
	"clinic/internal/service"
	"clinic/internal/ui"
)

func main() {
	// Load configuration from the settings file, environment variables override it
	cfg, err := config.Load(config.SettingsPath())
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(context.Background(), cfg, zl); err != nil {
		zl.Error("clinic stopped", zap.Error(err))
		zl.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, zl *zap.Logger) error {
	shutdownTracing := otel.Init(cfg.TracingEnabled, zl)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zl.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	metrics, err := instrumented.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Open the repositories selected by repositoryType
	repos, err := factory.Open(ctx, cfg, zl, metrics)
	if err != nil {
		return fmt.Errorf("open repositories: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			zl.Warn("closing repositories failed", zap.Error(err))
		}
	}()

	if cfg.SeedSampleData {
		if err := seed(ctx, repos.Patients, repos.Appointments, zl); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}

	svc := service.NewClinicService(repos.Patients, repos.Appointments)

	if err := ui.NewConsole(svc, os.Stdin, os.Stdout).Run(ctx); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	ui.PrintReports(ctx, svc, os.Stdout)

	logOperationTotals(zl, reg)
	return nil
}
