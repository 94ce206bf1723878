package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"task-store/internal/cli"
	"task-store/internal/config"
	"task-store/internal/logging"
	"task-store/internal/services"
	"task-store/internal/telemetry"
)

// stderr receives logs and stdout telemetry exports. Tests replace it.
var stderr io.Writer = os.Stderr

// bootstrap wires the logger, telemetry, store and task service for one
// command invocation.
func bootstrap(ctx context.Context, cfg *config.Config) (*cli.Runtime, error) {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	slog.SetDefault(logger)

	shutdownTelemetry := telemetry.ShutdownFunc(func(context.Context) error { return nil })
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, telemetry.Options{
			ServiceName: cfg.Telemetry.ServiceName,
			Exporter:    cfg.Telemetry.Exporter,
			Endpoint:    cfg.Telemetry.Endpoint,
			Writer:      stderr,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing telemetry: %w", err)
		}
		shutdownTelemetry = shutdown
	}

	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)

	do.Provide(injector, func(i do.Injector) (*config.Store, error) {
		return config.CreateRepository(ctx, do.MustInvoke[*config.Config](i), do.MustInvoke[*slog.Logger](i))
	})
	do.Provide(injector, func(i do.Injector) (services.TaskService, error) {
		store := do.MustInvoke[*config.Store](i)
		return services.NewTaskService(store.Repository, do.MustInvoke[*slog.Logger](i)), nil
	})

	service, err := do.Invoke[services.TaskService](injector)
	if err != nil {
		_ = shutdownTelemetry(context.Background())
		return nil, fmt.Errorf("resolving task service: %w", err)
	}
	store := do.MustInvoke[*config.Store](injector)

	return &cli.Runtime{
		Service:  service,
		Logger:   logger,
		Migrator: store.Migrator,
		Close: func() error {
			return errors.Join(store.Close(), shutdownTelemetry(context.Background()))
		},
	}, nil
}
