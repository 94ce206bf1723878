package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"

	"task-store/internal/domain"
	"task-store/internal/repository/instrumented"
	"task-store/internal/repository/memory"
	"task-store/internal/repository/postgres"
	"task-store/internal/repository/sqlite"
)

// Migrator is implemented by the relational repositories.
type Migrator interface {
	Migrate(ctx context.Context) error
	RollbackLatest(ctx context.Context) (int, error)
	Pending(ctx context.Context) ([]int, error)
}

// Store is an open repository together with its lifecycle hooks.
type Store struct {
	Repository domain.TaskRepository
	// Migrator is nil for the memory driver.
	Migrator Migrator
	closer   func() error
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// CreateRepository opens the store selected by config. The repository is
// wrapped with tracing and metrics taken from the global otel providers.
func CreateRepository(ctx context.Context, config *Config, logger *slog.Logger) (*Store, error) {
	var (
		repo     domain.TaskRepository
		migrator Migrator
		closer   func() error
	)

	switch config.Database.Driver {
	case DriverSQLite:
		if err := os.MkdirAll(config.Database.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		r, err := sqlite.New(ctx, config.GetDatabasePath(), sqlite.WithMaxOpenConns(config.Database.MaxConns))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo, migrator, closer = r, r, r.Close

	case DriverPostgres:
		r, err := postgres.New(ctx, postgres.Config{
			URL:      config.Database.URL,
			MaxConns: int32(config.Database.MaxConns),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo, migrator, closer = r, r, r.Close

	case DriverMemory:
		r := memory.New()
		repo, closer = r, r.Close

	default:
		return nil, &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", config.Database.Driver)}
	}

	wrapped, err := instrumented.New(repo, otel.GetTracerProvider(), otel.GetMeterProvider(), logger)
	if err != nil {
		closer()
		return nil, fmt.Errorf("failed to instrument repository: %w", err)
	}

	logger.Debug("task store opened", slog.String("driver", config.Database.Driver))
	return &Store{Repository: wrapped, Migrator: migrator, closer: closer}, nil
}
