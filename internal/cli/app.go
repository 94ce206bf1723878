package cli

import (
	"io"
	"log/slog"

	"task-store/internal/config"
	"task-store/internal/services"
)

// Runtime is everything a command needs once configuration is loaded. It is
// produced by a Bootstrap function and closed after the command finishes.
type Runtime struct {
	Service services.TaskService
	Logger  *slog.Logger
	// Migrator is nil when the store has no schema (memory driver).
	Migrator config.Migrator
	Close    func() error
}

// App represents the CLI application for one command invocation
type App struct {
	service  services.TaskService
	migrator config.Migrator
	printer  *printer
	errors   *ErrorHandler
}

// NewApp creates a new CLI application writing to out in the given format
func NewApp(rt *Runtime, out io.Writer, format string) (*App, error) {
	p, err := newPrinter(out, format)
	if err != nil {
		return nil, err
	}
	return &App{
		service:  rt.Service,
		migrator: rt.Migrator,
		printer:  p,
		errors:   NewErrorHandler(),
	}, nil
}
