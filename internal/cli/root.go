package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"task-store/internal/config"
	"task-store/internal/logging"
	"task-store/internal/services"
)

// Bootstrap opens the store and services for a loaded configuration.
type Bootstrap func(ctx context.Context, cfg *config.Config) (*Runtime, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	bootstrap Bootstrap
	config    *config.Config
	runtime   *Runtime
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(bootstrap Bootstrap) *RootCommand {
	root := &RootCommand{bootstrap: bootstrap}

	root.cmd = &cobra.Command{
		Use:   "taskctl",
		Short: "Store and inspect tasks",
		Long: `taskctl manages tasks held in SQLite, PostgreSQL or memory.

A task has an id, a free-text body and a status of at most two characters.

EXAMPLES:
  taskctl create --body "write release notes" --status NW
  taskctl list --output json
  taskctl update task-1 --status OK
  taskctl delete task-1
  taskctl migrate --down
  taskctl migrate --status

CONFIGURATION:
  Priority order: command-line flags > TASKS_* environment variables > config file > defaults

    TASKS_CONFIG_FILE                YAML config file
    TASKS_DATABASE_DRIVER            sqlite, postgres or memory (default: sqlite)
    TASKS_DATABASE_DIR               SQLite directory (default: ~/.tasks)
    TASKS_DATABASE_FILENAME          SQLite filename (default: tasks.db)
    TASKS_DATABASE_URL               PostgreSQL URL (falls back to DATABASE_URL)
    TASKS_DATABASE_MAX_CONNS         Connection pool size (default: 5)
    TASKS_DATABASE_QUERY_TIMEOUT     Per-command deadline (default: 10s)
    TASKS_LOG_LEVEL                  debug, info, warn or error (default: info)
    TASKS_LOG_FORMAT                 text or json (default: text)
    TASKS_TELEMETRY_ENABLED          Export traces and metrics (default: false)
    TASKS_TELEMETRY_EXPORTER         stdout or otlp (default: stdout)
    TASKS_TELEMETRY_ENDPOINT         OTLP/HTTP collector URL`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipBootstrap(cmd) {
				return nil
			}
			return root.setup(cmd.Context())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetOutput redirects command output and cobra's own messages
func (r *RootCommand) SetOutput(out, errOut io.Writer) {
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

// Execute runs the command line given by args and releases the runtime
// afterwards.
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	err := r.cmd.ExecuteContext(ctx)

	if r.runtime != nil && r.runtime.Close != nil {
		err = errors.Join(err, r.runtime.Close())
	}
	r.runtime = nil
	return err
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (overrides TASKS_CONFIG_FILE)")
	flags.String("driver", "", "Storage driver: sqlite, postgres or memory (overrides TASKS_DATABASE_DRIVER)")
	flags.String("db-dir", "", "SQLite directory (overrides TASKS_DATABASE_DIR)")
	flags.String("db-file", "", "SQLite filename (overrides TASKS_DATABASE_FILENAME)")
	flags.String("database-url", "", "PostgreSQL URL (overrides TASKS_DATABASE_URL)")
	flags.Duration("query-timeout", 0, "Per-command deadline (overrides TASKS_DATABASE_QUERY_TIMEOUT)")
	flags.String("log-level", "", "Log level (overrides TASKS_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: text or json (overrides TASKS_LOG_FORMAT)")
	flags.StringP("output", "o", FormatTable, "Output format: table or json")
}

func (r *RootCommand) addSubcommands() {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Long:  "Create a task. When --id is omitted a task-<uuid> id is generated.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			body, _ := cmd.Flags().GetString("body")
			status, _ := cmd.Flags().GetString("status")
			return r.run(cmd, func(ctx context.Context, app *App) error {
				return NewCreateCommand(app).Execute(ctx, services.CreateTaskInput{ID: id, Body: body, Status: status})
			})
		},
	}
	createCmd.Flags().String("id", "", "Task id")
	createCmd.Flags().String("body", "", "Task body")
	createCmd.Flags().String("status", "", "Task status, at most two characters")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				return NewGetCommand(app).Execute(ctx, args[0])
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				return NewListCommand(app).Execute(ctx)
			})
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change body and/or status of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.UpdateTaskInput{
				Body:   changedString(cmd.Flags(), "body"),
				Status: changedString(cmd.Flags(), "status"),
			}
			return r.run(cmd, func(ctx context.Context, app *App) error {
				return NewUpdateCommand(app).Execute(ctx, args[0], input)
			})
		},
	}
	updateCmd.Flags().String("body", "", "New task body")
	updateCmd.Flags().String("status", "", "New task status")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				return NewDeleteCommand(app).Execute(ctx, args[0])
			})
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long:  "Apply pending schema migrations, roll back the newest one with --down, or list unapplied versions with --status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			down, _ := cmd.Flags().GetBool("down")
			status, _ := cmd.Flags().GetBool("status")
			return r.run(cmd, func(ctx context.Context, app *App) error {
				if status {
					return NewMigrateCommand(app).Status(ctx)
				}
				return NewMigrateCommand(app).Execute(ctx, down)
			})
		},
	}
	migrateCmd.Flags().Bool("down", false, "Roll back the most recent migration")
	migrateCmd.Flags().Bool("status", false, "List migrations that have not been applied")
	migrateCmd.MarkFlagsMutuallyExclusive("down", "status")

	r.cmd.AddCommand(createCmd, getCmd, listCmd, updateCmd, deleteCmd, migrateCmd)
}

// setup loads configuration with flag overrides and bootstraps the runtime
func (r *RootCommand) setup(ctx context.Context) error {
	flags := r.cmd.PersistentFlags()

	var opts []config.LoaderOption
	if path, _ := flags.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	cfg, err := config.NewLoader(opts...).LoadWithOverrides(r.overrides())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	rt, err := r.bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	r.runtime = rt
	return nil
}

func (r *RootCommand) overrides() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()

	o := &config.ConfigOverrides{
		Driver:     changedString(flags, "driver"),
		DBDir:      changedString(flags, "db-dir"),
		DBFilename: changedString(flags, "db-file"),
		DBURL:      changedString(flags, "database-url"),
		LogLevel:   changedString(flags, "log-level"),
		LogFormat:  changedString(flags, "log-format"),
	}
	if flags.Changed("query-timeout") {
		timeout, _ := flags.GetDuration("query-timeout")
		o.DBQueryTimeout = &timeout
	}
	return o
}

// run executes fn under the configured query timeout with the runtime
// logger, tagged with the command name, attached to the context.
func (r *RootCommand) run(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	format, _ := cmd.Flags().GetString("output")
	app, err := NewApp(r.runtime, cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), r.config.GetQueryTimeout())
	defer cancel()
	if r.runtime.Logger != nil {
		ctx = logging.WithLogger(ctx, r.runtime.Logger.With(slog.String("command", cmd.Name())))
	}

	return fn(ctx, app)
}

// changedString returns the flag value only when it was set on the command
// line, so an explicit empty string still counts.
func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}

// skipBootstrap reports commands that never touch the store.
func skipBootstrap(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "completion", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}
