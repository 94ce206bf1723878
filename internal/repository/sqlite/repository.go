package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
	"task-store/internal/repository/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const (
	selectTaskByID = `SELECT id, body, status FROM task WHERE id = ?`
	selectAllTasks = `SELECT id, body, status FROM task ORDER BY id ASC`
	insertTask     = `INSERT INTO task (id, body, status) VALUES (?, ?, ?)`
	updateTask     = `UPDATE task SET body = ?, status = ? WHERE id = ?`
	deleteTask     = `DELETE FROM task WHERE id = ?`
)

// SQLiteRepository implements domain.TaskRepository on a SQLite database
type SQLiteRepository struct {
	db *sql.DB
}

var _ domain.TaskRepository = (*SQLiteRepository)(nil)

type options struct {
	maxOpenConns int
	busyTimeout  time.Duration
}

// Option configures New.
type Option func(*options)

// WithMaxOpenConns caps the connection pool. Ignored for in-memory databases,
// which always use a single connection.
func WithMaxOpenConns(n int) Option {
	return func(o *options) { o.maxOpenConns = n }
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// New opens the database at dbPath and brings its schema up to date.
func New(ctx context.Context, dbPath string, opts ...Option) (*SQLiteRepository, error) {
	o := options{maxOpenConns: 5, busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		dsn = fileDSN(dbPath, o.busyTimeout)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("open database", err)
	}

	if dbPath == MemoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else if o.maxOpenConns > 0 {
		db.SetMaxOpenConns(o.maxOpenConns)
	}

	if err := migrations.RunMigrations(ctx, db, migrations.SQLite); err != nil {
		db.Close()
		return nil, apperrors.NewInfrastructureError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// fileDSN builds a file: URI for dbPath. The path is escaped so that '?', '#'
// and '%' in directory names are not read as URI syntax.
func fileDSN(dbPath string, busyTimeout time.Duration) string {
	query := url.Values{}
	query.Set("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	query.Set("_txlock", "immediate")
	return "file:" + (&url.URL{Path: dbPath}).EscapedPath() + "?" + query.Encode()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Migrate applies pending schema migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	return migrations.RunMigrations(ctx, r.db, migrations.SQLite)
}

// Pending lists the migration versions not yet applied.
func (r *SQLiteRepository) Pending(ctx context.Context) ([]int, error) {
	return migrations.Pending(ctx, r.db, migrations.SQLite)
}

// RollbackLatest reverts the most recent schema migration.
func (r *SQLiteRepository) RollbackLatest(ctx context.Context) (int, error) {
	return migrations.RollbackLatest(ctx, r.db, migrations.SQLite)
}

// FindByID retrieves a task by ID
func (r *SQLiteRepository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	var task *domain.Task
	err := withConn(ctx, r.db, "find task", func(conn *sql.Conn) error {
		var err error
		task, err = QuerySingle(ctx, conn, selectTaskByID, ScanTask, "find task", id.Value())
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// FindAll retrieves all tasks ordered by id
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := withConn(ctx, r.db, "list tasks", func(conn *sql.Conn) error {
		var err error
		tasks, err = QueryMultiple(ctx, conn, selectAllTasks, ScanTasks, "list tasks")
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create creates a new task
func (r *SQLiteRepository) Create(ctx context.Context, task domain.Task) error {
	if task.IsZero() {
		return apperrors.NewValidationError("task", "must not be the zero task", nil)
	}
	row := rowFromTask(task)
	return withTx(ctx, r.db, "create task", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertTask, row.ID, row.Body, row.Status)
		return err
	})
}

// Update overwrites body and status of an existing task
func (r *SQLiteRepository) Update(ctx context.Context, task domain.Task) error {
	if task.IsZero() {
		return apperrors.NewValidationError("task", "must not be the zero task", nil)
	}
	row := rowFromTask(task)
	return withTx(ctx, r.db, "update task", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, updateTask, row.Body, row.Status, row.ID)
		if err != nil {
			return err
		}
		return ValidateRowsAffected(result, "task", row.ID)
	})
}

// Delete deletes a task by ID and reports whether it existed
func (r *SQLiteRepository) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, "delete task", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, deleteTask, id.Value())
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
