// Package postgres implements domain.TaskRepository on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
	"task-store/internal/repository/migrations"
)

const (
	selectTaskByID = `SELECT id, body, status FROM task WHERE id = $1`
	selectAllTasks = `SELECT id, body, status FROM task ORDER BY id COLLATE "C" ASC`
	insertTask     = `INSERT INTO task (id, body, status) VALUES ($1, $2, $3)`
	updateTask     = `UPDATE task SET body = $2, status = $3 WHERE id = $1`
	deleteTask     = `DELETE FROM task WHERE id = $1`
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresRepository implements domain.TaskRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ domain.TaskRepository = (*PostgresRepository)(nil)

// Config holds pool settings.
type Config struct {
	URL      string
	MaxConns int32
}

// New connects to the database, verifies the connection and applies
// pending migrations.
func New(ctx context.Context, cfg Config) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("parse database url", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("open pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewInfrastructureError("ping database", err)
	}

	repo := NewFromPool(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewInfrastructureError("run migrations", err)
	}
	return repo, nil
}

// NewFromPool wraps an existing pool. The schema is assumed to exist.
func NewFromPool(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Close releases every pooled connection.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Migrate applies pending schema migrations.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()
	return migrations.RunMigrations(ctx, db, migrations.Postgres)
}

// Pending lists the migration versions not yet applied.
func (r *PostgresRepository) Pending(ctx context.Context) ([]int, error) {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()
	return migrations.Pending(ctx, db, migrations.Postgres)
}

// RollbackLatest reverts the most recent schema migration.
func (r *PostgresRepository) RollbackLatest(ctx context.Context) (int, error) {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()
	return migrations.RollbackLatest(ctx, db, migrations.Postgres)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, handleError("acquire connection for find task", err)
	}
	defer conn.Release()

	var row taskRow
	err = conn.QueryRow(ctx, selectTaskByID, id.Value()).Scan(&row.ID, &row.Body, &row.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, handleError("find task", err)
	}

	task, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, handleError("acquire connection for list tasks", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, selectAllTasks)
	if err != nil {
		return nil, handleError("list tasks", err)
	}

	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, handleError("list tasks", err)
	}
	return tasks, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task domain.Task) error {
	if task.IsZero() {
		return apperrors.NewValidationError("task", "must not be the zero task", nil)
	}
	row := rowFromTask(task)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertTask, row.ID, row.Body, row.Status)
		return err
	})
	return handleError("create task", err)
}

func (r *PostgresRepository) Update(ctx context.Context, task domain.Task) error {
	if task.IsZero() {
		return apperrors.NewValidationError("task", "must not be the zero task", nil)
	}
	row := rowFromTask(task)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateTask, row.ID, row.Body, row.Status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("task", row.ID)
		}
		return nil
	})
	return handleError("update task", err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	var deleted bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteTask, id.Value())
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, handleError("delete task", err)
	}
	return deleted, nil
}

func handleError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isPgDuplicateKeyError(err) {
		return apperrors.NewInfrastructureError(operation, err).WithContext("constraint", "unique")
	}
	return apperrors.WrapInfrastructure(operation, err)
}

func isPgDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
