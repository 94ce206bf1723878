// Package repositorytest holds the behaviour every domain.TaskRepository
// implementation must show. Implementations call Run from their own tests.
package repositorytest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
)

// Factory returns an empty repository. It is called once per subtest and
// should register its own cleanup on t.
type Factory func(t *testing.T) domain.TaskRepository

// Run executes the full contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo domain.TaskRepository)
	}{
		{"CreateThenFindByID", testCreateThenFindByID},
		{"FindByIDMissing", testFindByIDMissing},
		{"FindAllEmpty", testFindAllEmpty},
		{"FindAllOrderedByID", testFindAllOrderedByID},
		{"CreateDuplicate", testCreateDuplicate},
		{"UpdateExisting", testUpdateExisting},
		{"UpdateMissing", testUpdateMissing},
		{"DeleteExisting", testDeleteExisting},
		{"DeleteMissing", testDeleteMissing},
		{"StatusBoundaries", testStatusBoundaries},
		{"TextRoundTrip", testTextRoundTrip},
		{"ZeroTaskRejected", testZeroTaskRejected},
		{"CanceledContext", testCanceledContext},
		{"ConcurrentCreates", testConcurrentCreates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newRepo(t))
		})
	}
}

// MustTask builds a Task from literals and fails the test when they are invalid.
func MustTask(t *testing.T, id, body, status string) domain.Task {
	t.Helper()
	task, err := domain.ParseTask(id, body, status)
	require.NoError(t, err)
	return task
}

func testCreateThenFindByID(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	task := MustTask(t, "task 1", "description", "05")

	require.NoError(t, repo.Create(ctx, task))

	found, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, task, *found)
}

func testFindByIDMissing(t *testing.T, repo domain.TaskRepository) {
	found, err := repo.FindByID(context.Background(), domain.MustTaskID("missing"))
	require.NoError(t, err)
	assert.Nil(t, found)
}

func testFindAllEmpty(t *testing.T, repo domain.TaskRepository) {
	tasks, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func testFindAllOrderedByID(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, repo.Create(ctx, MustTask(t, id, "body "+id, "s")))
	}

	tasks, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID().Value())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, MustTask(t, "a", "body a", "s"), tasks[0])
}

func testCreateDuplicate(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	original := MustTask(t, "dup", "first", "01")
	require.NoError(t, repo.Create(ctx, original))

	err := repo.Create(ctx, MustTask(t, "dup", "second", "02"))
	require.Error(t, err)
	assert.True(t, apperrors.IsInfrastructure(err), "got %v", err)

	found, err := repo.FindByID(ctx, original.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, original, *found)
}

func testUpdateExisting(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, MustTask(t, "t", "before", "01")))

	updated := MustTask(t, "t", "after", "02")
	require.NoError(t, repo.Update(ctx, updated))

	found, err := repo.FindByID(ctx, updated.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, updated, *found)
}

func testUpdateMissing(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	task := MustTask(t, "ghost", "body", "01")

	err := repo.Update(ctx, task)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)

	found, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	assert.Nil(t, found, "update must not create a row")
}

func testDeleteExisting(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	task := MustTask(t, "gone", "body", "01")
	require.NoError(t, repo.Create(ctx, task))

	deleted, err := repo.Delete(ctx, task.ID())
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func testDeleteMissing(t *testing.T, repo domain.TaskRepository) {
	deleted, err := repo.Delete(context.Background(), domain.MustTaskID("never"))
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testStatusBoundaries(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	for i, status := range []string{"", "1", "12", "éé"} {
		task := MustTask(t, fmt.Sprintf("status-%d", i), "body", status)
		require.NoError(t, repo.Create(ctx, task))

		found, err := repo.FindByID(ctx, task.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, status, found.Status().Value())
	}
}

func testTextRoundTrip(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	task := MustTask(t, "  padded id  ", "multi\nline body with ünïcödé and 'quotes'; DROP TABLE task;", "")
	require.NoError(t, repo.Create(ctx, task))

	found, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, task, *found)

	other, err := repo.FindByID(ctx, domain.MustTaskID("padded id"))
	require.NoError(t, err)
	assert.Nil(t, other, "ids are stored verbatim")
}

func testZeroTaskRejected(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()

	err := repo.Create(ctx, domain.Task{})
	assert.True(t, apperrors.IsValidation(err), "got %v", err)

	err = repo.Update(ctx, domain.Task{})
	assert.True(t, apperrors.IsValidation(err), "got %v", err)
}

func testCanceledContext(t *testing.T, repo domain.TaskRepository) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := MustTask(t, "canceled", "body", "01")
	err := repo.Create(ctx, task)
	require.Error(t, err)
	assert.True(t, apperrors.IsInfrastructure(err), "got %v", err)

	found, err := repo.FindByID(context.Background(), task.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func testConcurrentCreates(t *testing.T, repo domain.TaskRepository) {
	ctx := context.Background()
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := domain.ParseTask(fmt.Sprintf("worker-%02d", i), "body", "01")
			if err != nil {
				errs <- err
				return
			}
			errs <- repo.Create(ctx, task)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	tasks, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, workers)
}
