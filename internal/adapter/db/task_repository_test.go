package db

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"taskflow/internal/config"
	"taskflow/internal/core/domain"
)

func newTestRepository(t *testing.T) (*TaskRepository, *sqlx.DB) {
	t.Helper()

	db, err := ConnectDB(&config.Config{DbDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))

	repo := NewTaskRepository(db)
	repo.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	return repo, db
}

func createTask(t *testing.T, repo *TaskRepository, name, assignee string, priority domain.Priority) domain.Task {
	t.Helper()

	task, err := repo.CreateTask(context.Background(), domain.CreateTaskInput{
		Name:     name,
		Assignee: assignee,
		DueDate:  "2026-10-20T09:30:00.000Z",
		Priority: priority,
		Status:   domain.TaskStatusPending,
	})
	require.NoError(t, err)
	return task
}

func TestTaskRepository_CreateTask(t *testing.T) {
	repo, _ := newTestRepository(t)
	description := "quarterly numbers"

	task, err := repo.CreateTask(context.Background(), domain.CreateTaskInput{
		Name:        "Prepare report",
		Description: &description,
		Assignee:    "Aman",
		DueDate:     "tonight",
	})
	require.NoError(t, err)

	require.NotZero(t, task.ID)
	require.Equal(t, "Prepare report", task.Name)
	require.Equal(t, "Aman", task.Assignee)
	require.Equal(t, "tonight", task.DueDate)
	require.Equal(t, domain.PriorityP3, task.Priority)
	require.Equal(t, domain.TaskStatusPending, task.Status)
	require.NotNil(t, task.Description)
	require.Equal(t, "quarterly numbers", *task.Description)
	require.Nil(t, task.CompletedAt)
	require.Equal(t, 2026, task.CreatedAt.Year())
}

func TestTaskRepository_CreateTask_CompletedIsStamped(t *testing.T) {
	repo, _ := newTestRepository(t)

	task, err := repo.CreateTask(context.Background(), domain.CreateTaskInput{
		Name:     "Done already",
		Assignee: "Rajeev",
		DueDate:  "2026-10-19",
		Priority: domain.PriorityP1,
		Status:   domain.TaskStatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
}

func TestTaskRepository_ListTasks_NewestFirstAndFilters(t *testing.T) {
	repo, _ := newTestRepository(t)
	first := createTask(t, repo, "Write docs", "Aman", domain.PriorityP1)
	second := createTask(t, repo, "Fix login", "Rajeev", domain.PriorityP2)
	third := createTask(t, repo, "Review PR", "Aman", domain.PriorityP2)

	all, err := repo.ListTasks(context.Background(), domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []uint64{third.ID, second.ID, first.ID}, []uint64{all[0].ID, all[1].ID, all[2].ID})

	priority := domain.PriorityP2
	assignee := "Aman"
	filtered, err := repo.ListTasks(context.Background(), domain.TaskFilter{Priority: &priority, Assignee: &assignee})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, third.ID, filtered[0].ID)

	status := domain.TaskStatusCompleted
	none, err := repo.ListTasks(context.Background(), domain.TaskFilter{Status: &status})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTaskRepository_GetTask_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.GetTask(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepository_CreateTasks_IsAtomic(t *testing.T) {
	repo, db := newTestRepository(t)

	tasks, err := repo.CreateTasks(context.Background(), []domain.CreateTaskInput{
		{Name: "A", Assignee: "Aman", DueDate: "tonight", Priority: domain.PriorityP1, Status: domain.TaskStatusPending},
		{Name: "B", Assignee: "Rajeev", DueDate: "Monday", Priority: domain.PriorityP3, Status: domain.TaskStatusPending},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "A", tasks[0].Name)
	require.Equal(t, "B", tasks[1].Name)

	_, err = db.Exec("CREATE TRIGGER reject_c BEFORE INSERT ON tasks WHEN NEW.name = 'C' BEGIN SELECT RAISE(ABORT, 'rejected'); END")
	require.NoError(t, err)

	_, err = repo.CreateTasks(context.Background(), []domain.CreateTaskInput{
		{Name: "D", Assignee: "Aman", DueDate: "tonight", Priority: domain.PriorityP1, Status: domain.TaskStatusPending},
		{Name: "C", Assignee: "Aman", DueDate: "tonight", Priority: domain.PriorityP1, Status: domain.TaskStatusPending},
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM tasks"))
	require.Equal(t, 2, count)
}

func TestTaskRepository_UpdateTask(t *testing.T) {
	repo, _ := newTestRepository(t)
	task := createTask(t, repo, "Write docs", "Aman", domain.PriorityP3)

	name := "Write better docs"
	status := domain.TaskStatusCompleted
	stamp := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	updated, err := repo.UpdateTask(context.Background(), task.ID, domain.UpdateTaskInput{
		Name:         &name,
		Status:       &status,
		CompletedAt:  &stamp,
		CompletedSet: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Write better docs", updated.Name)
	require.Equal(t, domain.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	require.True(t, stamp.Equal(*updated.CompletedAt))

	later := stamp.Add(time.Hour)
	again, err := repo.UpdateTask(context.Background(), task.ID, domain.UpdateTaskInput{
		Status:       &status,
		CompletedAt:  &later,
		CompletedSet: true,
	})
	require.NoError(t, err)
	require.True(t, stamp.Equal(*again.CompletedAt))

	pending := domain.TaskStatusPending
	reopened, err := repo.UpdateTask(context.Background(), task.ID, domain.UpdateTaskInput{
		Status:       &pending,
		CompletedSet: true,
	})
	require.NoError(t, err)
	require.Nil(t, reopened.CompletedAt)
}

func TestTaskRepository_UpdateTask_ClearsDescription(t *testing.T) {
	repo, _ := newTestRepository(t)
	description := "draft"
	task, err := repo.CreateTask(context.Background(), domain.CreateTaskInput{
		Name: "Call", Assignee: "Aman", DueDate: "today", Description: &description,
	})
	require.NoError(t, err)

	updated, err := repo.UpdateTask(context.Background(), task.ID, domain.UpdateTaskInput{DescriptionSet: true})
	require.NoError(t, err)
	require.Nil(t, updated.Description)
}

func TestTaskRepository_UpdateTask_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)
	name := "x"

	_, err := repo.UpdateTask(context.Background(), 999, domain.UpdateTaskInput{Name: &name})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepository_DeleteTask(t *testing.T) {
	repo, _ := newTestRepository(t)
	task := createTask(t, repo, "Write docs", "Aman", domain.PriorityP3)

	require.NoError(t, repo.DeleteTask(context.Background(), task.ID))
	require.ErrorIs(t, repo.DeleteTask(context.Background(), task.ID), domain.ErrTaskNotFound)
}

func TestTaskRepository_TaskStatsAndAssignees(t *testing.T) {
	repo, _ := newTestRepository(t)

	stats, err := repo.TaskStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.TaskStats{}, stats)

	createTask(t, repo, "Write docs", "Rajeev", domain.PriorityP3)
	task := createTask(t, repo, "Fix login", "Aman", domain.PriorityP1)
	createTask(t, repo, "Review", "Aman", domain.PriorityP2)

	status := domain.TaskStatusCompleted
	_, err = repo.UpdateTask(context.Background(), task.ID, domain.UpdateTaskInput{Status: &status})
	require.NoError(t, err)

	stats, err = repo.TaskStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.TaskStats{Total: 3, Completed: 1, Pending: 2}, stats)

	assignees, err := repo.ListAssignees(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Aman", "Rajeev"}, assignees)
}

func TestMigrations_RollbackAndReapply(t *testing.T) {
	_, db := newTestRepository(t)

	require.NoError(t, Rollback(context.Background(), db))
	_, err := db.Exec("SELECT 1 FROM tasks")
	require.Error(t, err)

	require.NoError(t, Migrate(context.Background(), db))
	_, err = db.Exec("SELECT 1 FROM tasks")
	require.NoError(t, err)
}
