package ports

import (
	"context"
	"time"

	"taskflow/internal/core/domain"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	CreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id uint64) error
	TaskStats(ctx context.Context) (domain.TaskStats, error)
	ListAssignees(ctx context.Context) ([]string, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	CreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id uint64) error
	TaskStats(ctx context.Context) (domain.TaskStats, error)
	ListAssignees(ctx context.Context) ([]string, error)
}

// Generator sends a fully formed prompt to a text generation provider and
// returns the raw completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type TaskParser interface {
	ParseOne(ctx context.Context, text string, reference time.Time) (domain.TaskCandidate, error)
	ParseMany(ctx context.Context, transcript string) ([]domain.TaskCandidate, error)
}
