package tests

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taskflow/internal/core/domain"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error) {
	args := m.Called(ctx, inputs)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *taskServiceMock) TaskStats(ctx context.Context) (domain.TaskStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.TaskStats), args.Error(1)
}

func (m *taskServiceMock) ListAssignees(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	var assignees []string
	if value := args.Get(0); value != nil {
		assignees = value.([]string)
	}
	return assignees, args.Error(1)
}

type taskParserMock struct {
	mock.Mock
}

func (m *taskParserMock) ParseOne(ctx context.Context, text string, reference time.Time) (domain.TaskCandidate, error) {
	args := m.Called(ctx, text, reference)
	return args.Get(0).(domain.TaskCandidate), args.Error(1)
}

func (m *taskParserMock) ParseMany(ctx context.Context, transcript string) ([]domain.TaskCandidate, error) {
	args := m.Called(ctx, transcript)

	var candidates []domain.TaskCandidate
	if value := args.Get(0); value != nil {
		candidates = value.([]domain.TaskCandidate)
	}
	return candidates, args.Error(1)
}
