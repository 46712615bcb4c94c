package service

import (
	"context"
	"time"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	now            func() time.Time
}

func NewTaskService(taskRepository ports.TaskRepository) *TaskService {
	return &TaskService{taskRepository: taskRepository, now: time.Now}
}

// WithClock replaces the clock used to stamp completions.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.taskRepository.ListTasks(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	return s.taskRepository.GetTask(ctx, id)
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	return s.taskRepository.CreateTask(ctx, withCreateDefaults(input))
}

func (s *TaskService) CreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error) {
	if len(inputs) == 0 {
		return []domain.Task{}, nil
	}

	prepared := make([]domain.CreateTaskInput, 0, len(inputs))
	for _, input := range inputs {
		prepared = append(prepared, withCreateDefaults(input))
	}
	return s.taskRepository.CreateTasks(ctx, prepared)
}

// UpdateTask stamps the completion time when the status moves to completed
// and clears it when the status moves anywhere else.
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	if input.Status != nil {
		input.CompletedSet = true
		input.CompletedAt = nil
		if *input.Status == domain.TaskStatusCompleted {
			now := s.now().UTC()
			input.CompletedAt = &now
		}
	}
	return s.taskRepository.UpdateTask(ctx, id, input)
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	return s.taskRepository.DeleteTask(ctx, id)
}

func (s *TaskService) TaskStats(ctx context.Context) (domain.TaskStats, error) {
	return s.taskRepository.TaskStats(ctx)
}

func (s *TaskService) ListAssignees(ctx context.Context) ([]string, error) {
	return s.taskRepository.ListAssignees(ctx)
}

func withCreateDefaults(input domain.CreateTaskInput) domain.CreateTaskInput {
	if !input.Priority.Valid() {
		input.Priority = domain.DefaultPriority
	}
	if !input.Status.Valid() {
		input.Status = domain.TaskStatusPending
	}
	return input
}

var _ ports.TaskService = (*TaskService)(nil)
