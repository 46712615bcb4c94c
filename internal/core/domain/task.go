package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"

	DefaultPriority = PriorityP3
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// Task is a persisted task owned by the task store.
type Task struct {
	ID          uint64
	Name        string
	Description *string
	Assignee    string
	DueDate     string
	Priority    Priority
	Status      TaskStatus
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// TaskCandidate is a validated task extracted from free text that has not
// been given an identifier yet.
type TaskCandidate struct {
	Name        string
	Assignee    string
	DueDate     string
	Priority    Priority
	Status      TaskStatus
	Description string
}

type CreateTaskInput struct {
	Name        string
	Description *string
	Assignee    string
	DueDate     string
	Priority    Priority
	Status      TaskStatus
}

type UpdateTaskInput struct {
	Name           *string
	Description    *string
	DescriptionSet bool
	Assignee       *string
	DueDate        *string
	Priority       *Priority
	Status         *TaskStatus

	// CompletedAt is applied only when CompletedSet is true. A nil value
	// clears the completion stamp; an existing stamp is kept otherwise.
	CompletedAt  *time.Time
	CompletedSet bool
}

func (in UpdateTaskInput) Empty() bool {
	return in.Name == nil &&
		!in.DescriptionSet &&
		in.Assignee == nil &&
		in.DueDate == nil &&
		in.Priority == nil &&
		in.Status == nil
}

// TaskFilter narrows a task listing. Nil fields are not applied.
type TaskFilter struct {
	Priority *Priority
	Assignee *string
	Status   *TaskStatus
}

type TaskStats struct {
	Total     int
	Completed int
	Pending   int
}

// CreateInputFromCandidate turns a parsed candidate into a store input.
func CreateInputFromCandidate(c TaskCandidate) CreateTaskInput {
	in := CreateTaskInput{
		Name:     c.Name,
		Assignee: c.Assignee,
		DueDate:  c.DueDate,
		Priority: c.Priority,
		Status:   c.Status,
	}
	if c.Description != "" {
		description := c.Description
		in.Description = &description
	}
	if !in.Priority.Valid() {
		in.Priority = DefaultPriority
	}
	if !in.Status.Valid() {
		in.Status = TaskStatusPending
	}
	return in
}
