package mapper

import (
	"time"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/core/domain"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID,
		Name:      task.Name,
		Assignee:  task.Assignee,
		DueDate:   task.DueDate,
		Priority:  string(task.Priority),
		Status:    string(task.Status),
		CreatedAt: formatTimestamp(task.CreatedAt),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.CompletedAt != nil {
		value := formatTimestamp(*task.CompletedAt)
		item.Completed = &value
	}

	return item
}

func ToTaskCandidates(candidates []domain.TaskCandidate) []dto.TaskCandidate {
	items := make([]dto.TaskCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, ToTaskCandidate(candidate))
	}
	return items
}

func ToTaskCandidate(candidate domain.TaskCandidate) dto.TaskCandidate {
	return dto.TaskCandidate{
		Name:        candidate.Name,
		Assignee:    candidate.Assignee,
		DueDate:     candidate.DueDate,
		Priority:    string(candidate.Priority),
		Description: candidate.Description,
		Status:      string(candidate.Status),
	}
}

func ToTaskStats(stats domain.TaskStats) dto.TaskStats {
	return dto.TaskStats{
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending,
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
