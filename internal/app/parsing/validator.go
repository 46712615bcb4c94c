package parsing

import (
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"taskflow/internal/core/domain"
)

const (
	DefaultTaskName = "Unnamed task"
	DefaultAssignee = "Unassigned"

	defaultDueOffset = 24 * time.Hour
)

var batchRequiredFields = []string{"name", "assignee", "dueDate"}

// ValidateSingle fills every missing field of a single parsed task. It never
// fails: a value that is not an object is treated as an empty one.
func ValidateSingle(value gjson.Result, reference time.Time) domain.TaskCandidate {
	if !value.IsObject() {
		value = gjson.Result{}
	}

	return domain.TaskCandidate{
		Name:        stringOr(value.Get("name"), DefaultTaskName),
		Assignee:    stringOr(value.Get("assignee"), DefaultAssignee),
		DueDate:     stringOr(value.Get("dueDate"), formatISO(reference.Add(defaultDueOffset))),
		Priority:    priorityOf(value.Get("priority")),
		Status:      domain.TaskStatusPending,
		Description: stringOr(value.Get("description"), ""),
	}
}

// ValidateBatch checks a transcript extraction. Unlike ValidateSingle it
// refuses elements without name, assignee or dueDate instead of defaulting
// them.
func ValidateBatch(value gjson.Result) ([]domain.TaskCandidate, error) {
	if !value.IsArray() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrShape, typeName(value))
	}

	elements := value.Array()
	candidates := make([]domain.TaskCandidate, 0, len(elements))
	for i, element := range elements {
		for _, field := range batchRequiredFields {
			if !truthy(element.Get(field)) {
				return nil, &domain.MissingFieldError{Index: i, Field: field}
			}
		}

		candidates = append(candidates, domain.TaskCandidate{
			Name:     element.Get("name").String(),
			Assignee: element.Get("assignee").String(),
			DueDate:  element.Get("dueDate").String(),
			Priority: priorityOf(element.Get("priority")),
			Status:   domain.TaskStatusPending,
		})
	}

	return candidates, nil
}

// truthy follows the falsy set of the JSON producer side: absent, null,
// false, 0, NaN and the empty string.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0 && !math.IsNaN(r.Num)
	case gjson.String:
		return r.Str != ""
	default:
		return true
	}
}

func stringOr(r gjson.Result, fallback string) string {
	if !truthy(r) {
		return fallback
	}
	return r.String()
}

func priorityOf(r gjson.Result) domain.Priority {
	if r.Type != gjson.String {
		return domain.DefaultPriority
	}
	p := domain.Priority(r.Str)
	if !p.Valid() {
		return domain.DefaultPriority
	}
	return p
}

func typeName(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
