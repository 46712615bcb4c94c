package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs
// to gin's validator engine.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		err = engine.RegisterValidation("notblank", validators.NotBlank)
	})
	return err
}

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	name := strings.TrimSpace(req.Name)
	assignee := strings.TrimSpace(req.Assignee)
	dueDate := strings.TrimSpace(req.DueDate)
	if name == "" || assignee == "" || dueDate == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	priority := domain.DefaultPriority
	if req.Priority != nil {
		priority = domain.Priority(*req.Priority)
		if !priority.Valid() {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
	}

	status := domain.TaskStatusPending
	if req.Status != nil {
		status = domain.TaskStatus(*req.Status)
		if !status.Valid() {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
	}

	return domain.CreateTaskInput{
		Name:        name,
		Description: req.Description,
		Assignee:    assignee,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      status,
	}, nil
}

func BuildCreateTaskInputs(reqs []dto.CreateTaskRequest) ([]domain.CreateTaskInput, error) {
	if len(reqs) == 0 {
		return nil, ErrInvalidTaskPayload
	}

	inputs := make([]domain.CreateTaskInput, 0, len(reqs))
	for _, req := range reqs {
		input, err := BuildCreateTaskInput(req)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// BuildUpdateTaskInput validates a PATCH body. raw is the same body decoded
// as a map so that explicit nulls can be told apart from absent fields.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	name, err := trimmedField(raw, "name", req.Name)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}
	assignee, err := trimmedField(raw, "assignee", req.Assignee)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}
	dueDate, err := trimmedField(raw, "dueDate", req.DueDate)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}

	var priority *domain.Priority
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Priority != nil {
		value := domain.Priority(*req.Priority)
		if !value.Valid() {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		priority = &value
	}

	var status *domain.TaskStatus
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Status != nil {
		value := domain.TaskStatus(*req.Status)
		if !value.Valid() {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		status = &value
	}

	descriptionSet := hasJSONField(raw, "description")
	if descriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.UpdateTaskInput{
		Name:           name,
		Description:    req.Description,
		DescriptionSet: descriptionSet,
		Assignee:       assignee,
		DueDate:        dueDate,
		Priority:       priority,
		Status:         status,
	}, nil
}

func trimmedField(raw map[string]json.RawMessage, field string, value *string) (*string, error) {
	if hasJSONField(raw, field) && value == nil {
		return nil, ErrInvalidTaskPayload
	}
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, ErrInvalidTaskPayload
	}
	return &trimmed, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "name") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "assignee") ||
		hasJSONField(raw, "dueDate") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "status")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
