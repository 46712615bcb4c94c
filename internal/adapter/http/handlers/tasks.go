package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/adapter/http/validation"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/pkg/apierrors"
)

const filterAll = "all"

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	filter, ok := parseTaskFilter(c)
	if !ok {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskFilter, lang)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailListTask, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang)
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, apierrors.MsgTaskNotFound, lang)
			return
		}

		zap.L().Error("failed to get task", zap.Uint64("task_id", taskID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailGetTask, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		zap.L().Error("failed to create task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

// CreateTasks stores a reviewed batch of parsed tasks. Nothing is stored
// unless every task is.
func (h *TaskHandler) CreateTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req []dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	inputs, err := validation.BuildCreateTaskInputs(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	tasks, err := h.taskService.CreateTasks(c.Request.Context(), inputs)
	if err != nil {
		zap.L().Error("failed to create tasks", zap.Int("count", len(inputs)), zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailCreateTasks, lang)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, apierrors.MsgTaskNotFound, lang)
			return
		}

		zap.L().Error("failed to update task", zap.Uint64("task_id", taskID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailUpdateTask, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang)
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, apierrors.MsgTaskNotFound, lang)
			return
		}

		zap.L().Error("failed to delete task", zap.Uint64("task_id", taskID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailDeleteTask, lang)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) TaskStats(c *gin.Context) {
	lang := middleware.GetLang(c)

	stats, err := h.taskService.TaskStats(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to compute task stats", zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailTaskStats, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskStats(stats))
}

func (h *TaskHandler) ListAssignees(c *gin.Context) {
	lang := middleware.GetLang(c)

	assignees, err := h.taskService.ListAssignees(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list assignees", zap.Error(err))
		respondError(c, http.StatusInternalServerError, apierrors.MsgFailListAssignees, lang)
		return
	}

	c.JSON(http.StatusOK, assignees)
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || taskID == 0 {
		return 0, false
	}
	return taskID, true
}

// parseTaskFilter reads the board filters. An empty value or "all" leaves a
// field unfiltered.
func parseTaskFilter(c *gin.Context) (domain.TaskFilter, bool) {
	var filter domain.TaskFilter

	if value := queryFilter(c, "priority"); value != "" {
		priority := domain.Priority(value)
		if !priority.Valid() {
			return domain.TaskFilter{}, false
		}
		filter.Priority = &priority
	}

	if value := queryFilter(c, "status"); value != "" {
		status := domain.TaskStatus(value)
		if !status.Valid() {
			return domain.TaskFilter{}, false
		}
		filter.Status = &status
	}

	if value := queryFilter(c, "assignee"); value != "" {
		filter.Assignee = &value
	}

	return filter, true
}

func queryFilter(c *gin.Context, key string) string {
	value := strings.TrimSpace(c.Query(key))
	if strings.EqualFold(value, filterAll) {
		return ""
	}
	return value
}

func validateStruct(obj any) error {
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}

func respondError(c *gin.Context, code int, msgKey, lang string) {
	c.JSON(code, apierrors.CreateError(code, msgKey, lang))
}
