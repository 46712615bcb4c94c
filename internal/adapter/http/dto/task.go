package dto

type TaskItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Assignee    string  `json:"assignee"`
	DueDate     string  `json:"dueDate"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Completed   *string `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
}

type CreateTaskRequest struct {
	Name        string  `json:"name" binding:"notblank,max=65535"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Assignee    string  `json:"assignee" binding:"notblank,max=100"`
	DueDate     string  `json:"dueDate" binding:"notblank,max=64"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=P1 P2 P3 P4"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

type UpdateTaskRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=65535"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Assignee    *string `json:"assignee" binding:"omitempty,notblank,max=100"`
	DueDate     *string `json:"dueDate" binding:"omitempty,notblank,max=64"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=P1 P2 P3 P4"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}
