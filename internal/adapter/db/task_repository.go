package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const tasksTable = "tasks"

var taskColumns = []string{
	"id",
	"name",
	"description",
	"assignee",
	"due_date",
	"priority",
	"status",
	"completed",
	"created_at",
}

type TaskRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type taskRow struct {
	ID          uint64         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Assignee    string         `db:"assignee"`
	DueDate     string         `db:"due_date"`
	Priority    string         `db:"priority"`
	Status      string         `db:"status"`
	Completed   sql.NullTime   `db:"completed"`
	CreatedAt   time.Time      `db:"created_at"`
}

type statsRow struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

func (r *TaskRepository) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	sb := squirrel.Select(taskColumns...).From(tasksTable).OrderBy("id DESC")
	if filter.Priority != nil {
		sb = sb.Where(squirrel.Eq{"priority": string(*filter.Priority)})
	}
	if filter.Assignee != nil {
		sb = sb.Where(squirrel.Eq{"assignee": *filter.Assignee})
	}
	if filter.Status != nil {
		sb = sb.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	return getTask(ctx, r.db, id)
}

func (r *TaskRepository) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	var task domain.Task
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		created, err := r.insertTask(ctx, tx, input)
		task = created
		return err
	})
	return task, err
}

// CreateTasks inserts every input in one transaction: either all tasks are
// stored or none are.
func (r *TaskRepository) CreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(inputs))
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		for i, input := range inputs {
			task, err := r.insertTask(ctx, tx, input)
			if err != nil {
				return fmt.Errorf("insert task %d: %w", i, err)
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	ub := squirrel.Update(tasksTable).Where(squirrel.Eq{"id": id})
	if input.Name != nil {
		ub = ub.Set("name", *input.Name)
	}
	if input.DescriptionSet {
		ub = ub.Set("description", nullString(input.Description))
	}
	if input.Assignee != nil {
		ub = ub.Set("assignee", *input.Assignee)
	}
	if input.DueDate != nil {
		ub = ub.Set("due_date", *input.DueDate)
	}
	if input.Priority != nil {
		ub = ub.Set("priority", string(*input.Priority))
	}
	if input.Status != nil {
		ub = ub.Set("status", string(*input.Status))
	}
	if input.CompletedSet {
		if input.CompletedAt != nil {
			ub = ub.Set("completed", squirrel.Expr("COALESCE(completed, ?)", input.CompletedAt.UTC()))
		} else {
			ub = ub.Set("completed", nil)
		}
	}

	var task domain.Task
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getTask(ctx, tx, id); err != nil {
			return err
		}

		if !input.Empty() || input.CompletedSet {
			query, args, err := ub.ToSql()
			if err != nil {
				return fmt.Errorf("build update query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}

		updated, err := getTask(ctx, tx, id)
		task = updated
		return err
	})
	return task, err
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id uint64) error {
	query, args, err := squirrel.Delete(tasksTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) TaskStats(ctx context.Context) (domain.TaskStats, error) {
	query, args, err := squirrel.Select("COUNT(*) AS total").
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed",
			string(domain.TaskStatusCompleted),
		)).
		From(tasksTable).
		ToSql()
	if err != nil {
		return domain.TaskStats{}, fmt.Errorf("build stats query: %w", err)
	}

	var row statsRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return domain.TaskStats{}, err
	}

	return domain.TaskStats{
		Total:     row.Total,
		Completed: row.Completed,
		Pending:   row.Total - row.Completed,
	}, nil
}

func (r *TaskRepository) ListAssignees(ctx context.Context) ([]string, error) {
	query, args, err := squirrel.Select("DISTINCT assignee").
		From(tasksTable).
		Where(squirrel.NotEq{"assignee": ""}).
		OrderBy("assignee").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignees query: %w", err)
	}

	assignees := []string{}
	if err := r.db.SelectContext(ctx, &assignees, query, args...); err != nil {
		return nil, err
	}
	return assignees, nil
}

func (r *TaskRepository) insertTask(ctx context.Context, tx *sqlx.Tx, input domain.CreateTaskInput) (domain.Task, error) {
	priority := input.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}
	status := input.Status
	if status == "" {
		status = domain.TaskStatusPending
	}

	var completed any
	if status == domain.TaskStatusCompleted {
		completed = r.now().UTC()
	}

	query, args, err := squirrel.Insert(tasksTable).
		Columns("name", "description", "assignee", "due_date", "priority", "status", "completed", "created_at").
		Values(
			input.Name,
			nullString(input.Description),
			input.Assignee,
			input.DueDate,
			string(priority),
			string(status),
			completed,
			r.now().UTC(),
		).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build insert query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Task{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Task{}, err
	}

	return getTask(ctx, tx, uint64(id)) // #nosec G115 -- auto increment ids are positive
}

func (r *TaskRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func getTask(ctx context.Context, q sqlx.QueryerContext, id uint64) (domain.Task, error) {
	query, args, err := squirrel.Select(taskColumns...).From(tasksTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build get query: %w", err)
	}

	var row taskRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRowToDomainTask(row), nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:        row.ID,
		Name:      row.Name,
		Assignee:  row.Assignee,
		DueDate:   row.DueDate,
		Priority:  domain.Priority(row.Priority),
		Status:    domain.TaskStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.Completed.Valid {
		value := row.Completed.Time
		task.CompletedAt = &value
	}

	return task
}
