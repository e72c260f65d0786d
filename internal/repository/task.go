package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepository handles task persistence. Reads always join status,
// priority, and category names and exclude soft-deleted rows.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (task_id, title, description, status_id, priority_id, category_id, created_by, assigned_to, due_date, estimated_hours, actual_hours)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		task.TaskID, task.Title, task.Description,
		task.StatusID, task.PriorityID, task.CategoryID,
		task.CreatedBy, task.AssignedTo, task.DueDate,
		task.EstimatedHours, task.ActualHours,
	)
	return err
}

const taskSelect = `
	SELECT t.task_id, t.title, t.description,
	       t.status_id, s.status_name, s.color_hex,
	       t.priority_id, p.priority_name, p.color_hex,
	       t.category_id, c.name,
	       t.created_by, t.assigned_to,
	       t.due_date, t.completed_at, t.estimated_hours, t.actual_hours,
	       t.created_at, t.updated_at
	FROM tasks t
	JOIN task_statuses s ON s.task_status_id = t.status_id
	JOIN task_priorities p ON p.task_priority_id = t.priority_id
	LEFT JOIN categories c ON c.category_id = t.category_id
	WHERE t.is_deleted = 0`

// GetByID retrieves a task by ID regardless of ownership; the service layer
// decides who may see it.
func (r *TaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (*model.TaskResponse, error) {
	row := r.db.QueryRowContext(ctx, taskSelect+` AND t.task_id = ?`, taskID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update persists the mutable fields of a task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks
	          SET title = ?, description = ?, status_id = ?, priority_id = ?, category_id = ?,
	              assigned_to = ?, due_date = ?, completed_at = ?, estimated_hours = ?, actual_hours = ?
	          WHERE task_id = ? AND is_deleted = 0`

	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.StatusID, task.PriorityID, task.CategoryID,
		task.AssignedTo, task.DueDate, task.CompletedAt, task.EstimatedHours, task.ActualHours,
		task.TaskID,
	)
	return err
}

// SoftDelete marks a task deleted without removing the row.
func (r *TaskRepository) SoftDelete(ctx context.Context, taskID uuid.UUID) error {
	query := `UPDATE tasks SET is_deleted = 1 WHERE task_id = ?`
	_, err := r.db.ExecContext(ctx, query, taskID)
	return err
}

// List returns one page of the user's tasks matching the filter, plus the
// total match count. Every filter criterion is optional; absent criteria are
// simply not added to the WHERE clause.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.TaskResponse, int64, error) {
	where := []string{"(t.created_by = ? OR t.assigned_to = ?)"}
	args := []any{userID, userID}

	if filter.StatusID != nil {
		where = append(where, "t.status_id = ?")
		args = append(args, *filter.StatusID)
	}
	if filter.PriorityID != nil {
		where = append(where, "t.priority_id = ?")
		args = append(args, *filter.PriorityID)
	}
	if filter.CategoryID != nil {
		where = append(where, "t.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Search != "" {
		where = append(where, "(t.title LIKE ? OR t.description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	clause := " AND " + strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM tasks t WHERE t.is_deleted = 0` + clause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := taskSelect + clause + ` ORDER BY t.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// FindDueBetween returns the user's open tasks due inside [from, to).
func (r *TaskRepository) FindDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.TaskResponse, error) {
	query := taskSelect + ` AND (t.created_by = ? OR t.assigned_to = ?)
	          AND t.completed_at IS NULL AND t.due_date >= ? AND t.due_date < ?
	          ORDER BY t.due_date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindOverdue returns the user's open tasks whose due date has passed.
func (r *TaskRepository) FindOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]model.TaskResponse, error) {
	query := taskSelect + ` AND (t.created_by = ? OR t.assigned_to = ?)
	          AND t.completed_at IS NULL AND t.due_date IS NOT NULL AND t.due_date < ?
	          ORDER BY t.due_date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindRecent returns the user's most recently created tasks.
func (r *TaskRepository) FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.TaskResponse, error) {
	query := taskSelect + ` AND (t.created_by = ? OR t.assigned_to = ?)
	          ORDER BY t.created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// CountsByStatus returns the user's task counts grouped by status name.
func (r *TaskRepository) CountsByStatus(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	query := `SELECT s.status_name, COUNT(*)
	          FROM tasks t JOIN task_statuses s ON s.task_status_id = t.status_id
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)
	          GROUP BY s.status_name`
	return r.countsBy(ctx, query, userID)
}

// CountsByPriority returns the user's task counts grouped by priority name.
func (r *TaskRepository) CountsByPriority(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	query := `SELECT p.priority_name, COUNT(*)
	          FROM tasks t JOIN task_priorities p ON p.task_priority_id = t.priority_id
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)
	          GROUP BY p.priority_name`
	return r.countsBy(ctx, query, userID)
}

// CountOverdue returns the number of the user's open tasks past their due date.
func (r *TaskRepository) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM tasks t
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)
	          AND t.completed_at IS NULL AND t.due_date IS NOT NULL AND t.due_date < ?`
	var n int64
	err := r.db.QueryRowContext(ctx, query, userID, userID, now).Scan(&n)
	return n, err
}

// HoursSummary sums estimated and actual hours across the user's tasks.
func (r *TaskRepository) HoursSummary(ctx context.Context, userID uuid.UUID) (estimated, actual float64, err error) {
	query := `SELECT COALESCE(SUM(t.estimated_hours), 0), COALESCE(SUM(t.actual_hours), 0)
	          FROM tasks t
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)`
	err = r.db.QueryRowContext(ctx, query, userID, userID).Scan(&estimated, &actual)
	return estimated, actual, err
}

// CountCompletedBetween returns how many of the user's tasks were completed
// inside [from, to).
func (r *TaskRepository) CountCompletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM tasks t
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)
	          AND t.completed_at >= ? AND t.completed_at < ?`
	var n int64
	err := r.db.QueryRowContext(ctx, query, userID, userID, from, to).Scan(&n)
	return n, err
}

// CountCreatedSince returns how many of the user's tasks were created at or
// after the given time.
func (r *TaskRepository) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM tasks t
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)
	          AND t.created_at >= ?`
	var n int64
	err := r.db.QueryRowContext(ctx, query, userID, userID, since).Scan(&n)
	return n, err
}

// CategoryUsage returns the user's task counts per category, most used
// first. Uncategorized tasks are not counted.
func (r *TaskRepository) CategoryUsage(ctx context.Context, userID uuid.UUID) ([]model.CategoryUsage, error) {
	query := `SELECT c.name, COUNT(*) AS task_count
	          FROM tasks t JOIN categories c ON c.category_id = t.category_id
	          WHERE t.is_deleted = 0 AND (t.created_by = ? OR t.assigned_to = ?)
	          GROUP BY c.name
	          ORDER BY task_count DESC, c.name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []model.CategoryUsage
	for rows.Next() {
		var u model.CategoryUsage
		if err := rows.Scan(&u.CategoryName, &u.Count); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return usage, nil
}

func (r *TaskRepository) countsBy(ctx context.Context, query string, userID uuid.UUID) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.TaskResponse, error) {
	task := &model.TaskResponse{}
	var description sql.NullString
	var categoryID sql.NullInt64
	var categoryName sql.NullString
	var dueDate, completedAt sql.NullTime
	var estimated, actual sql.NullFloat64

	err := row.Scan(
		&task.TaskID, &task.Title, &description,
		&task.StatusID, &task.StatusName, &task.StatusColor,
		&task.PriorityID, &task.PriorityName, &task.PriorityColor,
		&categoryID, &categoryName,
		&task.CreatedBy, &task.AssignedTo,
		&dueDate, &completedAt, &estimated, &actual,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if categoryID.Valid {
		id := int(categoryID.Int64)
		task.CategoryID = &id
	}
	if categoryName.Valid {
		task.CategoryName = &categoryName.String
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	if estimated.Valid {
		task.EstimatedHours = &estimated.Float64
	}
	if actual.Valid {
		task.ActualHours = &actual.Float64
	}
	return task, nil
}

func scanTasks(rows *sql.Rows) ([]model.TaskResponse, error) {
	var tasks []model.TaskResponse
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
