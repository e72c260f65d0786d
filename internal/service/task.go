package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
	"github.com/taskforge/taskforge-api/internal/repository"
)

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("unknown task status")
	ErrInvalidPriority  = errors.New("unknown task priority")
	ErrInvalidCategory  = errors.New("unknown category")
	ErrInvalidAssignee  = errors.New("unknown assignee")
	ErrInvalidDateRange = errors.New("end date must not precede start date")
	ErrTaskForbidden    = errors.New("no permission for this task")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	upcomingWindow  = 7 * 24 * time.Hour
	statusCompleted = "Completed"
)

// TaskStore is the persistence surface TaskService and DashboardService need.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, taskID uuid.UUID) (*model.TaskResponse, error)
	Update(ctx context.Context, task *model.Task) error
	SoftDelete(ctx context.Context, taskID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.TaskResponse, int64, error)
	FindDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.TaskResponse, error)
	FindOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]model.TaskResponse, error)
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.TaskResponse, error)
	CountsByStatus(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
	CountsByPriority(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	HoursSummary(ctx context.Context, userID uuid.UUID) (estimated, actual float64, err error)
	CountCompletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	CategoryUsage(ctx context.Context, userID uuid.UUID) ([]model.CategoryUsage, error)
}

// UserDirectory is the user lookup TaskService needs to validate assignees.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// MasterDataStore reads the seeded status and priority tables.
type MasterDataStore interface {
	ListStatuses(ctx context.Context) ([]model.TaskStatus, error)
	ListPriorities(ctx context.Context) ([]model.TaskPriority, error)
	GetStatus(ctx context.Context, id int) (*model.TaskStatus, error)
	GetPriority(ctx context.Context, id int) (*model.TaskPriority, error)
}

// TaskService handles task business logic: validation, ownership checks, and
// completion stamping. Tasks are visible to their creator and assignee;
// only the creator may modify or delete.
type TaskService struct {
	tasks      TaskStore
	masterData MasterDataStore
	categories CategoryStore
	users      UserDirectory
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, masterData MasterDataStore, categories CategoryStore, users UserDirectory) *TaskService {
	return &TaskService{tasks: tasks, masterData: masterData, categories: categories, users: users}
}

// Create validates references and inserts a new task. An absent assignee
// defaults to the creator.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req model.TaskRequest) (*model.TaskResponse, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	status, err := s.resolveStatus(ctx, req.StatusID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolvePriority(ctx, req.PriorityID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	assignedTo := userID
	if req.AssignedTo != nil {
		assignedTo = *req.AssignedTo
	}

	task := &model.Task{
		TaskID:         uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		StatusID:       req.StatusID,
		PriorityID:     req.PriorityID,
		CategoryID:     req.CategoryID,
		CreatedBy:      userID,
		AssignedTo:     assignedTo,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if status.StatusName == statusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return s.get(ctx, task.TaskID)
}

// Get returns a task visible to the user (creator or assignee).
func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*model.TaskResponse, error) {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CreatedBy != userID && task.AssignedTo != userID {
		return nil, ErrTaskForbidden
	}
	return task, nil
}

// Update replaces the task's mutable fields. Creator only. Moving a task
// into the completed status stamps completed_at; moving it out clears it.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, req model.TaskRequest) (*model.TaskResponse, error) {
	current, err := s.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if current.CreatedBy != userID {
		return nil, ErrTaskForbidden
	}

	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	status, err := s.resolveStatus(ctx, req.StatusID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolvePriority(ctx, req.PriorityID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	assignedTo := current.AssignedTo
	if req.AssignedTo != nil {
		assignedTo = *req.AssignedTo
	}

	task := &model.Task{
		TaskID:         taskID,
		Title:          req.Title,
		Description:    req.Description,
		StatusID:       req.StatusID,
		PriorityID:     req.PriorityID,
		CategoryID:     req.CategoryID,
		AssignedTo:     assignedTo,
		DueDate:        req.DueDate,
		CompletedAt:    current.CompletedAt,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	switch {
	case status.StatusName == statusCompleted && task.CompletedAt == nil:
		now := time.Now()
		task.CompletedAt = &now
	case status.StatusName != statusCompleted:
		task.CompletedAt = nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return s.get(ctx, taskID)
}

// Delete soft-deletes a task. Creator only.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return err
	}
	if task.CreatedBy != userID {
		return ErrTaskForbidden
	}
	return s.tasks.SoftDelete(ctx, taskID)
}

// Assign reassigns a task to another user. Creator only; the assignee must
// be a known active account.
func (s *TaskService) Assign(ctx context.Context, userID, taskID, assigneeID uuid.UUID) (*model.TaskResponse, error) {
	current, err := s.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if current.CreatedBy != userID {
		return nil, ErrTaskForbidden
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil || !assignee.IsActive {
		return nil, ErrInvalidAssignee
	}

	task := &model.Task{
		TaskID:         taskID,
		Title:          current.Title,
		Description:    current.Description,
		StatusID:       current.StatusID,
		PriorityID:     current.PriorityID,
		CategoryID:     current.CategoryID,
		AssignedTo:     assigneeID,
		DueDate:        current.DueDate,
		CompletedAt:    current.CompletedAt,
		EstimatedHours: current.EstimatedHours,
		ActualHours:    current.ActualHours,
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return s.get(ctx, taskID)
}

// DueBetween returns the user's open tasks due inside [from, to).
func (s *TaskService) DueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.TaskResponse, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	tasks, err := s.tasks.FindDueBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	markOverdue(tasks, time.Now())
	return tasks, nil
}

// List returns one page of the user's tasks matching the filter.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) (*model.TaskPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	tasks, total, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	markOverdue(tasks, time.Now())

	return &model.TaskPage{
		Tasks:    tasks,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	}, nil
}

// Upcoming returns open tasks due within the next seven days.
func (s *TaskService) Upcoming(ctx context.Context, userID uuid.UUID) ([]model.TaskResponse, error) {
	now := time.Now()
	tasks, err := s.tasks.FindDueBetween(ctx, userID, now, now.Add(upcomingWindow))
	if err != nil {
		return nil, err
	}
	markOverdue(tasks, now)
	return tasks, nil
}

// Overdue returns open tasks whose due date has passed.
func (s *TaskService) Overdue(ctx context.Context, userID uuid.UUID) ([]model.TaskResponse, error) {
	now := time.Now()
	tasks, err := s.tasks.FindOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	markOverdue(tasks, now)
	return tasks, nil
}

// Recent returns the user's most recently created tasks.
func (s *TaskService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.TaskResponse, error) {
	if limit < 1 {
		limit = 5
	}
	tasks, err := s.tasks.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	markOverdue(tasks, time.Now())
	return tasks, nil
}

func (s *TaskService) get(ctx context.Context, taskID uuid.UUID) (*model.TaskResponse, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CompletedAt == nil && task.DueDate != nil && task.DueDate.Before(time.Now()) {
		task.IsOverdue = true
	}
	return task, nil
}

func (s *TaskService) resolveStatus(ctx context.Context, id int) (*model.TaskStatus, error) {
	status, err := s.masterData.GetStatus(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStatusNotFound) {
			return nil, ErrInvalidStatus
		}
		return nil, err
	}
	return status, nil
}

func (s *TaskService) resolvePriority(ctx context.Context, id int) (*model.TaskPriority, error) {
	priority, err := s.masterData.GetPriority(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPriorityNotFound) {
			return nil, ErrInvalidPriority
		}
		return nil, err
	}
	return priority, nil
}

func (s *TaskService) checkCategory(ctx context.Context, id *int) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrInvalidCategory
		}
		return err
	}
	return nil
}

func markOverdue(tasks []model.TaskResponse, now time.Time) {
	for i := range tasks {
		t := &tasks[i]
		t.IsOverdue = t.CompletedAt == nil && t.DueDate != nil && t.DueDate.Before(now)
	}
}
