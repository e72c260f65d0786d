package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskforge/taskforge-api/internal/model"
)

var (
	ErrStatusNotFound   = errors.New("task status not found")
	ErrPriorityNotFound = errors.New("task priority not found")
)

// MasterDataRepository reads the seeded task status and priority tables.
type MasterDataRepository struct {
	db *sql.DB
}

// NewMasterDataRepository creates a new MasterDataRepository.
func NewMasterDataRepository(db *sql.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

// ListStatuses returns the active statuses in display order.
func (r *MasterDataRepository) ListStatuses(ctx context.Context) ([]model.TaskStatus, error) {
	query := `SELECT task_status_id, status_name, description, color_hex, sort_order, is_active
	          FROM task_statuses WHERE is_active = 1 ORDER BY sort_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []model.TaskStatus
	for rows.Next() {
		var s model.TaskStatus
		if err := rows.Scan(&s.TaskStatusID, &s.StatusName, &s.Description, &s.ColorHex, &s.SortOrder, &s.IsActive); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// ListPriorities returns the active priorities ordered by level.
func (r *MasterDataRepository) ListPriorities(ctx context.Context) ([]model.TaskPriority, error) {
	query := `SELECT task_priority_id, priority_name, description, priority_level, color_hex, is_active
	          FROM task_priorities WHERE is_active = 1 ORDER BY priority_level ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var priorities []model.TaskPriority
	for rows.Next() {
		var p model.TaskPriority
		if err := rows.Scan(&p.TaskPriorityID, &p.PriorityName, &p.Description, &p.PriorityLevel, &p.ColorHex, &p.IsActive); err != nil {
			return nil, err
		}
		priorities = append(priorities, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return priorities, nil
}

// GetStatus retrieves one active status by ID.
func (r *MasterDataRepository) GetStatus(ctx context.Context, id int) (*model.TaskStatus, error) {
	query := `SELECT task_status_id, status_name, description, color_hex, sort_order, is_active
	          FROM task_statuses WHERE task_status_id = ? AND is_active = 1`

	var s model.TaskStatus
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.TaskStatusID, &s.StatusName, &s.Description, &s.ColorHex, &s.SortOrder, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetPriority retrieves one active priority by ID.
func (r *MasterDataRepository) GetPriority(ctx context.Context, id int) (*model.TaskPriority, error) {
	query := `SELECT task_priority_id, priority_name, description, priority_level, color_hex, is_active
	          FROM task_priorities WHERE task_priority_id = ? AND is_active = 1`

	var p model.TaskPriority
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.TaskPriorityID, &p.PriorityName, &p.Description, &p.PriorityLevel, &p.ColorHex, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPriorityNotFound
		}
		return nil, err
	}
	return &p, nil
}
