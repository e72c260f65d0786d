package model

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a task row. Deletion is soft: IsDeleted=true hides the row
// from every query but keeps it in storage.
type Task struct {
	TaskID         uuid.UUID
	Title          string
	Description    string
	StatusID       int
	PriorityID     int
	CategoryID     *int
	CreatedBy      uuid.UUID
	AssignedTo     uuid.UUID
	DueDate        *time.Time
	CompletedAt    *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskStatus is a master-data row (Pending, In Progress, ...).
type TaskStatus struct {
	TaskStatusID int    `json:"task_status_id"`
	StatusName   string `json:"status_name"`
	Description  string `json:"description,omitempty"`
	ColorHex     string `json:"color_hex"`
	SortOrder    int    `json:"sort_order"`
	IsActive     bool   `json:"is_active"`
}

// TaskPriority is a master-data row ordered by PriorityLevel.
type TaskPriority struct {
	TaskPriorityID int    `json:"task_priority_id"`
	PriorityName   string `json:"priority_name"`
	Description    string `json:"description,omitempty"`
	PriorityLevel  int    `json:"priority_level"`
	ColorHex       string `json:"color_hex"`
	IsActive       bool   `json:"is_active"`
}

// TaskRequest represents a task create or update request.
type TaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StatusID       int        `json:"status_id"`
	PriorityID     int        `json:"priority_id"`
	CategoryID     *int       `json:"category_id,omitempty"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
}

// AssignTaskRequest reassigns a task to another user.
type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id"`
}

// TaskResponse is a task joined with its status, priority, and category names.
type TaskResponse struct {
	TaskID         uuid.UUID  `json:"task_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StatusID       int        `json:"status_id"`
	StatusName     string     `json:"status_name"`
	StatusColor    string     `json:"status_color"`
	PriorityID     int        `json:"priority_id"`
	PriorityName   string     `json:"priority_name"`
	PriorityColor  string     `json:"priority_color"`
	CategoryID     *int       `json:"category_id,omitempty"`
	CategoryName   *string    `json:"category_name,omitempty"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	AssignedTo     uuid.UUID  `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	IsOverdue      bool       `json:"is_overdue"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TaskFilter carries optional criteria for combined task filtering. Nil or
// empty fields are ignored, so any subset of criteria may be applied.
type TaskFilter struct {
	StatusID   *int
	PriorityID *int
	CategoryID *int
	Search     string
	Page       int
	PageSize   int
}

// TaskPage is one page of task results.
type TaskPage struct {
	Tasks    []TaskResponse `json:"tasks"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
}
