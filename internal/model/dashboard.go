package model

import "time"

// TaskStats summarizes a user's workload for the dashboard.
type TaskStats struct {
	TotalTasks      int64   `json:"total_tasks"`
	PendingTasks    int64   `json:"pending_tasks"`
	InProgressTasks int64   `json:"in_progress_tasks"`
	CompletedTasks  int64   `json:"completed_tasks"`
	OverdueTasks    int64   `json:"overdue_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

// ProductivityMetrics sums the user's estimation accuracy and recent output.
// Efficiency is nil when no task carries an estimate.
type ProductivityMetrics struct {
	EstimatedHours     float64  `json:"estimated_hours"`
	ActualHours        float64  `json:"actual_hours"`
	Efficiency         *float64 `json:"efficiency,omitempty"`
	CompletedThisMonth int64    `json:"completed_this_month"`
	OverdueTasks       int64    `json:"overdue_tasks"`
}

// WeeklyProgress counts task activity over the last seven days.
type WeeklyProgress struct {
	CompletedThisWeek int64 `json:"completed_this_week"`
	CreatedThisWeek   int64 `json:"created_this_week"`
	OverdueThisWeek   int64 `json:"overdue_this_week"`
}

// CategoryUsage is one category's task count.
type CategoryUsage struct {
	CategoryName string `json:"category_name"`
	Count        int64  `json:"count"`
}

// CategoryAnalytics breaks the user's tasks down by category.
type CategoryAnalytics struct {
	Distribution map[string]int64 `json:"category_distribution"`
	MostUsed     []CategoryUsage  `json:"most_used_categories"`
}

// PerformanceTrends combines productivity and weekly progress with a trend
// derived from week-over-week completions.
type PerformanceTrends struct {
	Productivity    ProductivityMetrics `json:"productivity_metrics"`
	Weekly          WeeklyProgress      `json:"weekly_progress"`
	TrendDirection  string              `json:"trend_direction"`
	TrendPercentage float64             `json:"trend_percentage"`
}

// DashboardResponse aggregates stats, distributions, and task previews.
type DashboardResponse struct {
	Stats                TaskStats        `json:"stats"`
	StatusDistribution   map[string]int64 `json:"status_distribution"`
	PriorityDistribution map[string]int64 `json:"priority_distribution"`
	RecentTasks          []TaskResponse   `json:"recent_tasks"`
	UpcomingTasks        []TaskResponse   `json:"upcoming_tasks"`
	LastUpdated          time.Time        `json:"last_updated"`
}
