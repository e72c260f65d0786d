package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

const dashboardPreviewLimit = 5

// DashboardService aggregates a user's workload into summary form.
type DashboardService struct {
	tasks      TaskStore
	masterData MasterDataStore
	taskSvc    *TaskService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(tasks TaskStore, masterData MasterDataStore, taskSvc *TaskService) *DashboardService {
	return &DashboardService{tasks: tasks, masterData: masterData, taskSvc: taskSvc}
}

// Summary builds the full dashboard payload: stats, distributions, and
// recent/upcoming task previews.
func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID) (*model.DashboardResponse, error) {
	stats, statusDist, err := s.stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	priorityDist, err := s.PriorityDistribution(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.taskSvc.Recent(ctx, userID, dashboardPreviewLimit)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.taskSvc.Upcoming(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.DashboardResponse{
		Stats:                stats,
		StatusDistribution:   statusDist,
		PriorityDistribution: priorityDist,
		RecentTasks:          recent,
		UpcomingTasks:        upcoming,
		LastUpdated:          time.Now(),
	}, nil
}

// StatusDistribution returns task counts per status name, including zeroes
// for statuses the user has no tasks in.
func (s *DashboardService) StatusDistribution(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	statuses, err := s.masterData.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.tasks.CountsByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(statuses))
	for _, status := range statuses {
		dist[status.StatusName] = counts[status.StatusName]
	}
	return dist, nil
}

// PriorityDistribution returns task counts per priority name, including zeroes.
func (s *DashboardService) PriorityDistribution(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	priorities, err := s.masterData.ListPriorities(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.tasks.CountsByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(priorities))
	for _, priority := range priorities {
		dist[priority.PriorityName] = counts[priority.PriorityName]
	}
	return dist, nil
}

// Productivity reports summed estimates vs actuals, completions over the
// last month, and the current overdue count.
func (s *DashboardService) Productivity(ctx context.Context, userID uuid.UUID) (model.ProductivityMetrics, error) {
	estimated, actual, err := s.tasks.HoursSummary(ctx, userID)
	if err != nil {
		return model.ProductivityMetrics{}, err
	}

	now := time.Now()
	completed, err := s.tasks.CountCompletedBetween(ctx, userID, now.AddDate(0, -1, 0), now)
	if err != nil {
		return model.ProductivityMetrics{}, err
	}
	overdue, err := s.tasks.CountOverdue(ctx, userID, now)
	if err != nil {
		return model.ProductivityMetrics{}, err
	}

	metrics := model.ProductivityMetrics{
		EstimatedHours:     estimated,
		ActualHours:        actual,
		CompletedThisMonth: completed,
		OverdueTasks:       overdue,
	}
	if estimated > 0 {
		efficiency := actual / estimated * 100.0
		metrics.Efficiency = &efficiency
	}
	return metrics, nil
}

// WeeklyProgress counts the user's completions, new tasks, and tasks fallen
// overdue over the last seven days.
func (s *DashboardService) WeeklyProgress(ctx context.Context, userID uuid.UUID) (model.WeeklyProgress, error) {
	now := time.Now()
	weekStart := now.Add(-7 * 24 * time.Hour)

	completed, err := s.tasks.CountCompletedBetween(ctx, userID, weekStart, now)
	if err != nil {
		return model.WeeklyProgress{}, err
	}
	created, err := s.tasks.CountCreatedSince(ctx, userID, weekStart)
	if err != nil {
		return model.WeeklyProgress{}, err
	}

	// Open tasks that came due within the week are exactly the ones that
	// went overdue this week.
	dueThisWeek, err := s.tasks.FindDueBetween(ctx, userID, weekStart, now)
	if err != nil {
		return model.WeeklyProgress{}, err
	}

	return model.WeeklyProgress{
		CompletedThisWeek: completed,
		CreatedThisWeek:   created,
		OverdueThisWeek:   int64(len(dueThisWeek)),
	}, nil
}

// CategoryAnalytics breaks the user's tasks down per category.
func (s *DashboardService) CategoryAnalytics(ctx context.Context, userID uuid.UUID) (model.CategoryAnalytics, error) {
	usage, err := s.tasks.CategoryUsage(ctx, userID)
	if err != nil {
		return model.CategoryAnalytics{}, err
	}

	dist := make(map[string]int64, len(usage))
	for _, u := range usage {
		dist[u.CategoryName] = u.Count
	}
	return model.CategoryAnalytics{Distribution: dist, MostUsed: usage}, nil
}

// PerformanceTrends combines productivity and weekly progress, deriving the
// trend from week-over-week completions.
func (s *DashboardService) PerformanceTrends(ctx context.Context, userID uuid.UUID) (model.PerformanceTrends, error) {
	productivity, err := s.Productivity(ctx, userID)
	if err != nil {
		return model.PerformanceTrends{}, err
	}
	weekly, err := s.WeeklyProgress(ctx, userID)
	if err != nil {
		return model.PerformanceTrends{}, err
	}

	now := time.Now()
	previousWeek, err := s.tasks.CountCompletedBetween(ctx, userID,
		now.Add(-14*24*time.Hour), now.Add(-7*24*time.Hour))
	if err != nil {
		return model.PerformanceTrends{}, err
	}

	trends := model.PerformanceTrends{
		Productivity: productivity,
		Weekly:       weekly,
	}
	trends.TrendDirection, trends.TrendPercentage = trendOf(weekly.CompletedThisWeek, previousWeek)
	return trends, nil
}

func trendOf(thisWeek, previousWeek int64) (string, float64) {
	switch {
	case thisWeek > previousWeek && previousWeek == 0:
		return "improving", 100.0
	case thisWeek > previousWeek:
		return "improving", float64(thisWeek-previousWeek) / float64(previousWeek) * 100.0
	case thisWeek < previousWeek:
		return "declining", float64(previousWeek-thisWeek) / float64(previousWeek) * 100.0
	default:
		return "steady", 0.0
	}
}

func (s *DashboardService) stats(ctx context.Context, userID uuid.UUID) (model.TaskStats, map[string]int64, error) {
	statusDist, err := s.StatusDistribution(ctx, userID)
	if err != nil {
		return model.TaskStats{}, nil, err
	}

	overdue, err := s.tasks.CountOverdue(ctx, userID, time.Now())
	if err != nil {
		return model.TaskStats{}, nil, err
	}

	var total int64
	for _, n := range statusDist {
		total += n
	}

	stats := model.TaskStats{
		TotalTasks:      total,
		PendingTasks:    statusDist["Pending"],
		InProgressTasks: statusDist["In Progress"],
		CompletedTasks:  statusDist[statusCompleted],
		OverdueTasks:    overdue,
	}
	if total > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(total) * 100.0
	}
	return stats, statusDist, nil
}
