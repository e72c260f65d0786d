package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

func newTestDashboardService() (*DashboardService, *TaskService, *fakeCategoryStore) {
	categories := newFakeCategoryStore()
	tasks := newFakeTaskStore(categories)
	taskSvc := NewTaskService(tasks, fakeMasterDataStore{}, categories, newFakeUserStore())
	return NewDashboardService(tasks, fakeMasterDataStore{}, taskSvc), taskSvc, categories
}

func TestDashboardDistributionsAreZeroFilled(t *testing.T) {
	svc, _, _ := newTestDashboardService()
	ctx := context.Background()

	statusDist, err := svc.StatusDistribution(ctx, uuid.New())
	if err != nil {
		t.Fatalf("StatusDistribution: %v", err)
	}
	if len(statusDist) != len(testStatuses) {
		t.Errorf("status buckets = %d, want %d", len(statusDist), len(testStatuses))
	}
	for name, count := range statusDist {
		if count != 0 {
			t.Errorf("%s = %d, want 0 for a user with no tasks", name, count)
		}
	}

	priorityDist, err := svc.PriorityDistribution(ctx, uuid.New())
	if err != nil {
		t.Fatalf("PriorityDistribution: %v", err)
	}
	if len(priorityDist) != len(testPriorities) {
		t.Errorf("priority buckets = %d, want %d", len(priorityDist), len(testPriorities))
	}
}

func TestDashboardSummary(t *testing.T) {
	svc, taskSvc, _ := newTestDashboardService()
	ctx := context.Background()
	userID := uuid.New()

	past := time.Now().Add(-24 * time.Hour)
	seed := []model.TaskRequest{
		{Title: "a", StatusID: 1, PriorityID: 1, DueDate: &past},
		{Title: "b", StatusID: 2, PriorityID: 2},
		{Title: "c", StatusID: 3, PriorityID: 3},
		{Title: "d", StatusID: 3, PriorityID: 1},
	}
	for _, req := range seed {
		if _, err := taskSvc.Create(ctx, userID, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	dash, err := svc.Summary(ctx, userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	stats := dash.Stats
	if stats.TotalTasks != 4 {
		t.Errorf("total = %d, want 4", stats.TotalTasks)
	}
	if stats.PendingTasks != 1 || stats.InProgressTasks != 1 || stats.CompletedTasks != 2 {
		t.Errorf("breakdown = pending %d, in progress %d, completed %d", stats.PendingTasks, stats.InProgressTasks, stats.CompletedTasks)
	}
	if stats.OverdueTasks != 1 {
		t.Errorf("overdue = %d, want 1", stats.OverdueTasks)
	}
	if stats.CompletionRate != 50.0 {
		t.Errorf("completion rate = %v, want 50", stats.CompletionRate)
	}

	if len(dash.RecentTasks) != 4 {
		t.Errorf("recent = %d tasks, want 4", len(dash.RecentTasks))
	}
	if dash.StatusDistribution["Completed"] != 2 {
		t.Errorf("completed bucket = %d, want 2", dash.StatusDistribution["Completed"])
	}
	if dash.LastUpdated.IsZero() {
		t.Error("last_updated should be set")
	}
}

func hoursPtr(h float64) *float64 { return &h }

func TestDashboardProductivity(t *testing.T) {
	svc, taskSvc, _ := newTestDashboardService()
	ctx := context.Background()
	userID := uuid.New()

	past := time.Now().Add(-24 * time.Hour)
	seed := []model.TaskRequest{
		{Title: "a", StatusID: 3, PriorityID: 1, EstimatedHours: hoursPtr(4), ActualHours: hoursPtr(6)},
		{Title: "b", StatusID: 3, PriorityID: 1, EstimatedHours: hoursPtr(6), ActualHours: hoursPtr(2)},
		{Title: "c", StatusID: 1, PriorityID: 1, DueDate: &past},
	}
	for _, req := range seed {
		if _, err := taskSvc.Create(ctx, userID, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	metrics, err := svc.Productivity(ctx, userID)
	if err != nil {
		t.Fatalf("Productivity: %v", err)
	}
	if metrics.EstimatedHours != 10 || metrics.ActualHours != 8 {
		t.Errorf("hours = %v estimated, %v actual, want 10 and 8", metrics.EstimatedHours, metrics.ActualHours)
	}
	if metrics.Efficiency == nil {
		t.Fatal("efficiency should be reported when estimates exist")
	}
	if *metrics.Efficiency != 80.0 {
		t.Errorf("efficiency = %v, want 80", *metrics.Efficiency)
	}
	if metrics.CompletedThisMonth != 2 {
		t.Errorf("completed this month = %d, want 2", metrics.CompletedThisMonth)
	}
	if metrics.OverdueTasks != 1 {
		t.Errorf("overdue = %d, want 1", metrics.OverdueTasks)
	}
}

func TestDashboardProductivityWithoutEstimates(t *testing.T) {
	svc, taskSvc, _ := newTestDashboardService()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := taskSvc.Create(ctx, userID, model.TaskRequest{Title: "a", StatusID: 1, PriorityID: 1, ActualHours: hoursPtr(3)}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	metrics, err := svc.Productivity(ctx, userID)
	if err != nil {
		t.Fatalf("Productivity: %v", err)
	}
	if metrics.Efficiency != nil {
		t.Errorf("efficiency = %v, want omitted when nothing was estimated", *metrics.Efficiency)
	}
}

func TestDashboardWeeklyProgress(t *testing.T) {
	svc, taskSvc, _ := newTestDashboardService()
	ctx := context.Background()
	userID := uuid.New()

	yesterday := time.Now().Add(-24 * time.Hour)
	seed := []model.TaskRequest{
		{Title: "completed", StatusID: 3, PriorityID: 1},
		{Title: "open", StatusID: 1, PriorityID: 1},
		{Title: "went overdue", StatusID: 1, PriorityID: 1, DueDate: &yesterday},
	}
	for _, req := range seed {
		if _, err := taskSvc.Create(ctx, userID, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	weekly, err := svc.WeeklyProgress(ctx, userID)
	if err != nil {
		t.Fatalf("WeeklyProgress: %v", err)
	}
	if weekly.CompletedThisWeek != 1 {
		t.Errorf("completed this week = %d, want 1", weekly.CompletedThisWeek)
	}
	if weekly.CreatedThisWeek != 3 {
		t.Errorf("created this week = %d, want 3", weekly.CreatedThisWeek)
	}
	if weekly.OverdueThisWeek != 1 {
		t.Errorf("overdue this week = %d, want 1", weekly.OverdueThisWeek)
	}
}

func TestDashboardCategoryAnalytics(t *testing.T) {
	svc, taskSvc, categories := newTestDashboardService()
	ctx := context.Background()
	userID := uuid.New()

	work := &model.Category{Name: "Work", CreatedBy: userID, IsActive: true}
	home := &model.Category{Name: "Home", CreatedBy: userID, IsActive: true}
	for _, c := range []*model.Category{work, home} {
		if err := categories.Create(ctx, c); err != nil {
			t.Fatalf("Create category: %v", err)
		}
	}

	seed := []*int{&work.CategoryID, &work.CategoryID, &home.CategoryID, nil}
	for _, categoryID := range seed {
		if _, err := taskSvc.Create(ctx, userID, model.TaskRequest{Title: "t", StatusID: 1, PriorityID: 1, CategoryID: categoryID}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	analytics, err := svc.CategoryAnalytics(ctx, userID)
	if err != nil {
		t.Fatalf("CategoryAnalytics: %v", err)
	}
	if analytics.Distribution["Work"] != 2 || analytics.Distribution["Home"] != 1 {
		t.Errorf("distribution = %v", analytics.Distribution)
	}
	if len(analytics.MostUsed) != 2 {
		t.Fatalf("most used = %d categories, want 2", len(analytics.MostUsed))
	}
	if analytics.MostUsed[0].CategoryName != "Work" || analytics.MostUsed[0].Count != 2 {
		t.Errorf("top category = %+v, want Work with 2", analytics.MostUsed[0])
	}
}

func TestDashboardPerformanceTrends(t *testing.T) {
	svc, taskSvc, _ := newTestDashboardService()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := taskSvc.Create(ctx, userID, model.TaskRequest{Title: "t", StatusID: 3, PriorityID: 1}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	trends, err := svc.PerformanceTrends(ctx, userID)
	if err != nil {
		t.Fatalf("PerformanceTrends: %v", err)
	}
	if trends.Weekly.CompletedThisWeek != 2 {
		t.Errorf("completed this week = %d, want 2", trends.Weekly.CompletedThisWeek)
	}
	if trends.TrendDirection != "improving" {
		t.Errorf("trend = %q, want improving with no completions last week", trends.TrendDirection)
	}
	if trends.TrendPercentage != 100.0 {
		t.Errorf("trend percentage = %v, want 100", trends.TrendPercentage)
	}
}

func TestTrendOf(t *testing.T) {
	cases := []struct {
		name          string
		this, prev    int64
		wantDirection string
		wantPercent   float64
	}{
		{"first active week", 3, 0, "improving", 100.0},
		{"more than last week", 6, 4, "improving", 50.0},
		{"fewer than last week", 1, 4, "declining", 75.0},
		{"same as last week", 4, 4, "steady", 0.0},
		{"nothing either week", 0, 0, "steady", 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			direction, percent := trendOf(tc.this, tc.prev)
			if direction != tc.wantDirection || percent != tc.wantPercent {
				t.Errorf("trendOf(%d, %d) = %q, %v, want %q, %v",
					tc.this, tc.prev, direction, percent, tc.wantDirection, tc.wantPercent)
			}
		})
	}
}
