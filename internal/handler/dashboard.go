package handler

import (
	"log/slog"
	"net/http"

	"github.com/taskforge/taskforge-api/internal/service"
)

// DashboardHandler handles HTTP requests for workload summaries.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// HandleSummary handles GET /api/dashboard requests.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), id.UserID)
	if err != nil {
		slog.Error("dashboard summary failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleProductivity handles GET /api/dashboard/productivity requests.
func (h *DashboardHandler) HandleProductivity(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	metrics, err := h.service.Productivity(r.Context(), id.UserID)
	if err != nil {
		slog.Error("productivity metrics failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// HandleWeeklyProgress handles GET /api/dashboard/weekly-progress requests.
func (h *DashboardHandler) HandleWeeklyProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	progress, err := h.service.WeeklyProgress(r.Context(), id.UserID)
	if err != nil {
		slog.Error("weekly progress failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// HandleCategoryAnalytics handles GET /api/dashboard/category-analytics requests.
func (h *DashboardHandler) HandleCategoryAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	analytics, err := h.service.CategoryAnalytics(r.Context(), id.UserID)
	if err != nil {
		slog.Error("category analytics failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// HandlePerformanceTrends handles GET /api/dashboard/performance-trends requests.
func (h *DashboardHandler) HandlePerformanceTrends(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	trends, err := h.service.PerformanceTrends(r.Context(), id.UserID)
	if err != nil {
		slog.Error("performance trends failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

// HandleStatusDistribution handles GET /api/dashboard/status-distribution requests.
func (h *DashboardHandler) HandleStatusDistribution(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	dist, err := h.service.StatusDistribution(r.Context(), id.UserID)
	if err != nil {
		slog.Error("status distribution failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

// HandlePriorityDistribution handles GET /api/dashboard/priority-distribution requests.
func (h *DashboardHandler) HandlePriorityDistribution(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	dist, err := h.service.PriorityDistribution(r.Context(), id.UserID)
	if err != nil {
		slog.Error("priority distribution failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, dist)
}
