package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/taskforge/taskforge-api/internal/config"
	"github.com/taskforge/taskforge-api/internal/handler"
	"github.com/taskforge/taskforge-api/internal/middleware"
	"github.com/taskforge/taskforge-api/internal/repository"
	"github.com/taskforge/taskforge-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	masterDataRepo := repository.NewMasterDataRepository(db)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.JWTSecret, cfg.JWTExpiry)
	taskService := service.NewTaskService(taskRepo, masterDataRepo, categoryRepo, userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	dashboardService := service.NewDashboardService(taskRepo, masterDataRepo, taskService)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	masterDataHandler := handler.NewMasterDataHandler(masterDataRepo)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(authService, cfg.AuthSkipPaths))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/auth/register", authHandler.HandleRegister)
		r.Post("/api/auth/login", authHandler.HandleLogin)
	})

	// Logout and validate stay reachable with any token state: both always
	// answer 200.
	r.Post("/api/auth/logout", authHandler.HandleLogout)
	r.Get("/api/auth/validate", authHandler.HandleValidate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/api/auth/me", authHandler.HandleMe)
		r.Put("/api/auth/profile", authHandler.HandleUpdateProfile)
		r.Post("/api/auth/change-password", authHandler.HandleChangePassword)

		r.Get("/api/tasks", taskHandler.HandleList)
		r.Post("/api/tasks", taskHandler.HandleCreate)
		r.Get("/api/tasks/upcoming", taskHandler.HandleUpcoming)
		r.Get("/api/tasks/overdue", taskHandler.HandleOverdue)
		r.Get("/api/tasks/recent", taskHandler.HandleRecent)
		r.Get("/api/tasks/filter/date-range", taskHandler.HandleDueRange)
		r.Get("/api/tasks/{task_id}", taskHandler.HandleGet)
		r.Put("/api/tasks/{task_id}", taskHandler.HandleUpdate)
		r.Put("/api/tasks/{task_id}/assign", taskHandler.HandleAssign)
		r.Delete("/api/tasks/{task_id}", taskHandler.HandleDelete)

		r.Get("/api/categories", categoryHandler.HandleList)
		r.Get("/api/categories/search", categoryHandler.HandleSearch)
		r.Post("/api/categories", categoryHandler.HandleCreate)
		r.Put("/api/categories/{category_id}", categoryHandler.HandleUpdate)
		r.Delete("/api/categories/{category_id}", categoryHandler.HandleDelete)

		r.Get("/api/dashboard", dashboardHandler.HandleSummary)
		r.Get("/api/dashboard/status-distribution", dashboardHandler.HandleStatusDistribution)
		r.Get("/api/dashboard/priority-distribution", dashboardHandler.HandlePriorityDistribution)
		r.Get("/api/dashboard/productivity", dashboardHandler.HandleProductivity)
		r.Get("/api/dashboard/weekly-progress", dashboardHandler.HandleWeeklyProgress)
		r.Get("/api/dashboard/category-analytics", dashboardHandler.HandleCategoryAnalytics)
		r.Get("/api/dashboard/performance-trends", dashboardHandler.HandlePerformanceTrends)

		r.Get("/api/master-data/statuses", masterDataHandler.HandleStatuses)
		r.Get("/api/master-data/priorities", masterDataHandler.HandlePriorities)
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go service.NewSessionSweeper(authService, cfg.SessionSweepInterval).Run(sweepCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
