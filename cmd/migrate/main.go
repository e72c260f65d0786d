package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/taskforge/taskforge-api/internal/config"
	"github.com/taskforge/taskforge-api/internal/repository"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := repository.Migrate(cfg.DatabaseDSN, *direction); err != nil {
		if errors.Is(err, repository.ErrNoChange) {
			slog.Info("schema already up to date")
			return
		}
		slog.Error("migration failed", "direction", *direction, "error", err)
		os.Exit(1)
	}

	slog.Info("migrations applied", "direction", *direction)
}
