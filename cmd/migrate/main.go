package main

import (
	"context"
	"log/slog"
	"os"

	"mcdee-marketplace/internal/handler/middleware"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/config"
)

// Usage: migrate [up|down|status|reset]
func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).Slog()

	if err := db.Migrate(context.Background(), cfg.DB, command); err != nil {
		logger.Error("マイグレーションに失敗しました", "command", command, "error", err)
		os.Exit(1)
	}
	logger.Info("マイグレーションが完了しました", "command", command)
}
