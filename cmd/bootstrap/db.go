package bootstrap

import (
	"context"
	"log/slog"

	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB connects the pool, running migrations first when DB_AUTO_MIGRATE is set.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(context.Background(), cfg.DB, "up"); err != nil {
			return nil, err
		}
		logger.Info("マイグレーションを適用しました", "database", cfg.DB.DBName)
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return pool, nil
}
