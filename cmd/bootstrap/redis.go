package bootstrap

import (
	"context"

	"mcdee-marketplace/internal/infra/lock"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		fx.Annotate(
			func(client *redis.Client, cfg config.Config) *lock.RedisLocker {
				return lock.NewRedisLocker(client, cfg.Redis)
			},
			fx.As(new(shared.Locker)),
		),
	),
)

// NewRedisClient does not ping; a missing Redis surfaces as a lock error on
// the first payment initiation instead of blocking startup.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := lock.NewRedisClient(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}
