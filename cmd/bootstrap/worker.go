package bootstrap

import (
	"context"
	"log/slog"

	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase/shared"
	"mcdee-marketplace/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(uow shared.UnitOfWork, publisher shared.Publisher, clk clock.Clock, cfg config.Config, logger *slog.Logger) *worker.Dispatcher {
			return worker.NewDispatcher(uow, publisher, clk, cfg.Worker, logger)
		},
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config, logger *slog.Logger) *worker.Janitor {
			return worker.NewJanitor(uow, clk, cfg.Worker, cfg.Payment, logger)
		},
	),
	fx.Invoke(startWorkers),
)

// startWorkers runs the background loops for the lifetime of the app. With
// WORKER_ENABLED=false another process is expected to run them.
func startWorkers(lc fx.Lifecycle, cfg config.Config, dispatcher *worker.Dispatcher, janitor *worker.Janitor, logger *slog.Logger) {
	if !cfg.Worker.Enabled {
		logger.Info("background workers disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				dispatcher.Start(ctx)
				done <- struct{}{}
			}()
			go func() {
				janitor.Start(ctx)
				done <- struct{}{}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			for range 2 {
				select {
				case <-done:
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			}
			return nil
		},
	})
}
