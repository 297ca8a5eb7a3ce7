// Package worker runs the background loops: the outbox dispatcher that
// publishes queued domain events, and the janitor that expires stale rows.
package worker

import (
	"context"
	"log/slog"
	"time"

	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase/shared"
)

const maxRetryDelay = 10 * time.Minute

type Dispatcher struct {
	uow         shared.UnitOfWork
	publisher   shared.Publisher
	clock       clock.Clock
	interval    time.Duration
	batchSize   int
	maxAttempts int
	logger      *slog.Logger
}

func NewDispatcher(
	uow shared.UnitOfWork,
	publisher shared.Publisher,
	clk clock.Clock,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		uow:         uow,
		publisher:   publisher,
		clock:       clk,
		interval:    cfg.OutboxInterval,
		batchSize:   cfg.OutboxBatchSize,
		maxAttempts: cfg.OutboxMaxAttempt,
		logger:      logger,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("outbox dispatcher started", slog.Duration("interval", d.interval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	sent, failed, err := d.DispatchOnce(ctx)
	if err != nil {
		d.logger.Error("failed to dispatch outbox", slog.String("error", err.Error()))
		return
	}
	if sent > 0 || failed > 0 {
		d.logger.Info("outbox dispatched", slog.Int("sent", sent), slog.Int("failed", failed))
	}
}

// DispatchOnce claims one batch and publishes it. Jobs stay row-locked for the
// whole batch, so concurrent dispatchers never publish the same job twice.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (sent, failed int, err error) {
	err = d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent, failed = 0, 0
		now := d.clock.Now()
		jobs, err := tx.Notifications().ClaimBatch(ctx, d.batchSize, now)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if pubErr := d.publisher.Publish(ctx, job.Topic, job.Payload); pubErr != nil {
				d.logger.Warn("failed to publish event",
					slog.String("job_id", job.ID.String()),
					slog.String("topic", job.Topic),
					slog.Int("attempts", job.Attempts+1),
					slog.String("error", pubErr.Error()),
				)
				retryAt := now.Add(retryDelay(job.Attempts + 1))
				if err := tx.Notifications().MarkFailed(ctx, job.ID, pubErr.Error(), d.maxAttempts, retryAt); err != nil {
					return err
				}
				failed++
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, job.ID, now); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	return sent, failed, err
}

// retryDelay doubles from five seconds per attempt, capped at maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	delay := 5 * time.Second
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
