package worker

import (
	"context"
	"log/slog"
	"time"

	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase/shared"
)

// Janitor abandons payment sessions the payer never finished and drops
// idempotency records past their window.
type Janitor struct {
	uow        shared.UnitOfWork
	clock      clock.Clock
	interval   time.Duration
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewJanitor(
	uow shared.UnitOfWork,
	clk clock.Clock,
	workerCfg config.WorkerConfig,
	paymentCfg config.PaymentConfig,
	logger *slog.Logger,
) *Janitor {
	return &Janitor{
		uow:        uow,
		clock:      clk,
		interval:   workerCfg.JanitorInterval,
		sessionTTL: paymentCfg.SessionTTL,
		logger:     logger,
	}
}

func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("janitor started", slog.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-ticker.C:
			j.tick(ctx)
		}
	}
}

func (j *Janitor) tick(ctx context.Context) {
	abandoned, expired, err := j.SweepOnce(ctx)
	if err != nil {
		j.logger.Error("janitor sweep failed", slog.String("error", err.Error()))
		return
	}
	if abandoned > 0 || expired > 0 {
		j.logger.Info("janitor swept",
			slog.Int64("abandoned_payments", abandoned),
			slog.Int64("expired_idempotency_keys", expired),
		)
	}
}

func (j *Janitor) SweepOnce(ctx context.Context) (abandoned, expired int64, err error) {
	err = j.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := j.clock.Now()
		var err error
		if abandoned, err = tx.Payments().AbandonStale(ctx, now.Add(-j.sessionTTL), now); err != nil {
			return err
		}
		expired, err = tx.Idempotency().DeleteExpired(ctx, now)
		return err
	})
	return abandoned, expired, err
}
