package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_jobs (kind, topic, payload, status, run_at)
		VALUES ($1, $2, $3, 'queued', $4)`,
		kind, topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) ClaimBatch(ctx context.Context, limit int, now time.Time) ([]shared.NotificationJob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, kind, topic, payload, attempts
		FROM notification_jobs
		WHERE status = 'queued' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var j shared.NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = $2
		WHERE id = $1`, id, now)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed requeues the job at retryAt until maxAttempts is reached, then parks it as failed.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int, retryAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
			last_error = $2,
			status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'queued' END,
			run_at = $4,
			updated_at = now()
		WHERE id = $1`, id, lastError, maxAttempts, retryAt)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
