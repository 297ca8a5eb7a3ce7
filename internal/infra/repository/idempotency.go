package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(db db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// TryInsert takes over an expired row in the same statement, so a key that
// outlived its window behaves like a fresh one.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
			request_hash = EXCLUDED.request_hash,
			status = 'processing',
			result_id = NULL,
			created_at = now(),
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at < now()`,
		key, userID, endpoint, requestHash, expiresAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.Text
	)
	err := r.db.QueryRow(ctx, `
		SELECT key, user_id, endpoint, status, request_hash, result_id, expires_at
		FROM idempotency_keys WHERE key = $1 AND user_id = $2`, key, userID,
	).Scan(&rec.Key, &rec.UserID, &rec.Endpoint, &rec.Status, &rec.RequestHash, &resultID, &rec.ExpiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.ResultID = pgconv.StringPtrFromPgtype(resultID)
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, userID uuid.UUID, resultID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE idempotency_keys SET status = 'completed', result_id = $3
		WHERE key = $1 AND user_id = $2 AND status = 'processing'`, key, userID, resultID)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key is not in processing state", nil, infra.KindConflict)
	}
	return nil
}

// Release drops a processing claim after a failed attempt so the client can retry.
func (r *IdempotencyRepository) Release(ctx context.Context, key, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND user_id = $2 AND status = 'processing'`, key, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < $1`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
