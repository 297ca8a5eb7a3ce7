package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

// IdempotencyWindow is how long a key keeps replaying its first result.
const IdempotencyWindow = 24 * time.Hour

// idempotencyGuard claims an Idempotency-Key before the work runs and records
// the result id in the same transaction as the work itself.
type idempotencyGuard struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

type claim struct {
	key      uuid.UUID
	userID   uuid.UUID
	resultID string
	replayed bool
}

// run executes fn at most once per (key, user). A completed key carrying the
// same request replays its stored result id without calling fn.
func (g idempotencyGuard) run(
	ctx context.Context,
	key, userID uuid.UUID,
	endpoint string,
	request any,
	fn func(ctx context.Context, tx shared.Tx) (string, error),
) (string, bool, error) {
	c, err := g.claim(ctx, key, userID, endpoint, request)
	if err != nil {
		return "", false, err
	}
	if c.replayed {
		return c.resultID, true, nil
	}

	resultID, err := g.complete(ctx, c, fn)
	if err != nil {
		return "", false, err
	}
	return resultID, false, nil
}

func (g idempotencyGuard) claim(ctx context.Context, key, userID uuid.UUID, endpoint string, request any) (*claim, error) {
	if key == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}
	hash, err := requestHash(endpoint, request)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}

	var existing *shared.IdempotencyRecord
	err = g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Idempotency().TryInsert(ctx, key, userID, endpoint, hash, g.clock.Now().Add(IdempotencyWindow))
		if err != nil || inserted {
			return err
		}
		existing, err = tx.Idempotency().Get(ctx, key, userID)
		return err
	})
	if err != nil {
		// The competing attempt released its claim between our insert and read.
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrIdempotencyInProgress
		}
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}

	c := &claim{key: key, userID: userID}
	if existing == nil {
		return c, nil
	}
	if existing.Endpoint != endpoint || existing.RequestHash != hash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultID == nil {
			return nil, errs.Mark(errs.New("completed idempotency key has no result"), errs.ErrIdempotencyCheckFailed)
		}
		c.resultID = *existing.ResultID
		c.replayed = true
		return c, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.Mark(errs.Newf("invalid idempotency key status %q", existing.Status), errs.ErrIdempotencyCheckFailed)
	}
}

// complete runs fn and marks the key completed in one transaction. On failure
// the claim is released so the client may retry with the same key.
func (g idempotencyGuard) complete(ctx context.Context, c *claim, fn func(ctx context.Context, tx shared.Tx) (string, error)) (string, error) {
	var resultID string
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.Idempotency().Complete(ctx, c.key, c.userID, id); err != nil {
			return errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		resultID = id
		return nil
	})
	if err != nil {
		g.release(ctx, c)
		return "", err
	}
	return resultID, nil
}

func (g idempotencyGuard) release(ctx context.Context, c *claim) {
	ctx = context.WithoutCancel(ctx)
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, c.key, c.userID)
	})
	if err != nil {
		slog.Warn("failed to release idempotency key", "key", c.key, "user_id", c.userID, "error", err.Error())
	}
}

func requestHash(endpoint string, request any) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(endpoint+"\n"), body...))
	return hex.EncodeToString(sum[:]), nil
}
