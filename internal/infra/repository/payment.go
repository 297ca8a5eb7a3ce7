package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `id, reference, subject_type, subject_id, user_id, amount_kobo, currency,
	status, authorization_url, access_code, paid_at, created_at, updated_at`

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(db db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, reference, subject_type, subject_id, user_id, amount_kobo, currency,
			status, authorization_url, access_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		p.ID(), p.Reference(), p.SubjectType().String(), p.SubjectID(), p.UserID(), p.Amount().Kobo(),
		p.Currency(), p.Status().String(), p.AuthorizationURL(), p.AccessCode(), p.CreatedAt(),
	)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to create payment", err)
		if infra.IsKind(wrapped, infra.KindDuplicateKey) {
			return infra.WrapRepoErr("an open payment already exists for this subject", err, infra.KindConflict)
		}
		return wrapped
	}
	return nil
}

func (r *PaymentRepository) FindByReferenceForUpdate(ctx context.Context, reference string) (*payment.Payment, error) {
	return r.findOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE reference = $1 FOR UPDATE`, reference)
}

func (r *PaymentRepository) FindOpenBySubject(ctx context.Context, subjectType payment.SubjectType, subjectID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE subject_type = $1 AND subject_id = $2 AND status = 'initialized'
		FOR UPDATE`, subjectType.String(), subjectID)
}

func (r *PaymentRepository) FindSucceededBySubject(ctx context.Context, subjectType payment.SubjectType, subjectID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE subject_type = $1 AND subject_id = $2 AND status = 'success'
		ORDER BY paid_at DESC
		LIMIT 1
		FOR UPDATE`, subjectType.String(), subjectID)
}

func (r *PaymentRepository) findOne(ctx context.Context, query string, args ...any) (*payment.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, p *payment.Payment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status = $2, paid_at = $3, updated_at = $4 WHERE id = $1`,
		p.ID(), p.Status().String(), pgconv.TimePtrToPgtype(p.PaidAt()), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PaymentRepository) AbandonStale(ctx context.Context, createdBefore, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status = 'abandoned', updated_at = $2
		WHERE status = 'initialized' AND created_at < $1`, createdBefore, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to abandon stale payments", err)
	}
	return tag.RowsAffected(), nil
}

func scanPayment(row rowScanner) (*payment.Payment, error) {
	var (
		id, subjectID, userID                uuid.UUID
		reference, subjectType, currency     string
		status, authorizationURL, accessCode string
		amountKobo                           int64
		paidAt                               pgtype.Timestamptz
		createdAt, updatedAt                 time.Time
	)
	if err := row.Scan(&id, &reference, &subjectType, &subjectID, &userID, &amountKobo, &currency,
		&status, &authorizationURL, &accessCode, &paidAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return payment.ReconstructPayment(id, reference, payment.SubjectType(subjectType), subjectID, userID,
		money.FromKobo(amountKobo), currency, payment.Status(status), authorizationURL, accessCode,
		pgconv.TimePtrFromPgtype(paidAt), createdAt, updatedAt), nil
}
