package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/kyc"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type KYCRepository struct {
	db db.DBTX
}

func NewKYCRepository(db db.DBTX) *KYCRepository {
	return &KYCRepository{db: db}
}

// Create fails with KindDuplicateKey when the vendor already has a pending submission.
func (r *KYCRepository) Create(ctx context.Context, s *kyc.Submission) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO kyc_submissions (id, vendor_id, business_name, document_type, document_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID(), s.VendorID(), s.BusinessName(), string(s.DocumentType()), s.DocumentURL(),
		s.Status().String(), s.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create kyc submission", err)
	}
	return nil
}

func (r *KYCRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*kyc.Submission, error) {
	var (
		sid, vendorID                                 uuid.UUID
		businessName, docType, docURL, status, reason string
		reviewerID                                    pgtype.UUID
		reviewedAt                                    pgtype.Timestamptz
		createdAt                                     time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, vendor_id, business_name, document_type, document_url, status,
			reviewer_id, reason, reviewed_at, created_at
		FROM kyc_submissions WHERE id = $1 FOR UPDATE`, id,
	).Scan(&sid, &vendorID, &businessName, &docType, &docURL, &status,
		&reviewerID, &reason, &reviewedAt, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("kyc submission not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find kyc submission", err)
	}

	return kyc.ReconstructSubmission(sid, vendorID, businessName, kyc.DocumentType(docType), docURL,
		kyc.Status(status), pgconv.UUIDPtrFromPgtype(reviewerID), reason,
		pgconv.TimePtrFromPgtype(reviewedAt), createdAt), nil
}

func (r *KYCRepository) UpdateReview(ctx context.Context, s *kyc.Submission) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE kyc_submissions
		SET status = $2, reviewer_id = $3, reason = $4, reviewed_at = $5
		WHERE id = $1`,
		s.ID(), s.Status().String(), pgconv.UUIDPtrToPgtype(s.ReviewerID()), s.Reason(),
		pgconv.TimePtrToPgtype(s.ReviewedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update kyc submission", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("kyc submission not found", nil, infra.KindNotFound)
	}
	return nil
}
