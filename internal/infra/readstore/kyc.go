package readstore

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type KYCReadStore struct {
	db db.DBTX
}

func NewKYCReadStore(db db.DBTX) *KYCReadStore {
	return &KYCReadStore{db: db}
}

// List returns every submission, oldest first, so reviewers work the queue in order.
func (r *KYCReadStore) List(ctx context.Context) ([]*queries.KYCView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT k.id, k.vendor_id, u.name, u.email, k.business_name, k.document_type, k.document_url,
			k.status, k.reviewer_id, k.reason, k.reviewed_at, k.created_at
		FROM kyc_submissions k
		JOIN users u ON u.id = k.vendor_id
		ORDER BY k.created_at, k.id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list kyc submissions", err)
	}
	defer rows.Close()

	var views []*queries.KYCView
	for rows.Next() {
		var (
			v          queries.KYCView
			reviewerID pgtype.UUID
			reviewedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&v.ID, &v.VendorID, &v.VendorName, &v.VendorEmail, &v.BusinessName, &v.DocumentType,
			&v.DocumentURL, &v.Status, &reviewerID, &v.Reason, &reviewedAt, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan kyc submission", err)
		}
		v.ReviewerID = pgconv.UUIDPtrFromPgtype(reviewerID)
		v.ReviewedAt = pgconv.TimePtrFromPgtype(reviewedAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate kyc submissions", err)
	}
	return views, nil
}
