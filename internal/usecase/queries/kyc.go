package queries

import (
	"context"

	"mcdee-marketplace/internal/domain/kyc"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/listfilter"
)

type KYCQueries interface {
	// List filters by status with "all" (or "") meaning every submission.
	List(ctx context.Context, status string) ([]*KYCView, error)
}

type KYCReadStore interface {
	List(ctx context.Context) ([]*KYCView, error)
}

type kycQueriesImpl struct {
	store KYCReadStore
}

func NewKYCQueries(store KYCReadStore) KYCQueries {
	return &kycQueriesImpl{store: store}
}

func (q *kycQueriesImpl) List(ctx context.Context, status string) ([]*KYCView, error) {
	if !listfilter.IsAll(status) {
		if _, err := kyc.ParseStatus(status); err != nil {
			return nil, errs.Mark(err, ErrInvalidStatusFilter)
		}
	}
	rows, err := q.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return listfilter.Apply(rows, status, func(v *KYCView) string { return v.Status }), nil
}
