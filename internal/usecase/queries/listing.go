package queries

import (
	"context"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrListingNotFound = errs.New("listing not found")

type ListingFilter struct {
	City string
	// VendorID, when set, also includes that vendor's inactive listings.
	VendorID *uuid.UUID
}

type ListingQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*ListingView, error)
	List(ctx context.Context, filter ListingFilter, page Page) (List[*ListingView], error)
}

type ListingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ListingView, error)
	List(ctx context.Context, filter ListingFilter, keyset Keyset) ([]*ListingView, error)
}

type listingQueriesImpl struct {
	store ListingReadStore
}

func NewListingQueries(store ListingReadStore) ListingQueries {
	return &listingQueriesImpl{store: store}
}

func (q *listingQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*ListingView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrListingNotFound)
		}
		return nil, err
	}
	return v, nil
}

func (q *listingQueriesImpl) List(ctx context.Context, filter ListingFilter, page Page) (List[*ListingView], error) {
	keyset, err := page.Keyset()
	if err != nil {
		return List[*ListingView]{}, err
	}
	rows, err := q.store.List(ctx, filter, keyset)
	if err != nil {
		return List[*ListingView]{}, err
	}
	return paginate(rows, keyset.Limit, func(v *ListingView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}
