package queries

import (
	"context"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/listfilter"

	"github.com/google/uuid"
)

var ErrProductNotFound = errs.New("product not found")

type ProductFilter struct {
	Search   string
	Category string
	VendorID *uuid.UUID
	// IncludeInactive is set for a vendor browsing their own catalogue.
	IncludeInactive bool
}

type ProductQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context, filter ProductFilter, page Page) (List[*ProductView], error)
}

type ProductReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context, filter ProductFilter, keyset Keyset) ([]*ProductView, error)
}

type productQueriesImpl struct {
	store ProductReadStore
}

func NewProductQueries(store ProductReadStore) ProductQueries {
	return &productQueriesImpl{store: store}
}

func (q *productQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrProductNotFound)
		}
		return nil, err
	}
	return v, nil
}

func (q *productQueriesImpl) List(ctx context.Context, filter ProductFilter, page Page) (List[*ProductView], error) {
	if listfilter.IsAll(filter.Category) {
		filter.Category = ""
	}
	keyset, err := page.Keyset()
	if err != nil {
		return List[*ProductView]{}, err
	}
	rows, err := q.store.List(ctx, filter, keyset)
	if err != nil {
		return List[*ProductView]{}, err
	}
	return paginate(rows, keyset.Limit, func(v *ProductView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}
