package queries

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/serviceorder"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/listfilter"

	"github.com/google/uuid"
)

type ServiceVendorFilter struct {
	Category string
	City     string
}

type ServiceOrderScope struct {
	UserID       *uuid.UUID
	VendorUserID *uuid.UUID
}

type ServiceQueries interface {
	ListVendors(ctx context.Context, filter ServiceVendorFilter) ([]*ServiceVendorView, error)
	ListOrders(ctx context.Context, scope ServiceOrderScope, status string, page Page) (List[*ServiceOrderView], error)
}

type ServiceReadStore interface {
	// ListVendors returns every profile with its active pricing rows.
	ListVendors(ctx context.Context) ([]*ServiceVendorView, error)
	ListOrders(ctx context.Context, scope ServiceOrderScope, status *string, keyset Keyset) ([]*ServiceOrderView, error)
}

type serviceQueriesImpl struct {
	store ServiceReadStore
}

func NewServiceQueries(store ServiceReadStore) ServiceQueries {
	return &serviceQueriesImpl{store: store}
}

func (q *serviceQueriesImpl) ListVendors(ctx context.Context, filter ServiceVendorFilter) ([]*ServiceVendorView, error) {
	vendors, err := q.store.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	vendors = listfilter.Apply(vendors, filter.Category, func(v *ServiceVendorView) string { return v.Category })
	vendors = listfilter.Apply(vendors, filter.City, func(v *ServiceVendorView) string { return v.City })
	return vendors, nil
}

func (q *serviceQueriesImpl) ListOrders(ctx context.Context, scope ServiceOrderScope, status string, page Page) (List[*ServiceOrderView], error) {
	var filter *string
	if !listfilter.IsAll(status) {
		s, err := serviceorder.ParseStatus(status)
		if err != nil {
			return List[*ServiceOrderView]{}, errs.Mark(err, ErrInvalidStatusFilter)
		}
		str := s.String()
		filter = &str
	}

	keyset, err := page.Keyset()
	if err != nil {
		return List[*ServiceOrderView]{}, err
	}
	rows, err := q.store.ListOrders(ctx, scope, filter, keyset)
	if err != nil {
		return List[*ServiceOrderView]{}, err
	}
	return paginate(rows, keyset.Limit, func(v *ServiceOrderView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}
