package queries

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/listfilter"

	"github.com/google/uuid"
)

// OrderScope selects the orders of one buyer, one vendor or one checkout.
type OrderScope struct {
	UserID     *uuid.UUID
	VendorID   *uuid.UUID
	CheckoutID *uuid.UUID
}

type OrderQueries interface {
	List(ctx context.Context, scope OrderScope, status string, page Page) (List[*OrderView], error)
}

type OrderReadStore interface {
	List(ctx context.Context, scope OrderScope, status *string, keyset Keyset) ([]*OrderView, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) List(ctx context.Context, scope OrderScope, status string, page Page) (List[*OrderView], error) {
	var filter *string
	if !listfilter.IsAll(status) {
		s, err := order.ParseStatus(status)
		if err != nil {
			return List[*OrderView]{}, errs.Mark(err, ErrInvalidStatusFilter)
		}
		str := s.String()
		filter = &str
	}

	keyset, err := page.Keyset()
	if err != nil {
		return List[*OrderView]{}, err
	}
	rows, err := q.store.List(ctx, scope, filter, keyset)
	if err != nil {
		return List[*OrderView]{}, err
	}
	return paginate(rows, keyset.Limit, func(v *OrderView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}
