package queries

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/listfilter"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound     = errs.New("booking not found")
	ErrInvalidStatusFilter = errs.New("invalid status filter")
)

// BookingScope narrows a list to one guest or one vendor. The zero value
// lists every booking and is reserved for admins.
type BookingScope struct {
	UserID   *uuid.UUID
	VendorID *uuid.UUID
}

type BookingQueries interface {
	// Get is allowed for the guest, the listing's vendor and admins.
	Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, scope BookingScope, status string, page Page) (List[*BookingView], error)
	Statuses() []booking.StatusDescriptor
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// List filters by status when status is non-nil.
	List(ctx context.Context, scope BookingScope, status *booking.Status, keyset Keyset) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, err
	}
	if !actor.IsAdmin() && v.UserID != actor.ID && v.VendorID != actor.ID {
		return nil, errs.ErrForbidden
	}
	return Decorate(v), nil
}

// List treats "" and "all" as no status filter.
func (q *bookingQueriesImpl) List(ctx context.Context, scope BookingScope, status string, page Page) (List[*BookingView], error) {
	var filter *booking.Status
	if !listfilter.IsAll(status) {
		s, err := booking.ParseStatus(status)
		if err != nil {
			return List[*BookingView]{}, errs.Mark(err, ErrInvalidStatusFilter)
		}
		filter = &s
	}

	keyset, err := page.Keyset()
	if err != nil {
		return List[*BookingView]{}, err
	}
	rows, err := q.store.List(ctx, scope, filter, keyset)
	if err != nil {
		return List[*BookingView]{}, err
	}
	for _, v := range rows {
		Decorate(v)
	}
	return paginate(rows, keyset.Limit, func(v *BookingView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}

func (q *bookingQueriesImpl) Statuses() []booking.StatusDescriptor {
	return booking.DescriptorTable()
}

// Decorate fills the fields derived from status and dates.
func Decorate(v *BookingView) *BookingView {
	v.StatusDescriptor, _ = booking.Describe(v.Status)
	v.AllowedActions = booking.AllowedActions(v.Status)
	if stay, err := booking.NewStay(v.CheckIn, v.CheckOut); err == nil {
		v.Nights = stay.Nights()
	}
	if es, err := escrow.ParseStatus(v.EscrowStatus); err == nil {
		v.EscrowLabel = es.Label()
	}
	return v
}
