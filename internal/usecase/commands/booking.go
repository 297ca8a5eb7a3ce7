package commands

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/payment"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound       = errs.New("booking not found")
	ErrListingUnavailable    = errs.New("listing is not available for booking")
	ErrBookingOverlap        = errs.New("listing is already booked for these dates")
	ErrBookingStatusMismatch = errs.New("booking status changed since it was read")
)

const endpointCreateBooking = "POST /api/bookings"

type CreateBookingResult struct {
	BookingID  uuid.UUID
	IsReplayed bool
}

type BookingCommands interface {
	Create(ctx context.Context, userID, idempotencyKey uuid.UUID, req reqdto.CreateBookingRequest) (*CreateBookingResult, error)
	Approve(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) error
	CheckIn(ctx context.Context, userID, bookingID uuid.UUID) error
	CheckOut(ctx context.Context, userID, bookingID uuid.UUID) error
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) error
	UpdateStatus(ctx context.Context, adminID, bookingID uuid.UUID, req reqdto.UpdateBookingStatusRequest) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	guard idempotencyGuard
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		uow:   uow,
		guard: idempotencyGuard{uow: uow, clock: clock},
		clock: clock,
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, userID, idempotencyKey uuid.UUID, req reqdto.CreateBookingRequest) (*CreateBookingResult, error) {
	// Reject bad input before the idempotency claim writes anything.
	stay, guests, err := req.ToDomain()
	if err != nil {
		return nil, domainErr(err)
	}
	if stay.StartsBefore(c.clock.Now()) {
		return nil, domainErr(booking.ErrCheckInInPast)
	}

	resultID, replayed, err := c.guard.run(ctx, idempotencyKey, userID, endpointCreateBooking, req,
		func(ctx context.Context, tx shared.Tx) (string, error) {
			b, err := c.createInTx(ctx, tx, userID, req.ListingID, stay, guests, req.Notes)
			if err != nil {
				return "", err
			}
			return b.ID().String(), nil
		})
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(resultID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	return &CreateBookingResult{BookingID: id, IsReplayed: replayed}, nil
}

func (c *bookingCommandsImpl) createInTx(
	ctx context.Context,
	tx shared.Tx,
	userID, listingID uuid.UUID,
	stay booking.Stay,
	guests booking.Guests,
	notes string,
) (*booking.Booking, error) {
	now := c.clock.Now()

	// The row lock serialises concurrent bookings of the same listing so the
	// overlap check below sees every committed competitor.
	l, err := tx.Listings().FindByIDForUpdate(ctx, listingID)
	if err != nil {
		return nil, repoErr(err, ErrListingNotFound)
	}
	if !l.IsActive() {
		return nil, domainErr(ErrListingUnavailable)
	}

	overlap, err := tx.Bookings().HasOverlap(ctx, l.ID(), stay)
	if err != nil {
		return nil, repoErr(err, nil)
	}
	if overlap {
		return nil, errs.Mark(ErrBookingOverlap, errs.ErrStateConflict)
	}

	spec := booking.ListingSpec{
		ID:            l.ID(),
		VendorID:      l.VendorID(),
		PricePerNight: l.PricePerNight(),
		MaxGuests:     l.MaxGuests(),
	}
	b, err := booking.NewBooking(spec, userID, stay, guests, notes, now)
	if err != nil {
		return nil, domainErr(err)
	}

	if err := tx.Bookings().Create(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrStateConflict)
		}
		return nil, repoErr(err, nil)
	}

	event := CreatedEvent{
		ID:         b.ID(),
		UserID:     b.UserID(),
		VendorID:   b.VendorID(),
		Amount:     b.TotalPrice().String(),
		OccurredAt: now,
	}
	if err := enqueue(ctx, tx, TopicBookingCreated, event, now); err != nil {
		return nil, err
	}
	return b, nil
}

// Approve moves a pending booking to processing so the guest can pay. Only
// the listing's vendor or an admin may approve.
func (c *bookingCommandsImpl) Approve(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) error {
	return c.transition(ctx, bookingID, actor.ID, func(b *booking.Booking, now time.Time) error {
		if !actor.IsAdmin() && !b.IsVendedBy(actor.ID) {
			return errs.ErrForbidden
		}
		return b.TransitionTo(booking.StatusProcessing, now)
	})
}

func (c *bookingCommandsImpl) CheckIn(ctx context.Context, userID, bookingID uuid.UUID) error {
	return c.perform(ctx, userID, bookingID, booking.ActionCheckIn)
}

func (c *bookingCommandsImpl) CheckOut(ctx context.Context, userID, bookingID uuid.UUID) error {
	return c.perform(ctx, userID, bookingID, booking.ActionCheckOut)
}

func (c *bookingCommandsImpl) perform(ctx context.Context, userID, bookingID uuid.UUID, action booking.Action) error {
	return c.transition(ctx, bookingID, userID, func(b *booking.Booking, now time.Time) error {
		if !b.IsOwnedBy(userID) {
			return errs.ErrForbidden
		}
		return b.Perform(action, now)
	})
}

// Cancel is open to the guest until the booking is paid. Any checkout left
// open on the booking is abandoned with it.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, userID, bookingID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return c.transitionInTx(ctx, tx, bookingID, userID, func(b *booking.Booking, now time.Time) error {
			if !b.IsOwnedBy(userID) {
				return errs.ErrForbidden
			}
			if err := b.TransitionTo(booking.StatusCancelled, now); err != nil {
				return err
			}
			return abandonOpenSession(ctx, tx, payment.SubjectBooking, b.ID(), now)
		})
	})
}

// UpdateStatus is the admin override. The transition matrix still applies and
// an expected status, when given, must match the stored one.
func (c *bookingCommandsImpl) UpdateStatus(ctx context.Context, adminID, bookingID uuid.UUID, req reqdto.UpdateBookingStatusRequest) error {
	to, expected, err := req.ToDomain()
	if err != nil {
		return domainErr(err)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return c.transitionInTx(ctx, tx, bookingID, adminID, func(b *booking.Booking, now time.Time) error {
			if expected != nil && b.Status() != *expected {
				return errs.Mark(ErrBookingStatusMismatch, errs.ErrStateConflict)
			}
			if err := b.TransitionTo(to, now); err != nil {
				return err
			}
			switch to {
			case booking.StatusRefunded:
				return refundSubjectPayment(ctx, tx, payment.SubjectBooking, b.ID(), now)
			case booking.StatusCancelled:
				return abandonOpenSession(ctx, tx, payment.SubjectBooking, b.ID(), now)
			}
			return nil
		})
	})
}

func (c *bookingCommandsImpl) transition(ctx context.Context, bookingID, actorID uuid.UUID, change func(b *booking.Booking, now time.Time) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return c.transitionInTx(ctx, tx, bookingID, actorID, change)
	})
}

// transitionInTx locks the booking, applies change and records the
// status_changed event in the same transaction.
func (c *bookingCommandsImpl) transitionInTx(
	ctx context.Context,
	tx shared.Tx,
	bookingID, actorID uuid.UUID,
	change func(b *booking.Booking, now time.Time) error,
) error {
	now := c.clock.Now()

	b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
	if err != nil {
		return repoErr(err, ErrBookingNotFound)
	}
	from := b.Status()

	if err := change(b, now); err != nil {
		return bookingRuleErr(err)
	}
	if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
		return repoErr(err, ErrBookingNotFound)
	}

	return enqueue(ctx, tx, TopicBookingStatusChanged, StatusChangedEvent{
		ID:         b.ID(),
		From:       from.String(),
		To:         b.Status().String(),
		ActorID:    actorID,
		OccurredAt: now,
	}, now)
}

func bookingRuleErr(err error) error {
	switch {
	case errs.IsAny(err, errs.ErrForbidden, errs.ErrStateConflict, errs.ErrDatabaseOperationFailed):
		return err
	case errs.IsAny(err, booking.ErrInvalidTransition, booking.ErrActionNotAllowed):
		return transitionErr(err)
	default:
		return domainErr(err)
	}
}

// refundSubjectPayment marks the settled payment of a subject refunded. A
// subject moved to paid by an admin override has no payment to refund.
func refundSubjectPayment(ctx context.Context, tx shared.Tx, subjectType payment.SubjectType, subjectID uuid.UUID, now time.Time) error {
	p, err := tx.Payments().FindSucceededBySubject(ctx, subjectType, subjectID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return repoErr(err, nil)
	}
	if err := p.MarkRefunded(now); err != nil {
		return transitionErr(err)
	}
	return repoErr(tx.Payments().UpdateStatus(ctx, p), nil)
}
