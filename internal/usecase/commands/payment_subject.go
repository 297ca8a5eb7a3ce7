package commands

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/domain/serviceorder"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrSubjectNotPayable = errs.New("subject is not awaiting payment")

// payableSubject is whatever a payment settles: a booking, a product order or
// a service order.
type payableSubject interface {
	payerID() uuid.UUID
	amountDue() money.Money
	status() string
	// checkPayable fails unless the subject is waiting for its payment.
	checkPayable() error
	settle(now time.Time) error
	save(ctx context.Context, tx shared.Tx) error
	statusTopic() string
}

func loadSubject(ctx context.Context, tx shared.Tx, subjectType payment.SubjectType, id uuid.UUID) (payableSubject, error) {
	switch subjectType {
	case payment.SubjectBooking:
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, repoErr(err, ErrBookingNotFound)
		}
		return bookingSubject{b}, nil
	case payment.SubjectOrder:
		o, err := tx.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, repoErr(err, ErrOrderNotFound)
		}
		return orderSubject{o}, nil
	case payment.SubjectServiceOrder:
		o, err := tx.ServiceOrders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, repoErr(err, ErrServiceOrderNotFound)
		}
		return serviceOrderSubject{o}, nil
	default:
		return nil, domainErr(payment.ErrInvalidSubjectType)
	}
}

// abandonOpenSession closes the checkout left open on a subject that will no
// longer be paid. A capture that still arrives for it is refunded by Verify.
func abandonOpenSession(ctx context.Context, tx shared.Tx, subjectType payment.SubjectType, subjectID uuid.UUID, now time.Time) error {
	open, err := tx.Payments().FindOpenBySubject(ctx, subjectType, subjectID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return repoErr(err, nil)
	}
	if err := open.MarkAbandoned(now); err != nil {
		return transitionErr(err)
	}
	return repoErr(tx.Payments().UpdateStatus(ctx, open), nil)
}

type bookingSubject struct{ b *booking.Booking }

func (s bookingSubject) payerID() uuid.UUID     { return s.b.UserID() }
func (s bookingSubject) amountDue() money.Money { return s.b.TotalPrice() }
func (s bookingSubject) status() string         { return s.b.Status().String() }
func (s bookingSubject) statusTopic() string    { return TopicBookingStatusChanged }

func (s bookingSubject) checkPayable() error {
	if !booking.CanPerform(s.b.Status(), booking.ActionPay) {
		return ErrSubjectNotPayable
	}
	return nil
}

func (s bookingSubject) settle(now time.Time) error {
	return s.b.TransitionTo(booking.StatusPaid, now)
}

func (s bookingSubject) save(ctx context.Context, tx shared.Tx) error {
	return tx.Bookings().UpdateStatus(ctx, s.b)
}

type orderSubject struct{ o *order.Order }

func (s orderSubject) payerID() uuid.UUID     { return s.o.UserID() }
func (s orderSubject) amountDue() money.Money { return s.o.TotalAmount() }
func (s orderSubject) status() string         { return s.o.Status().String() }
func (s orderSubject) statusTopic() string    { return TopicOrderStatusChanged }

func (s orderSubject) checkPayable() error {
	if s.o.Status() != order.StatusAccepted {
		return ErrSubjectNotPayable
	}
	return nil
}

func (s orderSubject) settle(now time.Time) error {
	return s.o.TransitionTo(order.StatusPaid, now)
}

func (s orderSubject) save(ctx context.Context, tx shared.Tx) error {
	return tx.Orders().UpdateStatus(ctx, s.o)
}

type serviceOrderSubject struct{ o *serviceorder.ServiceOrder }

func (s serviceOrderSubject) payerID() uuid.UUID     { return s.o.UserID() }
func (s serviceOrderSubject) amountDue() money.Money { return s.o.Amount() }
func (s serviceOrderSubject) status() string         { return s.o.Status().String() }
func (s serviceOrderSubject) statusTopic() string    { return TopicServiceOrderStatusChanged }

func (s serviceOrderSubject) checkPayable() error {
	if s.o.Status() != serviceorder.StatusAccepted {
		return ErrSubjectNotPayable
	}
	return nil
}

func (s serviceOrderSubject) settle(now time.Time) error {
	return s.o.TransitionTo(serviceorder.StatusPaid, now)
}

func (s serviceOrderSubject) save(ctx context.Context, tx shared.Tx) error {
	return tx.ServiceOrders().Update(ctx, s.o)
}
