package commands

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/domain/payment"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errs.New("order not found")

type OrderCommands interface {
	Respond(ctx context.Context, vendorID, orderID uuid.UUID, req reqdto.RespondRequest) error
	Complete(ctx context.Context, vendorID, orderID uuid.UUID) error
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, clock clock.Clock) OrderCommands {
	return &orderCommandsImpl{uow: uow, clock: clock}
}

func (c *orderCommandsImpl) Respond(ctx context.Context, vendorID, orderID uuid.UUID, req reqdto.RespondRequest) error {
	response, err := order.ParseResponse(req.Response)
	if err != nil {
		return domainErr(err)
	}
	return c.transition(ctx, orderID, vendorID, func(o *order.Order, now time.Time) error {
		if o.VendorID() != vendorID {
			return errs.ErrForbidden
		}
		return o.TransitionTo(response.Target(), now)
	})
}

// Complete releases the escrowed payment to the vendor.
func (c *orderCommandsImpl) Complete(ctx context.Context, vendorID, orderID uuid.UUID) error {
	return c.transition(ctx, orderID, vendorID, func(o *order.Order, now time.Time) error {
		if o.VendorID() != vendorID {
			return errs.ErrForbidden
		}
		return o.TransitionTo(order.StatusCompleted, now)
	})
}

func (c *orderCommandsImpl) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	return c.transition(ctx, orderID, userID, func(o *order.Order, now time.Time) error {
		if o.UserID() != userID {
			return errs.ErrForbidden
		}
		return o.TransitionTo(order.StatusCancelled, now)
	})
}

func (c *orderCommandsImpl) transition(ctx context.Context, orderID, actorID uuid.UUID, change func(o *order.Order, now time.Time) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		o, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return repoErr(err, ErrOrderNotFound)
		}
		from := o.Status()

		if err := change(o, now); err != nil {
			if errs.Is(err, errs.ErrForbidden) {
				return err
			}
			return transitionErr(err)
		}
		if err := tx.Orders().UpdateStatus(ctx, o); err != nil {
			return repoErr(err, ErrOrderNotFound)
		}
		if o.Status() == order.StatusCancelled {
			if err := abandonOpenSession(ctx, tx, payment.SubjectOrder, o.ID(), now); err != nil {
				return err
			}
		}
		if o.Status().ReturnsStock() {
			if err := restock(ctx, tx, o.Items()); err != nil {
				return err
			}
		}

		return enqueue(ctx, tx, TopicOrderStatusChanged, StatusChangedEvent{
			ID:         o.ID(),
			From:       from.String(),
			To:         o.Status().String(),
			ActorID:    actorID,
			OccurredAt: now,
		}, now)
	})
}

func restock(ctx context.Context, tx shared.Tx, items []order.Item) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := tx.Products().FindManyForUpdate(ctx, ids)
	if err != nil {
		return repoErr(err, nil)
	}
	for _, it := range items {
		// A product removed since checkout has nothing to restock.
		if p, ok := products[it.ProductID]; ok {
			p.Restock(it.Quantity)
		}
	}
	for _, p := range products {
		if err := tx.Products().Update(ctx, p); err != nil {
			return repoErr(err, ErrProductNotFound)
		}
	}
	return nil
}
