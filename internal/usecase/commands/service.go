package commands

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/domain/serviceorder"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrServiceProfileRequired = errs.New("service profile must be created first")
	ErrServicePricingNotFound = errs.New("service pricing not found")
	ErrServiceOrderNotFound   = errs.New("service order not found")
)

type ServiceCommands interface {
	UpsertProfile(ctx context.Context, vendorID uuid.UUID, req reqdto.ServiceProfileRequest) (uuid.UUID, error)
	CreatePricing(ctx context.Context, vendorID uuid.UUID, req reqdto.ServicePricingRequest) (uuid.UUID, error)
	CreateOrder(ctx context.Context, userID uuid.UUID, req reqdto.CreateServiceOrderRequest) (uuid.UUID, error)
	Respond(ctx context.Context, vendorID, orderID uuid.UUID, req reqdto.RespondRequest) error
	Complete(ctx context.Context, vendorID, orderID uuid.UUID) error
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error
}

type serviceCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewServiceCommands(uow shared.UnitOfWork, clock clock.Clock) ServiceCommands {
	return &serviceCommandsImpl{uow: uow, clock: clock}
}

func (c *serviceCommandsImpl) UpsertProfile(ctx context.Context, vendorID uuid.UUID, req reqdto.ServiceProfileRequest) (uuid.UUID, error) {
	profile := req.ToDomain(vendorID)
	if err := profile.Validate(); err != nil {
		return uuid.Nil, domainErr(err)
	}

	var id uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		id, err = tx.ServiceVendors().UpsertProfile(ctx, profile)
		return repoErr(err, nil)
	})
	return id, err
}

func (c *serviceCommandsImpl) CreatePricing(ctx context.Context, vendorID uuid.UUID, req reqdto.ServicePricingRequest) (uuid.UUID, error) {
	pricing := req.ToDomain()
	if err := pricing.Validate(); err != nil {
		return uuid.Nil, domainErr(err)
	}

	var id uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		serviceVendorID, err := tx.ServiceVendors().FindIDByUserID(ctx, vendorID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return domainErr(ErrServiceProfileRequired)
			}
			return repoErr(err, nil)
		}
		id, err = tx.ServiceVendors().CreatePricing(ctx, serviceVendorID, pricing)
		return repoErr(err, nil)
	})
	return id, err
}

func (c *serviceCommandsImpl) CreateOrder(ctx context.Context, userID uuid.UUID, req reqdto.CreateServiceOrderRequest) (uuid.UUID, error) {
	deadline, err := req.DeadlineDate()
	if err != nil {
		return uuid.Nil, domainErr(err)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		pricing, err := tx.ServiceVendors().FindPricing(ctx, req.ServicePricingID)
		if err != nil {
			return repoErr(err, ErrServicePricingNotFound)
		}
		o, err := serviceorder.NewServiceOrder(pricing, userID, deadline, req.Requirements, now)
		if err != nil {
			return domainErr(err)
		}
		if err := tx.ServiceOrders().Create(ctx, o); err != nil {
			return repoErr(err, nil)
		}
		id = o.ID()

		return enqueue(ctx, tx, TopicServiceOrderCreated, CreatedEvent{
			ID:         o.ID(),
			UserID:     userID,
			VendorID:   o.VendorUserID(),
			Amount:     o.Amount().String(),
			OccurredAt: now,
		}, now)
	})
	return id, err
}

func (c *serviceCommandsImpl) Respond(ctx context.Context, vendorID, orderID uuid.UUID, req reqdto.RespondRequest) error {
	response, err := serviceorder.ParseResponse(req.Response)
	if err != nil {
		return domainErr(err)
	}
	return c.transition(ctx, orderID, vendorID, func(o *serviceorder.ServiceOrder, now time.Time) error {
		if o.VendorUserID() != vendorID {
			return errs.ErrForbidden
		}
		return o.Respond(response, req.Note, now)
	})
}

func (c *serviceCommandsImpl) Complete(ctx context.Context, vendorID, orderID uuid.UUID) error {
	return c.transition(ctx, orderID, vendorID, func(o *serviceorder.ServiceOrder, now time.Time) error {
		if o.VendorUserID() != vendorID {
			return errs.ErrForbidden
		}
		return o.TransitionTo(serviceorder.StatusCompleted, now)
	})
}

func (c *serviceCommandsImpl) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	return c.transition(ctx, orderID, userID, func(o *serviceorder.ServiceOrder, now time.Time) error {
		if o.UserID() != userID {
			return errs.ErrForbidden
		}
		return o.TransitionTo(serviceorder.StatusCancelled, now)
	})
}

func (c *serviceCommandsImpl) transition(ctx context.Context, orderID, actorID uuid.UUID, change func(o *serviceorder.ServiceOrder, now time.Time) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		o, err := tx.ServiceOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return repoErr(err, ErrServiceOrderNotFound)
		}
		from := o.Status()

		if err := change(o, now); err != nil {
			if errs.Is(err, errs.ErrForbidden) {
				return err
			}
			return transitionErr(err)
		}
		if err := tx.ServiceOrders().Update(ctx, o); err != nil {
			return repoErr(err, ErrServiceOrderNotFound)
		}
		if o.Status() == serviceorder.StatusCancelled {
			if err := abandonOpenSession(ctx, tx, payment.SubjectServiceOrder, o.ID(), now); err != nil {
				return err
			}
		}

		return enqueue(ctx, tx, TopicServiceOrderStatusChanged, StatusChangedEvent{
			ID:         o.ID(),
			From:       from.String(),
			To:         o.Status().String(),
			ActorID:    actorID,
			OccurredAt: now,
		}, now)
	})
}
