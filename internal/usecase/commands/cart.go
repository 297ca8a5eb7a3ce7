package commands

import (
	"context"

	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/domain/catalog"
	"mcdee-marketplace/internal/domain/order"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrCartItemNotFound = errs.New("cart item not found")

const endpointCheckout = "POST /api/cart/checkout"

type CheckoutResult struct {
	CheckoutID uuid.UUID
	IsReplayed bool
}

type CartCommands interface {
	AddItem(ctx context.Context, userID uuid.UUID, req reqdto.AddCartItemRequest) (uuid.UUID, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	Checkout(ctx context.Context, userID, idempotencyKey uuid.UUID, req reqdto.CheckoutRequest) (*CheckoutResult, error)
}

type cartCommandsImpl struct {
	uow   shared.UnitOfWork
	guard idempotencyGuard
	clock clock.Clock
}

func NewCartCommands(uow shared.UnitOfWork, clock clock.Clock) CartCommands {
	return &cartCommandsImpl{
		uow:   uow,
		guard: idempotencyGuard{uow: uow, clock: clock},
		clock: clock,
	}
}

// AddItem merges into the existing line for the product when there is one.
func (c *cartCommandsImpl) AddItem(ctx context.Context, userID uuid.UUID, req reqdto.AddCartItemRequest) (uuid.UUID, error) {
	qty := req.QuantityOrDefault()

	var itemID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Products().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return repoErr(err, ErrProductNotFound)
		}
		if !p.IsActive() {
			return domainErr(catalog.ErrProductUnavailable)
		}

		line, err := tx.Cart().FindLineByProduct(ctx, userID, p.ID())
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return repoErr(err, nil)
		}

		if line != nil {
			merged, err := cart.Merge(line.Quantity, qty, p.StockQuantity())
			if err != nil {
				return domainErr(err)
			}
			itemID = line.ItemID
			return repoErr(tx.Cart().SetQuantity(ctx, userID, line.ItemID, merged), ErrCartItemNotFound)
		}

		if err := cart.ValidateQuantity(qty, p.StockQuantity()); err != nil {
			return domainErr(err)
		}
		itemID, err = tx.Cart().Insert(ctx, userID, p.ID(), qty)
		return repoErr(err, nil)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return itemID, nil
}

func (c *cartCommandsImpl) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		line, err := tx.Cart().FindLine(ctx, userID, itemID)
		if err != nil {
			return repoErr(err, ErrCartItemNotFound)
		}
		if err := cart.ValidateQuantity(quantity, line.StockQuantity); err != nil {
			return domainErr(err)
		}
		return repoErr(tx.Cart().SetQuantity(ctx, userID, itemID, quantity), ErrCartItemNotFound)
	})
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return repoErr(tx.Cart().Delete(ctx, userID, itemID), ErrCartItemNotFound)
	})
}

// Checkout turns the cart into one order per vendor. Stock is re-read under
// lock and decremented in the same transaction that creates the orders.
func (c *cartCommandsImpl) Checkout(ctx context.Context, userID, idempotencyKey uuid.UUID, req reqdto.CheckoutRequest) (*CheckoutResult, error) {
	resultID, replayed, err := c.guard.run(ctx, idempotencyKey, userID, endpointCheckout, req,
		func(ctx context.Context, tx shared.Tx) (string, error) {
			checkoutID, err := c.checkoutInTx(ctx, tx, userID, req.DeliveryAddress)
			if err != nil {
				return "", err
			}
			return checkoutID.String(), nil
		})
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(resultID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	return &CheckoutResult{CheckoutID: id, IsReplayed: replayed}, nil
}

func (c *cartCommandsImpl) checkoutInTx(ctx context.Context, tx shared.Tx, userID uuid.UUID, deliveryAddress string) (uuid.UUID, error) {
	now := c.clock.Now()

	lines, err := tx.Cart().Lines(ctx, userID)
	if err != nil {
		return uuid.Nil, repoErr(err, nil)
	}
	if len(lines) == 0 {
		return uuid.Nil, domainErr(cart.ErrEmptyCart)
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := tx.Products().FindManyForUpdate(ctx, ids)
	if err != nil {
		return uuid.Nil, repoErr(err, nil)
	}

	// Reprice every line from the locked product row.
	for i, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return uuid.Nil, errs.Mark(ErrProductNotFound, errs.ErrStateConflict)
		}
		if err := p.Reserve(l.Quantity); err != nil {
			return uuid.Nil, errs.Mark(err, errs.ErrStateConflict)
		}
		lines[i].UnitPrice = p.Price()
		lines[i].ProductName = p.Name()
		lines[i].StockQuantity = p.StockQuantity()
	}
	for _, p := range products {
		if err := tx.Products().Update(ctx, p); err != nil {
			return uuid.Nil, repoErr(err, ErrProductNotFound)
		}
	}

	groups, err := cart.GroupByVendor(lines)
	if err != nil {
		return uuid.Nil, domainErr(err)
	}

	checkoutID := uuid.New()
	for _, group := range groups {
		items := make([]order.Item, 0, len(group.Lines))
		for _, l := range group.Lines {
			items = append(items, order.Item{
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				UnitPrice:   l.UnitPrice,
				Quantity:    l.Quantity,
			})
		}

		o, err := order.NewOrder(checkoutID, userID, group.VendorID, items, deliveryAddress, now)
		if err != nil {
			return uuid.Nil, domainErr(err)
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return uuid.Nil, repoErr(err, nil)
		}
		if err := enqueue(ctx, tx, TopicOrderCreated, CreatedEvent{
			ID:         o.ID(),
			UserID:     userID,
			VendorID:   o.VendorID(),
			Amount:     o.TotalAmount().String(),
			OccurredAt: now,
		}, now); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Cart().Clear(ctx, userID); err != nil {
		return uuid.Nil, repoErr(err, nil)
	}
	return checkoutID, nil
}
