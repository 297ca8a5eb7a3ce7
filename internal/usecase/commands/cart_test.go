//go:build unit

package commands

import (
	"context"
	"testing"

	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/domain/catalog"
	"mcdee-marketplace/internal/domain/order"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func product(vendorID uuid.UUID, name string, priceKobo int64, stock int) *catalog.Product {
	return catalog.ReconstructProduct(uuid.New(), vendorID, catalog.Details{
		Name:          name,
		Category:      "groceries",
		Price:         money.FromKobo(priceKobo),
		StockQuantity: stock,
	}, true, testNow, testNow)
}

func lineFor(p *catalog.Product, qty int, staleKobo int64) cart.Line {
	return cart.Line{
		ItemID:        uuid.New(),
		ProductID:     p.ID(),
		ProductName:   p.Name(),
		VendorID:      p.VendorID(),
		UnitPrice:     money.FromKobo(staleKobo),
		Quantity:      qty,
		StockQuantity: p.StockQuantity(),
	}
}

func TestCartCommands_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	key := uuid.New()
	req := reqdto.CheckoutRequest{DeliveryAddress: "12 Allen Avenue, Ikeja"}

	t.Run("ベンダーごとに注文を分割し在庫を引き当てる", func(t *testing.T) {
		f := newFixture(t)
		vendorA, vendorB := uuid.New(), uuid.New()
		rice := product(vendorA, "Rice 5kg", 800000, 10)
		oil := product(vendorA, "Palm oil", 250000, 3)
		suya := product(vendorB, "Suya spice", 50000, 5)
		lines := []cart.Line{lineFor(rice, 2, 1), lineFor(oil, 1, 1), lineFor(suya, 4, 1)}

		f.expectFreshClaim()
		f.cart.EXPECT().Lines(gomock.Any(), userID).Return(lines, nil)
		f.products.EXPECT().FindManyForUpdate(gomock.Any(), gomock.Len(3)).Return(map[uuid.UUID]*catalog.Product{
			rice.ID(): rice, oil.ID(): oil, suya.ID(): suya,
		}, nil)
		f.products.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil).Times(3)

		var created []*order.Order
		f.orders.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *order.Order) error {
			created = append(created, o)
			return nil
		}).Times(2)
		f.expectEvents(TopicOrderCreated, 2)
		f.cart.EXPECT().Clear(gomock.Any(), userID).Return(nil)
		f.idempotency.EXPECT().Complete(gomock.Any(), key, userID, gomock.Any()).Return(nil)

		res, err := NewCartCommands(f.uow, f.clock).Checkout(ctx, userID, key, req)

		require.NoError(t, err)
		require.Len(t, created, 2)
		totals := map[uuid.UUID]money.Money{}
		for _, o := range created {
			assert.Equal(t, res.CheckoutID, o.CheckoutID())
			totals[o.VendorID()] = o.TotalAmount()
		}
		// Priced from the locked product rows, not the stale cart prices.
		assert.Equal(t, money.FromKobo(1850000), totals[vendorA])
		assert.Equal(t, money.FromKobo(200000), totals[vendorB])
		assert.Equal(t, 8, rice.StockQuantity())
		assert.Equal(t, 1, suya.StockQuantity())
	})

	t.Run("在庫不足は409でキーを解放する", func(t *testing.T) {
		f := newFixture(t)
		oil := product(uuid.New(), "Palm oil", 250000, 1)
		f.expectFreshClaim()
		f.cart.EXPECT().Lines(gomock.Any(), userID).Return([]cart.Line{lineFor(oil, 2, 250000)}, nil)
		f.products.EXPECT().FindManyForUpdate(gomock.Any(), gomock.Any()).Return(map[uuid.UUID]*catalog.Product{oil.ID(): oil}, nil)
		f.idempotency.EXPECT().Release(gomock.Any(), key, userID).Return(nil)

		_, err := NewCartCommands(f.uow, f.clock).Checkout(ctx, userID, key, req)

		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		f.expectFreshClaim()
		f.cart.EXPECT().Lines(gomock.Any(), userID).Return(nil, nil)
		f.idempotency.EXPECT().Release(gomock.Any(), key, userID).Return(nil)

		_, err := NewCartCommands(f.uow, f.clock).Checkout(ctx, userID, key, req)

		assert.True(t, errs.Is(err, errs.ErrDomainValidation))
	})
}
