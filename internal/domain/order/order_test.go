//go:build unit

package order_test

import (
	"math"
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	items := []order.Item{
		{ProductID: uuid.New(), ProductName: "rice", UnitPrice: money.FromKobo(150000), Quantity: 2},
		{ProductID: uuid.New(), ProductName: "oil", UnitPrice: money.FromKobo(50000), Quantity: 1},
	}
	o, err := order.NewOrder(uuid.New(), uuid.New(), uuid.New(), items, "12 Allen Avenue, Ikeja", time.Now())
	require.NoError(t, err)
	return o
}

func TestOrder(t *testing.T) {
	now := time.Now()

	t.Run("合計は明細の積の和", func(t *testing.T) {
		o := newOrder(t)
		assert.Equal(t, "3500.00", o.TotalAmount().String())
		assert.Equal(t, order.StatusPending, o.Status())
	})

	t.Run("明細なしNG", func(t *testing.T) {
		_, err := order.NewOrder(uuid.New(), uuid.New(), uuid.New(), nil, "addr", now)
		assert.ErrorIs(t, err, order.ErrNoItems)
	})

	t.Run("合計がkoboに収まらなければNG", func(t *testing.T) {
		items := []order.Item{
			{ProductID: uuid.New(), UnitPrice: money.FromKobo(math.MaxInt64 / 2), Quantity: 2},
			{ProductID: uuid.New(), UnitPrice: money.FromKobo(2), Quantity: 1},
		}
		_, err := order.NewOrder(uuid.New(), uuid.New(), uuid.New(), items, "addr", now)
		assert.ErrorIs(t, err, money.ErrOverflow)

		_, err = order.NewOrder(uuid.New(), uuid.New(), uuid.New(),
			[]order.Item{{ProductID: uuid.New(), UnitPrice: money.FromKobo(math.MaxInt64), Quantity: 2}}, "addr", now)
		assert.ErrorIs(t, err, money.ErrOverflow)
	})

	t.Run("住所なしNG", func(t *testing.T) {
		items := []order.Item{{ProductID: uuid.New(), UnitPrice: money.FromKobo(100), Quantity: 1}}
		_, err := order.NewOrder(uuid.New(), uuid.New(), uuid.New(), items, "  ", now)
		assert.ErrorIs(t, err, order.ErrEmptyAddress)
	})

	t.Run("受注から完了までエスクローが動く", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.TransitionTo(order.ResponseAccept.Target(), now))
		require.NoError(t, o.TransitionTo(order.StatusPaid, now))
		assert.Equal(t, escrow.StatusHeld, o.EscrowStatus())
		require.NoError(t, o.TransitionTo(order.StatusCompleted, now))
		assert.Equal(t, escrow.StatusReleased, o.EscrowStatus())
	})

	t.Run("未承認の支払いNG", func(t *testing.T) {
		o := newOrder(t)
		assert.ErrorIs(t, o.TransitionTo(order.StatusPaid, now), order.ErrInvalidTransition)
	})

	t.Run("支払い済みはキャンセル不可", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.TransitionTo(order.StatusAccepted, now))
		require.NoError(t, o.TransitionTo(order.StatusPaid, now))
		assert.ErrorIs(t, o.TransitionTo(order.StatusCancelled, now), order.ErrInvalidTransition)
	})

	t.Run("在庫戻し対象", func(t *testing.T) {
		assert.True(t, order.StatusDeclined.ReturnsStock())
		assert.True(t, order.StatusCancelled.ReturnsStock())
		assert.False(t, order.StatusCompleted.ReturnsStock())
	})

	t.Run("応答の解釈", func(t *testing.T) {
		r, err := order.ParseResponse(" Decline ")
		require.NoError(t, err)
		assert.Equal(t, order.StatusDeclined, r.Target())

		_, err = order.ParseResponse("maybe")
		assert.ErrorIs(t, err, order.ErrInvalidResponse)
	})
}
