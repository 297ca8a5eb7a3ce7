//go:build unit

package cart_test

import (
	"math"
	"testing"

	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity(t *testing.T) {
	cases := []struct {
		name  string
		qty   int
		stock int
		errIs error
	}{
		{name: "下限OK", qty: 1, stock: 5},
		{name: "在庫ちょうどOK", qty: 5, stock: 5},
		{name: "0はNG", qty: 0, stock: 5, errIs: cart.ErrQuantityOutOfRange},
		{name: "在庫超過NG", qty: 6, stock: 5, errIs: cart.ErrQuantityOutOfRange},
		{name: "在庫切れNG", qty: 1, stock: 0, errIs: cart.ErrQuantityOutOfRange},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := cart.ValidateQuantity(c.qty, c.stock)
			if c.errIs == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, c.errIs)
			}
		})
	}

	t.Run("在庫に達したら増やせない", func(t *testing.T) {
		assert.True(t, cart.CanIncrement(4, 5))
		assert.False(t, cart.CanIncrement(5, 5))
		assert.False(t, cart.CanIncrement(6, 5))
	})

	t.Run("既存行への追加は在庫で制限される", func(t *testing.T) {
		got, err := cart.Merge(2, 3, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, got)

		got, err = cart.Merge(2, 4, 5)
		require.ErrorIs(t, err, cart.ErrQuantityOutOfRange)
		assert.Equal(t, 2, got)
	})
}

func TestGroupByVendor(t *testing.T) {
	vendorA, vendorB := uuid.New(), uuid.New()
	lines := []cart.Line{
		{ProductName: "rice", VendorID: vendorA, VendorName: "A", UnitPrice: money.FromKobo(150050), Quantity: 2},
		{ProductName: "yam", VendorID: vendorB, VendorName: "B", UnitPrice: money.FromKobo(100000), Quantity: 1},
		{ProductName: "oil", VendorID: vendorA, VendorName: "A", UnitPrice: money.FromKobo(50000), Quantity: 3},
	}

	groups, err := cart.GroupByVendor(lines)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, vendorA, groups[0].VendorID)
	assert.Equal(t, []string{"rice", "oil"}, []string{groups[0].Lines[0].ProductName, groups[0].Lines[1].ProductName})
	assert.Equal(t, "4501.00", groups[0].Subtotal.String())

	assert.Equal(t, vendorB, groups[1].VendorID)
	assert.Equal(t, "1000.00", groups[1].Subtotal.String())

	subtotal, err := cart.Subtotal(lines)
	require.NoError(t, err)
	assert.Equal(t, "5501.00", subtotal.String())

	empty, err := cart.GroupByVendor(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSubtotalOverflow(t *testing.T) {
	lines := []cart.Line{
		{ProductName: "generator", VendorID: uuid.New(), UnitPrice: money.FromKobo(math.MaxInt64 / 2), Quantity: 1},
		{ProductName: "inverter", VendorID: uuid.New(), UnitPrice: money.FromKobo(math.MaxInt64 / 2), Quantity: 1},
		{ProductName: "battery", VendorID: uuid.New(), UnitPrice: money.FromKobo(2), Quantity: 1},
	}

	_, err := cart.Subtotal(lines)
	assert.ErrorIs(t, err, money.ErrOverflow)

	_, err = cart.Subtotal([]cart.Line{{UnitPrice: money.FromKobo(math.MaxInt64 / 2), Quantity: 3}})
	assert.ErrorIs(t, err, money.ErrOverflow)
}
