//go:build unit

package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"mcdee-marketplace/internal/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		in    any
		kobo  int64
		errIs error
	}{
		{name: "float", in: 1500.5, kobo: 150050},
		{name: "int", in: 1500, kobo: 150000},
		{name: "string", in: "1500", kobo: 150000},
		{name: "string with separators", in: " 1,500.50 ", kobo: 150050},
		{name: "naira sign", in: "₦ 2500", kobo: 250000},
		{name: "json number", in: json.Number("12.345"), kobo: 1235},
		{name: "decimal", in: decimal.RequireFromString("0.005"), kobo: 1},
		{name: "empty string", in: "", errIs: money.ErrInvalidAmount},
		{name: "not numeric", in: "abc", errIs: money.ErrInvalidAmount},
		{name: "negative", in: -1, errIs: money.ErrNegativeAmount},
		{name: "unsupported", in: true, errIs: money.ErrInvalidAmount},
		{name: "largest kobo amount", in: "92233720368547758.07", kobo: math.MaxInt64},
		{name: "one kobo past int64", in: "92233720368547758.08", errIs: money.ErrInvalidAmount},
		{name: "wraps to one kobo in int64", in: "184467440737095516.17", errIs: money.ErrInvalidAmount},
		{name: "huge json number", in: json.Number("1e30"), errIs: money.ErrInvalidAmount},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := money.Normalize(c.in)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.kobo, got.Kobo())
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	var payload struct {
		Price money.Money `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price":"1500.50"}`), &payload))
	assert.Equal(t, int64(150050), payload.Price.Kobo())

	require.NoError(t, json.Unmarshal([]byte(`{"price":1500.5}`), &payload))
	assert.Equal(t, int64(150050), payload.Price.Kobo())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1500.50}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"price":"-3"}`), &payload))
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"price":184467440737095516.17}`), &payload), money.ErrInvalidAmount)
}

func TestArithmetic(t *testing.T) {
	largest := money.FromKobo(math.MaxInt64)

	t.Run("add", func(t *testing.T) {
		sum, err := money.FromKobo(110).Add(money.FromKobo(220))
		require.NoError(t, err)
		assert.Equal(t, "3.30", sum.String())

		_, err = largest.Add(money.FromKobo(1))
		assert.ErrorIs(t, err, money.ErrOverflow)
	})

	t.Run("mul", func(t *testing.T) {
		total, err := money.FromKobo(1500000).Mul(3)
		require.NoError(t, err)
		assert.Equal(t, "45000.00", total.String())

		zero, err := largest.Mul(0)
		require.NoError(t, err)
		assert.True(t, zero.IsZero())

		_, err = largest.Mul(2)
		assert.ErrorIs(t, err, money.ErrOverflow)
		_, err = money.FromKobo(math.MaxInt64/3 + 1).Mul(3)
		assert.ErrorIs(t, err, money.ErrOverflow)
	})
}
