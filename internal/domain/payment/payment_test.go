//go:build unit

package payment_test

import (
	"strings"
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayment(now time.Time) *payment.Payment {
	return payment.NewPayment(payment.SubjectBooking, uuid.New(), uuid.New(), money.FromKobo(7500000),
		payment.NewReference(), "https://checkout.example.com/abc", "abc", now)
}

func TestPayment(t *testing.T) {
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("reference format", func(t *testing.T) {
		ref := payment.NewReference()
		assert.True(t, strings.HasPrefix(ref, "MCD-"))
		assert.Len(t, ref, 20)
		assert.NotEqual(t, ref, payment.NewReference())
	})

	t.Run("settles when amount and currency match", func(t *testing.T) {
		p := newPayment(now)
		require.NoError(t, p.MarkSucceeded(money.FromKobo(7500000), "ngn", now))
		assert.Equal(t, payment.StatusSuccess, p.Status())
		require.NotNil(t, p.PaidAt())
	})

	t.Run("amount mismatch marks failed", func(t *testing.T) {
		p := newPayment(now)
		err := p.MarkSucceeded(money.FromKobo(100), "NGN", now)
		require.ErrorIs(t, err, payment.ErrAmountMismatch)
		assert.Equal(t, payment.StatusFailed, p.Status())
	})

	t.Run("currency mismatch marks failed", func(t *testing.T) {
		p := newPayment(now)
		require.ErrorIs(t, p.MarkSucceeded(money.FromKobo(7500000), "USD", now), payment.ErrCurrencyMismatch)
		assert.Equal(t, payment.StatusFailed, p.Status())
	})

	t.Run("abandoned session still takes a late capture", func(t *testing.T) {
		p := newPayment(now)
		require.NoError(t, p.MarkAbandoned(now))
		assert.True(t, p.CanCapture())
		require.NoError(t, p.MarkSucceeded(money.FromKobo(7500000), "NGN", now.Add(2*time.Hour)))
		assert.Equal(t, payment.StatusSuccess, p.Status())
	})

	t.Run("failed or settled payments reject a capture", func(t *testing.T) {
		failed := newPayment(now)
		require.NoError(t, failed.MarkFailed(now))
		assert.ErrorIs(t, failed.MarkSucceeded(money.FromKobo(7500000), "NGN", now), payment.ErrNotOpen)

		settled := newPayment(now)
		require.NoError(t, settled.MarkSucceeded(money.FromKobo(7500000), "NGN", now))
		assert.False(t, settled.CanCapture())
	})

	t.Run("session reuse window", func(t *testing.T) {
		p := newPayment(now)
		assert.True(t, p.IsReusable(now.Add(59*time.Minute), time.Hour))
		assert.False(t, p.IsReusable(now.Add(time.Hour), time.Hour))
		require.NoError(t, p.MarkAbandoned(now))
		assert.False(t, p.IsReusable(now, time.Hour))
	})

	t.Run("refund only after success", func(t *testing.T) {
		p := newPayment(now)
		assert.ErrorIs(t, p.MarkRefunded(now), payment.ErrNotRefundable)
		require.NoError(t, p.MarkSucceeded(money.FromKobo(7500000), "NGN", now))
		require.NoError(t, p.MarkRefunded(now))
		assert.Equal(t, payment.StatusRefunded, p.Status())
	})
}
