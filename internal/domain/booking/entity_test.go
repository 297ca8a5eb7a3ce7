//go:build unit

package booking_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPending, actual.Status())
		assert.Equal(t, escrow.StatusNone, actual.EscrowStatus())
		assert.Equal(t, 3, actual.Stay().Nights())
		assert.Equal(t, money.FromKobo(7500000), actual.TotalPrice())
		assert.Equal(t, "late arrival", actual.Notes())
	})

	t.Run("date validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "one night",
				mutate: func(b *builder.BookingBuilder) { b.WithDates("2030-01-01", "2030-01-02") },
			},
			{
				name:   "same day",
				mutate: func(b *builder.BookingBuilder) { b.WithDates("2030-01-01", "2030-01-01") },
				errIs:  booking.ErrInvalidDateRange,
			},
			{
				name:   "check-out before check-in",
				mutate: func(b *builder.BookingBuilder) { b.WithDates("2030-01-05", "2030-01-01") },
				errIs:  booking.ErrInvalidDateRange,
			},
			{
				name:   "malformed date",
				mutate: func(b *builder.BookingBuilder) { b.WithDates("01/01/2030", "2030-01-02") },
				errIs:  booking.ErrInvalidDate,
			},
			{
				name:   "check-in in the past",
				mutate: func(b *builder.BookingBuilder) { b.WithDates("2029-11-30", "2030-01-02") },
				errIs:  booking.ErrCheckInInPast,
			},
			{
				name:   "check-in today",
				mutate: func(b *builder.BookingBuilder) { b.WithDates("2029-12-01", "2029-12-02") },
			},
		})
	})

	t.Run("guest validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero guests",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(0) },
				errIs:  booking.ErrInvalidGuests,
			},
			{
				name:   "nine guests",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(9) },
				errIs:  booking.ErrInvalidGuests,
			},
			{
				name:   "above listing capacity",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(5) },
				errIs:  booking.ErrInvalidGuests,
			},
		})
	})

	t.Run("notes validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "notes too long",
				mutate: func(b *builder.BookingBuilder) { b.Notes = strings.Repeat("a", 1001) },
				errIs:  booking.ErrNotesTooLong,
			},
			{
				name:   "free listing",
				mutate: func(b *builder.BookingBuilder) { b.PricePerNight = money.Zero() },
				errIs:  booking.ErrNonPositivePrice,
			},
			{
				name:   "total does not fit in kobo",
				mutate: func(b *builder.BookingBuilder) { b.PricePerNight = money.FromKobo(math.MaxInt64 / 2) },
				errIs:  money.ErrOverflow,
			},
		})
	})
}

func TestBookingTransition(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("paid holds escrow and completed releases it", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)

		require.NoError(t, b.TransitionTo(booking.StatusPaid, now))
		assert.Equal(t, escrow.StatusHeld, b.EscrowStatus())

		require.NoError(t, b.Perform(booking.ActionCheckIn, now))
		require.NoError(t, b.Perform(booking.ActionCheckOut, now))
		require.NoError(t, b.TransitionTo(booking.StatusCompleted, now))

		assert.Equal(t, booking.StatusCompleted, b.Status())
		assert.Equal(t, escrow.StatusReleased, b.EscrowStatus())
		assert.Equal(t, now, b.UpdatedAt())
	})

	t.Run("refund returns held funds", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)

		require.NoError(t, b.TransitionTo(booking.StatusRefunded, now))
		assert.Equal(t, escrow.StatusRefunded, b.EscrowStatus())
	})

	t.Run("paid cannot be cancelled", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)

		err := b.TransitionTo(booking.StatusCancelled, now)
		require.ErrorIs(t, err, booking.ErrInvalidTransition)
		assert.Equal(t, booking.StatusPaid, b.Status())
	})

	t.Run("action gate", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)

		require.ErrorIs(t, b.Perform(booking.ActionCheckIn, now), booking.ErrActionNotAllowed)
		require.ErrorIs(t, b.Perform(booking.ActionPay, now), booking.ErrActionNotAllowed)
		assert.Equal(t, booking.StatusProcessing, b.Status())
	})

	t.Run("terminal status stays put", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusCancelled)

		for _, to := range booking.AllStatuses() {
			assert.ErrorIs(t, b.TransitionTo(to, now), booking.ErrInvalidTransition)
		}
	})
}

func TestStay(t *testing.T) {
	a, err := booking.ParseStay("2030-01-01", "2030-01-04")
	require.NoError(t, err)

	t.Run("check-out day is free", func(t *testing.T) {
		b, err := booking.ParseStay("2030-01-04", "2030-01-06")
		require.NoError(t, err)
		assert.False(t, a.Overlaps(b))
	})

	t.Run("overlapping nights", func(t *testing.T) {
		b, err := booking.ParseStay("2030-01-03", "2030-01-05")
		require.NoError(t, err)
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a))
	})

	t.Run("quote", func(t *testing.T) {
		total, err := booking.Quote(money.FromKobo(1500000), a)
		require.NoError(t, err)
		assert.Equal(t, "45000.00", total.String())

		_, err = booking.Quote(money.FromKobo(math.MaxInt64/2), a)
		assert.ErrorIs(t, err, money.ErrOverflow)
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
