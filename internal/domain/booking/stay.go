package booking

import (
	"time"

	"mcdee-marketplace/internal/pkg/money"
)

const (
	MinGuests  = 1
	MaxGuests  = 8
	DateLayout = "2006-01-02"
)

// Stay is a check-in/check-out pair of calendar dates.
type Stay struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	in := truncateToDate(checkIn)
	out := truncateToDate(checkOut)
	if !out.After(in) {
		return Stay{}, ErrInvalidDateRange
	}
	return Stay{checkIn: in, checkOut: out}, nil
}

// ParseStay parses YYYY-MM-DD dates.
func ParseStay(checkIn, checkOut string) (Stay, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return Stay{}, ErrInvalidDate
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return Stay{}, ErrInvalidDate
	}
	return NewStay(in, out)
}

func (s Stay) CheckIn() time.Time  { return s.checkIn }
func (s Stay) CheckOut() time.Time { return s.checkOut }

// Nights counts calendar days; always >= 1 for a valid stay.
func (s Stay) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

// StartsBefore reports whether check-in falls before the given day.
func (s Stay) StartsBefore(day time.Time) bool {
	return s.checkIn.Before(truncateToDate(day))
}

// Overlaps treats check-out day as free for the next check-in.
func (s Stay) Overlaps(other Stay) bool {
	return s.checkIn.Before(other.checkOut) && other.checkIn.Before(s.checkOut)
}

type Guests struct {
	value int
}

func NewGuests(n int) (Guests, error) {
	if n < MinGuests || n > MaxGuests {
		return Guests{}, ErrInvalidGuests
	}
	return Guests{value: n}, nil
}

func (g Guests) Value() int {
	return g.value
}

// Quote is nights × price per night.
func Quote(pricePerNight money.Money, stay Stay) (money.Money, error) {
	return pricePerNight.Mul(stay.Nights())
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
