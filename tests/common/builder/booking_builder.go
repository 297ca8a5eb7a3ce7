//go:build unit || e2e

package builder

import (
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ListingID     uuid.UUID
	VendorID      uuid.UUID
	UserID        uuid.UUID
	PricePerNight money.Money
	MaxGuests     int
	CheckIn       string
	CheckOut      string
	Guests        int
	Notes         string
	Now           time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ListingID:     uuid.New(),
		VendorID:      uuid.New(),
		UserID:        uuid.New(),
		PricePerNight: money.FromKobo(2500000),
		MaxGuests:     4,
		CheckIn:       "2030-01-01",
		CheckOut:      "2030-01-04",
		Guests:        2,
		Notes:         "late arrival",
		Now:           time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	stay, err := booking.ParseStay(b.CheckIn, b.CheckOut)
	if err != nil {
		return nil, err
	}
	guests, err := booking.NewGuests(b.Guests)
	if err != nil {
		return nil, err
	}
	listing := booking.ListingSpec{
		ID:            b.ListingID,
		VendorID:      b.VendorID,
		PricePerNight: b.PricePerNight,
		MaxGuests:     b.MaxGuests,
	}
	return booking.NewBooking(listing, b.UserID, stay, guests, b.Notes, b.Now)
}

// BuildInStatus rebuilds a valid booking as if it were loaded at the given status.
func (b *BookingBuilder) BuildInStatus(status booking.Status) *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	escrowStatus := bk.EscrowStatus()
	switch status {
	case booking.StatusPaid, booking.StatusCheckedIn, booking.StatusCheckedOut:
		escrowStatus = escrow.StatusHeld
	case booking.StatusCompleted:
		escrowStatus = escrow.StatusReleased
	case booking.StatusRefunded:
		escrowStatus = escrow.StatusRefunded
	}
	return booking.ReconstructBooking(
		bk.ID(), bk.ListingID(), bk.VendorID(), bk.UserID(),
		bk.Stay(), bk.Guests(), bk.TotalPrice(),
		status, escrowStatus, bk.Notes(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
}

// BuildView renders the booking at the given status the way the read side does.
func (b *BookingBuilder) BuildView(status booking.Status) *queries.BookingView {
	bk := b.BuildInStatus(status)
	desc, _ := booking.Describe(status)
	return &queries.BookingView{
		ID:               bk.ID(),
		ListingID:        bk.ListingID(),
		ListingTitle:     "Lekki Studio",
		ListingCity:      "Lagos",
		VendorID:         bk.VendorID(),
		UserID:           bk.UserID(),
		UserName:         "Ada Obi",
		CheckIn:          bk.Stay().CheckIn(),
		CheckOut:         bk.Stay().CheckOut(),
		Nights:           bk.Stay().Nights(),
		Guests:           bk.Guests().Value(),
		TotalPrice:       bk.TotalPrice(),
		Status:           status,
		StatusDescriptor: desc,
		AllowedActions:   booking.AllowedActions(status),
		EscrowStatus:     bk.EscrowStatus().String(),
		EscrowLabel:      bk.EscrowStatus().Label(),
		Notes:            bk.Notes(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}

func (b *BookingBuilder) WithDates(checkIn, checkOut string) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithGuests(n int) *BookingBuilder {
	b.Guests = n
	return b
}
