package request

import (
	"mcdee-marketplace/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	CheckIn   string    `json:"check_in" binding:"required,date"`
	CheckOut  string    `json:"check_out" binding:"required,date"`
	Guests    int       `json:"guests" binding:"required,min=1,max=8"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

func (r CreateBookingRequest) ToDomain() (booking.Stay, booking.Guests, error) {
	stay, err := booking.ParseStay(r.CheckIn, r.CheckOut)
	if err != nil {
		return booking.Stay{}, booking.Guests{}, err
	}
	guests, err := booking.NewGuests(r.Guests)
	if err != nil {
		return booking.Stay{}, booking.Guests{}, err
	}
	return stay, guests, nil
}

// UpdateBookingStatusRequest is the admin override. ExpectedStatus turns the
// update into a compare-and-set against the stored status.
type UpdateBookingStatusRequest struct {
	Status         string  `json:"status" binding:"required,booking_status"`
	ExpectedStatus *string `json:"expected_status,omitempty" binding:"omitempty,booking_status"`
}

func (r UpdateBookingStatusRequest) ToDomain() (to booking.Status, expected *booking.Status, err error) {
	to, err = booking.ParseStatus(r.Status)
	if err != nil {
		return "", nil, err
	}
	if r.ExpectedStatus != nil {
		s, err := booking.ParseStatus(*r.ExpectedStatus)
		if err != nil {
			return "", nil, err
		}
		expected = &s
	}
	return to, expected, nil
}
