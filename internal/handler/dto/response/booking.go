package response

import (
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID               uuid.UUID          `json:"id"`
	ListingID        uuid.UUID          `json:"listing_id"`
	ListingTitle     string             `json:"listing_title"`
	ListingCity      string             `json:"listing_city"`
	VendorID         uuid.UUID          `json:"vendor_id"`
	UserID           uuid.UUID          `json:"user_id"`
	UserName         string             `json:"user_name"`
	CheckInDate      string             `json:"check_in"`
	CheckOutDate     string             `json:"check_out"`
	Nights           int                `json:"nights"`
	Guests           int                `json:"guests"`
	TotalPrice       money.Money        `json:"total_price"`
	Status           booking.Status     `json:"status"`
	StatusDescriptor booking.Descriptor `json:"status_descriptor"`
	AllowedActions   []booking.Action   `json:"allowed_actions"`
	EscrowStatus     string             `json:"escrow_status"`
	EscrowLabel      string             `json:"escrow_label"`
	Notes            string             `json:"notes,omitempty"`
	PaymentReference *string            `json:"payment_reference,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// FromBookingView renders stay dates as calendar days.
func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	r, err := mapView[BookingResponse](v)
	if err != nil {
		return nil, err
	}
	r.CheckInDate = v.CheckIn.Format(booking.DateLayout)
	r.CheckOutDate = v.CheckOut.Format(booking.DateLayout)
	return r, nil
}

func FromBookingList(l queries.List[*queries.BookingView]) (*ListResponse[BookingResponse], error) {
	return listOf(l, FromBookingView)
}
