package response

import (
	"time"

	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListingResponse struct {
	ID            uuid.UUID   `json:"id"`
	VendorID      uuid.UUID   `json:"vendor_id"`
	VendorName    string      `json:"vendor_name"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	City          string      `json:"city"`
	Address       string      `json:"address"`
	PricePerNight money.Money `json:"price_per_night"`
	MaxGuests     int         `json:"max_guests"`
	Bedrooms      int         `json:"bedrooms"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func FromListingView(v *queries.ListingView) (*ListingResponse, error) {
	return mapView[ListingResponse](v)
}

func FromListingList(l queries.List[*queries.ListingView]) (*ListResponse[ListingResponse], error) {
	return listOf(l, FromListingView)
}
