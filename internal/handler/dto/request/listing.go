package request

import (
	"mcdee-marketplace/internal/domain/listing"
	"mcdee-marketplace/internal/pkg/money"
)

// ListingRequest accepts price_per_night as a number or a numeric string.
type ListingRequest struct {
	Title         string      `json:"title" binding:"required,max=200"`
	Description   string      `json:"description" binding:"max=5000"`
	City          string      `json:"city" binding:"required,max=100"`
	Address       string      `json:"address" binding:"max=300"`
	PricePerNight money.Money `json:"price_per_night"`
	MaxGuests     int         `json:"max_guests" binding:"required,min=1,max=8"`
	Bedrooms      int         `json:"bedrooms" binding:"min=0,max=50"`
}

func (r ListingRequest) ToDomain() listing.Details {
	return listing.Details{
		Title:         r.Title,
		Description:   r.Description,
		City:          r.City,
		Address:       r.Address,
		PricePerNight: r.PricePerNight,
		MaxGuests:     r.MaxGuests,
		Bedrooms:      r.Bedrooms,
	}
}
