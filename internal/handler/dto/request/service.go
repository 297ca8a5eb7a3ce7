package request

import (
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/serviceorder"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

type ServiceProfileRequest struct {
	BusinessName string `json:"business_name" binding:"required,max=200"`
	Category     string `json:"category" binding:"max=100"`
	City         string `json:"city" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=2000"`
}

func (r ServiceProfileRequest) ToDomain(userID uuid.UUID) serviceorder.Profile {
	return serviceorder.Profile{
		UserID:       userID,
		BusinessName: r.BusinessName,
		Category:     r.Category,
		City:         r.City,
		Description:  r.Description,
	}
}

type ServicePricingRequest struct {
	Title       string      `json:"title" binding:"required,max=200"`
	Description string      `json:"description" binding:"max=2000"`
	Price       money.Money `json:"price"`
}

func (r ServicePricingRequest) ToDomain() serviceorder.Pricing {
	return serviceorder.Pricing{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
	}
}

type CreateServiceOrderRequest struct {
	ServicePricingID uuid.UUID `json:"service_pricing_id" binding:"required"`
	Deadline         string    `json:"deadline" binding:"required,date"`
	Requirements     string    `json:"requirements" binding:"required,max=2000"`
}

func (r CreateServiceOrderRequest) DeadlineDate() (time.Time, error) {
	t, err := time.Parse(booking.DateLayout, r.Deadline)
	if err != nil {
		return time.Time{}, booking.ErrInvalidDate
	}
	return t, nil
}
