package serviceorder

import (
	"errors"
	"strings"

	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrEmptyBusinessName = errors.New("business name is required")
	ErrEmptyCity         = errors.New("city is required")
	ErrEmptyTitle        = errors.New("pricing title is required")
	ErrNonPositivePrice  = errors.New("price must be positive")
)

// Profile is a vendor's public service storefront. One per vendor user.
type Profile struct {
	UserID       uuid.UUID
	BusinessName string
	Category     string
	City         string
	Description  string
}

func (p *Profile) Validate() error {
	p.BusinessName = strings.TrimSpace(p.BusinessName)
	p.City = strings.TrimSpace(p.City)
	p.Category = strings.TrimSpace(p.Category)
	if p.BusinessName == "" {
		return ErrEmptyBusinessName
	}
	if p.City == "" {
		return ErrEmptyCity
	}
	return nil
}

// Pricing is a fixed-price offer a vendor sells.
type Pricing struct {
	Title       string
	Description string
	Price       money.Money
}

func (p *Pricing) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if !p.Price.IsPositive() {
		return ErrNonPositivePrice
	}
	return nil
}
