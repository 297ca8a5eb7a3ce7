package catalog

import (
	"errors"
	"strings"
	"time"

	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrEmptyName          = errors.New("product name is required")
	ErrNonPositivePrice   = errors.New("product price must be positive")
	ErrNegativeStock      = errors.New("stock quantity cannot be negative")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product is not available")
	ErrNotOwner           = errors.New("product belongs to another vendor")
)

type Product struct {
	id            uuid.UUID
	vendorID      uuid.UUID
	name          string
	description   string
	category      string
	price         money.Money
	stockQuantity int
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

type Details struct {
	Name          string
	Description   string
	Category      string
	Price         money.Money
	StockQuantity int
}

func (d Details) validate() (Details, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	switch {
	case d.Name == "":
		return d, ErrEmptyName
	case !d.Price.IsPositive():
		return d, ErrNonPositivePrice
	case d.StockQuantity < 0:
		return d, ErrNegativeStock
	}
	return d, nil
}

func NewProduct(vendorID uuid.UUID, details Details) (*Product, error) {
	d, err := details.validate()
	if err != nil {
		return nil, err
	}
	p := &Product{id: uuid.New(), vendorID: vendorID, isActive: true}
	p.apply(d)
	return p, nil
}

func ReconstructProduct(id, vendorID uuid.UUID, details Details, isActive bool, createdAt, updatedAt time.Time) *Product {
	p := &Product{id: id, vendorID: vendorID, isActive: isActive, createdAt: createdAt, updatedAt: updatedAt}
	p.apply(details)
	return p
}

func (p *Product) Update(actorID uuid.UUID, details Details) error {
	if p.vendorID != actorID {
		return ErrNotOwner
	}
	d, err := details.validate()
	if err != nil {
		return err
	}
	p.apply(d)
	return nil
}

func (p *Product) Deactivate(actorID uuid.UUID) error {
	if p.vendorID != actorID {
		return ErrNotOwner
	}
	p.isActive = false
	return nil
}

// Reserve takes qty units out of stock for an order.
func (p *Product) Reserve(qty int) error {
	if !p.isActive {
		return ErrProductUnavailable
	}
	if qty <= 0 || qty > p.stockQuantity {
		return ErrInsufficientStock
	}
	p.stockQuantity -= qty
	return nil
}

// Restock returns units from a declined or cancelled order.
func (p *Product) Restock(qty int) {
	if qty > 0 {
		p.stockQuantity += qty
	}
}

func (p *Product) apply(d Details) {
	p.name = d.Name
	p.description = d.Description
	p.category = d.Category
	p.price = d.Price
	p.stockQuantity = d.StockQuantity
}

func (p *Product) Details() Details {
	return Details{
		Name:          p.name,
		Description:   p.description,
		Category:      p.category,
		Price:         p.price,
		StockQuantity: p.stockQuantity,
	}
}

func (p *Product) ID() uuid.UUID        { return p.id }
func (p *Product) VendorID() uuid.UUID  { return p.vendorID }
func (p *Product) Name() string         { return p.name }
func (p *Product) Price() money.Money   { return p.price }
func (p *Product) StockQuantity() int   { return p.stockQuantity }
func (p *Product) IsActive() bool       { return p.isActive }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }
