package listing

import (
	"errors"
	"strings"
	"time"

	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrEmptyCity        = errors.New("city is required")
	ErrNonPositivePrice = errors.New("price per night must be positive")
	ErrInvalidMaxGuests = errors.New("max guests must be between 1 and 8")
	ErrInvalidBedrooms  = errors.New("bedrooms cannot be negative")
	ErrNotOwner         = errors.New("listing belongs to another vendor")
)

const maxGuestsLimit = 8

type Listing struct {
	id            uuid.UUID
	vendorID      uuid.UUID
	title         string
	description   string
	city          string
	address       string
	pricePerNight money.Money
	maxGuests     int
	bedrooms      int
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

type Details struct {
	Title         string
	Description   string
	City          string
	Address       string
	PricePerNight money.Money
	MaxGuests     int
	Bedrooms      int
}

func (d Details) validate() (Details, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.City = strings.TrimSpace(d.City)
	d.Description = strings.TrimSpace(d.Description)
	d.Address = strings.TrimSpace(d.Address)
	switch {
	case d.Title == "":
		return d, ErrEmptyTitle
	case d.City == "":
		return d, ErrEmptyCity
	case !d.PricePerNight.IsPositive():
		return d, ErrNonPositivePrice
	case d.MaxGuests < 1 || d.MaxGuests > maxGuestsLimit:
		return d, ErrInvalidMaxGuests
	case d.Bedrooms < 0:
		return d, ErrInvalidBedrooms
	}
	return d, nil
}

func NewListing(vendorID uuid.UUID, details Details) (*Listing, error) {
	d, err := details.validate()
	if err != nil {
		return nil, err
	}
	l := &Listing{id: uuid.New(), vendorID: vendorID, isActive: true}
	l.apply(d)
	return l, nil
}

func ReconstructListing(id, vendorID uuid.UUID, details Details, isActive bool, createdAt, updatedAt time.Time) *Listing {
	l := &Listing{
		id:        id,
		vendorID:  vendorID,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
	l.apply(details)
	return l
}

// Update replaces the editable details after validating them.
func (l *Listing) Update(actorID uuid.UUID, details Details) error {
	if l.vendorID != actorID {
		return ErrNotOwner
	}
	d, err := details.validate()
	if err != nil {
		return err
	}
	l.apply(d)
	return nil
}

func (l *Listing) Deactivate(actorID uuid.UUID) error {
	if l.vendorID != actorID {
		return ErrNotOwner
	}
	l.isActive = false
	return nil
}

func (l *Listing) apply(d Details) {
	l.title = d.Title
	l.description = d.Description
	l.city = d.City
	l.address = d.Address
	l.pricePerNight = d.PricePerNight
	l.maxGuests = d.MaxGuests
	l.bedrooms = d.Bedrooms
}

func (l *Listing) Details() Details {
	return Details{
		Title:         l.title,
		Description:   l.description,
		City:          l.city,
		Address:       l.address,
		PricePerNight: l.pricePerNight,
		MaxGuests:     l.maxGuests,
		Bedrooms:      l.bedrooms,
	}
}

func (l *Listing) ID() uuid.UUID              { return l.id }
func (l *Listing) VendorID() uuid.UUID        { return l.vendorID }
func (l *Listing) Title() string              { return l.title }
func (l *Listing) City() string               { return l.city }
func (l *Listing) PricePerNight() money.Money { return l.pricePerNight }
func (l *Listing) MaxGuests() int             { return l.maxGuests }
func (l *Listing) IsActive() bool             { return l.isActive }
func (l *Listing) CreatedAt() time.Time       { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time       { return l.updatedAt }
