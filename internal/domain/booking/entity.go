package booking

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrActionNotAllowed  = errors.New("action not allowed in current booking status")
	ErrInvalidDate       = errors.New("dates must use YYYY-MM-DD")
	ErrInvalidDateRange  = errors.New("check-out date must be after check-in date")
	ErrCheckInInPast     = errors.New("check-in date cannot be in the past")
	ErrInvalidGuests     = errors.New("guests must be between 1 and 8")
	ErrNotesTooLong      = errors.New("notes must be at most 1000 characters")
	ErrNonPositivePrice  = errors.New("price per night must be positive")
)

const maxNotesLength = 1000

// ListingSpec is what a booking needs to know about the listing it reserves.
type ListingSpec struct {
	ID            uuid.UUID
	VendorID      uuid.UUID
	PricePerNight money.Money
	MaxGuests     int
}

type Booking struct {
	id           uuid.UUID
	listingID    uuid.UUID
	vendorID     uuid.UUID
	userID       uuid.UUID
	stay         Stay
	guests       Guests
	totalPrice   money.Money
	status       Status
	escrowStatus escrow.Status
	notes        string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBooking validates the request and prices it from the listing. The total
// is always computed here, never taken from the client.
func NewBooking(listing ListingSpec, userID uuid.UUID, stay Stay, guests Guests, notes string, now time.Time) (*Booking, error) {
	if stay.StartsBefore(now) {
		return nil, ErrCheckInInPast
	}
	if listing.MaxGuests > 0 && guests.Value() > listing.MaxGuests {
		return nil, ErrInvalidGuests
	}
	if !listing.PricePerNight.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}
	total, err := Quote(listing.PricePerNight, stay)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:           uuid.New(),
		listingID:    listing.ID,
		vendorID:     listing.VendorID,
		userID:       userID,
		stay:         stay,
		guests:       guests,
		totalPrice:   total,
		status:       StatusPending,
		escrowStatus: escrow.StatusNone,
		notes:        notes,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructBooking(
	id, listingID, vendorID, userID uuid.UUID,
	stay Stay,
	guests Guests,
	totalPrice money.Money,
	status Status,
	escrowStatus escrow.Status,
	notes string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		listingID:    listingID,
		vendorID:     vendorID,
		userID:       userID,
		stay:         stay,
		guests:       guests,
		totalPrice:   totalPrice,
		status:       status,
		escrowStatus: escrowStatus,
		notes:        notes,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// TransitionTo moves the booking along the matrix and keeps escrow in step:
// paid holds funds, completed releases them, refunded returns them.
func (b *Booking) TransitionTo(to Status, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !CanTransition(b.status, to) {
		return ErrInvalidTransition
	}

	nextEscrow := b.escrowStatus
	var err error
	switch to {
	case StatusPaid:
		nextEscrow, err = b.escrowStatus.Hold()
	case StatusCompleted:
		nextEscrow, err = b.escrowStatus.Release()
	case StatusRefunded:
		nextEscrow, err = b.escrowStatus.Refund()
	}
	if err != nil {
		return ErrInvalidTransition
	}

	b.status = to
	b.escrowStatus = nextEscrow
	b.updatedAt = now
	return nil
}

// Perform runs a guest action through the action gate.
func (b *Booking) Perform(action Action, now time.Time) error {
	if !CanPerform(b.status, action) {
		return ErrActionNotAllowed
	}
	target, ok := action.Target()
	if !ok {
		return ErrActionNotAllowed
	}
	return b.TransitionTo(target, now)
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool    { return b.userID == userID }
func (b *Booking) IsVendedBy(vendorID uuid.UUID) bool { return b.vendorID == vendorID }

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) ListingID() uuid.UUID        { return b.listingID }
func (b *Booking) VendorID() uuid.UUID         { return b.vendorID }
func (b *Booking) UserID() uuid.UUID           { return b.userID }
func (b *Booking) Stay() Stay                  { return b.stay }
func (b *Booking) Guests() Guests              { return b.guests }
func (b *Booking) TotalPrice() money.Money     { return b.totalPrice }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) EscrowStatus() escrow.Status { return b.escrowStatus }
func (b *Booking) Notes() string               { return b.notes }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
