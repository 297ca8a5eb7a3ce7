package serviceorder

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
	ErrInvalidStatus        = errors.New("invalid service order status")
	ErrInvalidTransition    = errors.New("service order status transition not allowed")
	ErrRequirementsRequired = errors.New("requirements are required")
	ErrRequirementsTooLong  = errors.New("requirements must be at most 2000 characters")
	ErrDeadlineInPast       = errors.New("deadline cannot be in the past")
	ErrInvalidResponse      = errors.New("response must be accept or decline")
	ErrPricingInactive      = errors.New("service pricing is not available")
)

const maxRequirementsLength = 2000

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted:  {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCompleted},
	StatusDeclined:  nil,
	StatusCompleted: nil,
	StatusCancelled: nil,
}

func AllStatuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusDeclined, StatusPaid, StatusCompleted, StatusCancelled}
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Response string

const (
	ResponseAccept  Response = "accept"
	ResponseDecline Response = "decline"
)

func ParseResponse(s string) (Response, error) {
	switch r := Response(strings.ToLower(strings.TrimSpace(s))); r {
	case ResponseAccept, ResponseDecline:
		return r, nil
	default:
		return "", ErrInvalidResponse
	}
}

func (r Response) Target() Status {
	if r == ResponseAccept {
		return StatusAccepted
	}
	return StatusDeclined
}

// PricingSpec is the subset of a pricing row an order is created from.
type PricingSpec struct {
	ID              uuid.UUID
	ServiceVendorID uuid.UUID
	VendorUserID    uuid.UUID
	Price           money.Money
	IsActive        bool
}

type ServiceOrder struct {
	id              uuid.UUID
	serviceVendorID uuid.UUID
	vendorUserID    uuid.UUID
	pricingID       uuid.UUID
	userID          uuid.UUID
	deadline        time.Time
	requirements    string
	amount          money.Money
	status          Status
	escrowStatus    escrow.Status
	vendorNote      string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewServiceOrder fixes the amount to the pricing row's price at creation.
// deadline is a calendar date and may be today.
func NewServiceOrder(pricing PricingSpec, userID uuid.UUID, deadline time.Time, requirements string, now time.Time) (*ServiceOrder, error) {
	if !pricing.IsActive {
		return nil, ErrPricingInactive
	}
	requirements = strings.TrimSpace(requirements)
	if requirements == "" {
		return nil, ErrRequirementsRequired
	}
	if utf8.RuneCountInString(requirements) > maxRequirementsLength {
		return nil, ErrRequirementsTooLong
	}
	deadline = truncateDay(deadline)
	if deadline.Before(truncateDay(now)) {
		return nil, ErrDeadlineInPast
	}

	return &ServiceOrder{
		id:              uuid.New(),
		serviceVendorID: pricing.ServiceVendorID,
		vendorUserID:    pricing.VendorUserID,
		pricingID:       pricing.ID,
		userID:          userID,
		deadline:        deadline,
		requirements:    requirements,
		amount:          pricing.Price,
		status:          StatusPending,
		escrowStatus:    escrow.StatusNone,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructServiceOrder(
	id, serviceVendorID, vendorUserID, pricingID, userID uuid.UUID,
	deadline time.Time,
	requirements string,
	amount money.Money,
	status Status,
	escrowStatus escrow.Status,
	vendorNote string,
	createdAt, updatedAt time.Time,
) *ServiceOrder {
	return &ServiceOrder{
		id:              id,
		serviceVendorID: serviceVendorID,
		vendorUserID:    vendorUserID,
		pricingID:       pricingID,
		userID:          userID,
		deadline:        deadline,
		requirements:    requirements,
		amount:          amount,
		status:          status,
		escrowStatus:    escrowStatus,
		vendorNote:      vendorNote,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Respond records the vendor's answer. Only pending orders can be answered.
func (o *ServiceOrder) Respond(r Response, note string, now time.Time) error {
	if err := o.TransitionTo(r.Target(), now); err != nil {
		return err
	}
	o.vendorNote = strings.TrimSpace(note)
	return nil
}

func (o *ServiceOrder) TransitionTo(to Status, now time.Time) error {
	if !CanTransition(o.status, to) {
		return ErrInvalidTransition
	}

	nextEscrow := o.escrowStatus
	var err error
	switch to {
	case StatusPaid:
		nextEscrow, err = o.escrowStatus.Hold()
	case StatusCompleted:
		nextEscrow, err = o.escrowStatus.Release()
	}
	if err != nil {
		return ErrInvalidTransition
	}

	o.status = to
	o.escrowStatus = nextEscrow
	o.updatedAt = now
	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (o *ServiceOrder) ID() uuid.UUID               { return o.id }
func (o *ServiceOrder) ServiceVendorID() uuid.UUID  { return o.serviceVendorID }
func (o *ServiceOrder) VendorUserID() uuid.UUID     { return o.vendorUserID }
func (o *ServiceOrder) PricingID() uuid.UUID        { return o.pricingID }
func (o *ServiceOrder) UserID() uuid.UUID           { return o.userID }
func (o *ServiceOrder) Deadline() time.Time         { return o.deadline }
func (o *ServiceOrder) Requirements() string        { return o.requirements }
func (o *ServiceOrder) Amount() money.Money         { return o.amount }
func (o *ServiceOrder) Status() Status              { return o.status }
func (o *ServiceOrder) EscrowStatus() escrow.Status { return o.escrowStatus }
func (o *ServiceOrder) VendorNote() string          { return o.vendorNote }
func (o *ServiceOrder) CreatedAt() time.Time        { return o.createdAt }
func (o *ServiceOrder) UpdatedAt() time.Time        { return o.updatedAt }
