package order

import (
	"errors"
	"strings"
	"time"

	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrNoItems           = errors.New("order must contain at least one item")
	ErrEmptyAddress      = errors.New("delivery address is required")
	ErrInvalidResponse   = errors.New("response must be accept or decline")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

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

var transitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted:  {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCompleted},
	StatusDeclined:  nil,
	StatusCompleted: nil,
	StatusCancelled: nil,
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Response is the vendor's answer to a pending order.
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

type Item struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   money.Money
	Quantity    int
}

func (i Item) Total() (money.Money, error) {
	return i.UnitPrice.Mul(i.Quantity)
}

type Order struct {
	id              uuid.UUID
	checkoutID      uuid.UUID
	userID          uuid.UUID
	vendorID        uuid.UUID
	items           []Item
	totalAmount     money.Money
	status          Status
	escrowStatus    escrow.Status
	deliveryAddress string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewOrder prices the items as they are at checkout time. All orders created
// by one checkout share checkoutID.
func NewOrder(checkoutID, userID, vendorID uuid.UUID, items []Item, deliveryAddress string, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	deliveryAddress = strings.TrimSpace(deliveryAddress)
	if deliveryAddress == "" {
		return nil, ErrEmptyAddress
	}

	total := money.Zero()
	for _, it := range items {
		line, err := it.Total()
		if err != nil {
			return nil, err
		}
		if total, err = total.Add(line); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:              uuid.New(),
		checkoutID:      checkoutID,
		userID:          userID,
		vendorID:        vendorID,
		items:           items,
		totalAmount:     total,
		status:          StatusPending,
		escrowStatus:    escrow.StatusNone,
		deliveryAddress: deliveryAddress,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructOrder(
	id, checkoutID, userID, vendorID uuid.UUID,
	items []Item,
	totalAmount money.Money,
	status Status,
	escrowStatus escrow.Status,
	deliveryAddress string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:              id,
		checkoutID:      checkoutID,
		userID:          userID,
		vendorID:        vendorID,
		items:           items,
		totalAmount:     totalAmount,
		status:          status,
		escrowStatus:    escrowStatus,
		deliveryAddress: deliveryAddress,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (o *Order) TransitionTo(to Status, now time.Time) error {
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

// ReturnsStock reports whether reaching this status puts items back on sale.
func (s Status) ReturnsStock() bool {
	return s == StatusDeclined || s == StatusCancelled
}

func (o *Order) ID() uuid.UUID               { return o.id }
func (o *Order) CheckoutID() uuid.UUID       { return o.checkoutID }
func (o *Order) UserID() uuid.UUID           { return o.userID }
func (o *Order) VendorID() uuid.UUID         { return o.vendorID }
func (o *Order) Items() []Item               { return o.items }
func (o *Order) TotalAmount() money.Money    { return o.totalAmount }
func (o *Order) Status() Status              { return o.status }
func (o *Order) EscrowStatus() escrow.Status { return o.escrowStatus }
func (o *Order) DeliveryAddress() string     { return o.deliveryAddress }
func (o *Order) CreatedAt() time.Time        { return o.createdAt }
func (o *Order) UpdatedAt() time.Time        { return o.updatedAt }
