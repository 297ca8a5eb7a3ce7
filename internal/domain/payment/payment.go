// Package payment models one gateway session opened for a payable subject.
package payment

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidSubjectType = errors.New("invalid payment subject type")
	ErrInvalidStatus      = errors.New("invalid payment status")
	ErrAmountMismatch     = errors.New("paid amount does not match the amount due")
	ErrCurrencyMismatch   = errors.New("paid currency does not match")
	ErrNotOpen            = errors.New("payment is no longer open")
	ErrNotRefundable      = errors.New("only successful payments can be refunded")
)

type SubjectType string

const (
	SubjectBooking      SubjectType = "booking"
	SubjectOrder        SubjectType = "order"
	SubjectServiceOrder SubjectType = "service_order"
)

func (t SubjectType) String() string { return string(t) }

type Status string

const (
	StatusInitialized Status = "initialized"
	StatusSuccess     Status = "success"
	StatusFailed      Status = "failed"
	StatusAbandoned   Status = "abandoned"
	StatusRefunded    Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusInitialized, StatusSuccess, StatusFailed, StatusAbandoned, StatusRefunded:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string { return string(s) }

// NewReference returns a gateway reference such as "MCD-1A2B3C4D5E6F7A8B".
func NewReference() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "MCD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return "MCD-" + strings.ToUpper(hex.EncodeToString(b[:]))
}

type Payment struct {
	id               uuid.UUID
	reference        string
	subjectType      SubjectType
	subjectID        uuid.UUID
	userID           uuid.UUID
	amount           money.Money
	currency         string
	status           Status
	authorizationURL string
	accessCode       string
	paidAt           *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

func NewPayment(subjectType SubjectType, subjectID, userID uuid.UUID, amount money.Money, reference, authorizationURL, accessCode string, now time.Time) *Payment {
	return &Payment{
		id:               uuid.New(),
		reference:        reference,
		subjectType:      subjectType,
		subjectID:        subjectID,
		userID:           userID,
		amount:           amount,
		currency:         money.Currency,
		status:           StatusInitialized,
		authorizationURL: authorizationURL,
		accessCode:       accessCode,
		createdAt:        now,
		updatedAt:        now,
	}
}

func ReconstructPayment(
	id uuid.UUID,
	reference string,
	subjectType SubjectType,
	subjectID, userID uuid.UUID,
	amount money.Money,
	currency string,
	status Status,
	authorizationURL, accessCode string,
	paidAt *time.Time,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:               id,
		reference:        reference,
		subjectType:      subjectType,
		subjectID:        subjectID,
		userID:           userID,
		amount:           amount,
		currency:         currency,
		status:           status,
		authorizationURL: authorizationURL,
		accessCode:       accessCode,
		paidAt:           paidAt,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// IsReusable reports whether an open session can be handed out again
// instead of starting a new one with the gateway.
func (p *Payment) IsReusable(now time.Time, ttl time.Duration) bool {
	return p.status == StatusInitialized && now.Sub(p.createdAt) < ttl
}

// MarkSucceeded settles the payment against what the gateway reports. An
// abandoned session still accepts a capture the gateway confirms late. On a
// mismatch the payment is marked failed and the mismatch error is returned.
func (p *Payment) MarkSucceeded(paid money.Money, currency string, paidAt time.Time) error {
	if !p.CanCapture() {
		return ErrNotOpen
	}
	if !strings.EqualFold(currency, p.currency) {
		p.fail(paidAt)
		return ErrCurrencyMismatch
	}
	if !paid.Equal(p.amount) {
		p.fail(paidAt)
		return ErrAmountMismatch
	}
	p.status = StatusSuccess
	p.paidAt = &paidAt
	p.updatedAt = paidAt
	return nil
}

// CanCapture reports whether a gateway success may still be recorded.
func (p *Payment) CanCapture() bool {
	return p.status == StatusInitialized || p.status == StatusAbandoned
}

func (p *Payment) MarkFailed(now time.Time) error {
	if p.status != StatusInitialized {
		return ErrNotOpen
	}
	p.fail(now)
	return nil
}

func (p *Payment) MarkAbandoned(now time.Time) error {
	if p.status != StatusInitialized {
		return ErrNotOpen
	}
	p.status = StatusAbandoned
	p.updatedAt = now
	return nil
}

func (p *Payment) MarkRefunded(now time.Time) error {
	if p.status != StatusSuccess {
		return ErrNotRefundable
	}
	p.status = StatusRefunded
	p.updatedAt = now
	return nil
}

func (p *Payment) fail(now time.Time) {
	p.status = StatusFailed
	p.updatedAt = now
}

func (p *Payment) ID() uuid.UUID            { return p.id }
func (p *Payment) Reference() string        { return p.reference }
func (p *Payment) SubjectType() SubjectType { return p.subjectType }
func (p *Payment) SubjectID() uuid.UUID     { return p.subjectID }
func (p *Payment) UserID() uuid.UUID        { return p.userID }
func (p *Payment) Amount() money.Money      { return p.amount }
func (p *Payment) Currency() string         { return p.currency }
func (p *Payment) Status() Status           { return p.status }
func (p *Payment) AuthorizationURL() string { return p.authorizationURL }
func (p *Payment) AccessCode() string       { return p.accessCode }
func (p *Payment) PaidAt() *time.Time       { return p.paidAt }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time     { return p.updatedAt }
