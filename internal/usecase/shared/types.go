package shared

import (
	"context"
	"encoding/json"
	"time"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

// Actor is the authenticated principal a command runs on behalf of.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool { return a.Role == user.RoleAdmin }

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	Status      string
	RequestHash string
	ResultID    *string
	ExpiresAt   time.Time
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}

type ClientErrorReport struct {
	UserID    *uuid.UUID
	Message   string
	Context   json.RawMessage
	URL       string
	UserAgent string
}

// Locker is a short-lived mutual exclusion keyed by name, shared across processes.
type Locker interface {
	// TryLock returns ok=false without error when someone else holds key.
	TryLock(ctx context.Context, key string) (unlock func(context.Context) error, ok bool, err error)
}

// Publisher delivers an already serialised event to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Gateway transaction states as reported by verification.
const (
	GatewayStatusSuccess   = "success"
	GatewayStatusFailed    = "failed"
	GatewayStatusAbandoned = "abandoned"
)

type GatewayInitRequest struct {
	Reference   string
	Email       string
	Amount      money.Money
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

// GatewaySession carries both checkout shapes: a redirect URL and an access
// code for the inline widget.
type GatewaySession struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

type GatewayVerification struct {
	Reference string
	Status    string
	Amount    money.Money
	Currency  string
	PaidAt    *time.Time
}

// PaymentGateway is the hosted-checkout provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, req GatewayInitRequest) (*GatewaySession, error)
	Verify(ctx context.Context, reference string) (*GatewayVerification, error)
	// VerifySignature checks a webhook body against its signature header.
	VerifySignature(body []byte, signature string) bool
}
