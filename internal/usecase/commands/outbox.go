package commands

import (
	"context"
	"encoding/json"
	"time"

	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

// Outbox topics double as AMQP routing keys.
const (
	TopicBookingCreated            = "booking.created"
	TopicBookingStatusChanged      = "booking.status_changed"
	TopicOrderCreated              = "order.created"
	TopicOrderStatusChanged        = "order.status_changed"
	TopicServiceOrderCreated       = "service_order.created"
	TopicServiceOrderStatusChanged = "service_order.status_changed"
	TopicPaymentSucceeded          = "payment.succeeded"
	TopicPaymentOrphaned           = "payment.orphaned"
	TopicKYCReviewed               = "kyc.reviewed"
	notificationKindDomainEvent    = "domain_event"
)

type CreatedEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	VendorID   uuid.UUID `json:"vendor_id"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

type StatusChangedEvent struct {
	ID         uuid.UUID `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    uuid.UUID `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentSucceededEvent struct {
	Reference   string    `json:"reference"`
	SubjectType string    `json:"subject_type"`
	SubjectID   uuid.UUID `json:"subject_id"`
	Amount      string    `json:"amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PaymentOrphanedEvent asks for the refund of a capture whose subject was no
// longer payable when it settled.
type PaymentOrphanedEvent struct {
	Reference     string    `json:"reference"`
	SubjectType   string    `json:"subject_type"`
	SubjectID     uuid.UUID `json:"subject_id"`
	SubjectStatus string    `json:"subject_status"`
	Amount        string    `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type KYCReviewedEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	VendorID     uuid.UUID `json:"vendor_id"`
	Status       string    `json:"status"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// enqueue writes the event to the outbox inside tx, so it is published only
// if the state change it describes commits.
func enqueue(ctx context.Context, tx shared.Tx, topic string, event any, now time.Time) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal outbox event")
	}
	if err := tx.Notifications().CreateJob(ctx, notificationKindDomainEvent, topic, payload, now); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
