package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound       = errs.New("payment not found")
	ErrPaymentInProgress     = errs.New("payment initiation already in progress")
	ErrPaymentSessionChanged = errs.New("payment session changed while it was being opened")
	ErrGatewayUnavailable    = errs.New("payment gateway unavailable")
	ErrInvalidSignature      = errs.New("invalid webhook signature")
	ErrInvalidWebhook        = errs.New("invalid webhook payload")
)

const webhookEventChargeSuccess = "charge.success"

type PaymentSession struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	Amount           money.Money
	IsReplayed       bool
}

type VerifyResult struct {
	Reference   string
	Status      payment.Status
	SubjectType payment.SubjectType
	SubjectID   uuid.UUID
}

type PaymentCommands interface {
	// Initiate opens (or reuses) a gateway session for the subject.
	Initiate(ctx context.Context, userID uuid.UUID, subjectType payment.SubjectType, subjectID, idempotencyKey uuid.UUID) (*PaymentSession, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type paymentCommandsImpl struct {
	uow     shared.UnitOfWork
	guard   idempotencyGuard
	gateway shared.PaymentGateway
	locker  shared.Locker
	users   queries.UserReadStore
	cfg     config.PaymentConfig
	clock   clock.Clock
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	locker shared.Locker,
	users queries.UserReadStore,
	cfg config.PaymentConfig,
	clock clock.Clock,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:     uow,
		guard:   idempotencyGuard{uow: uow, clock: clock},
		gateway: gateway,
		locker:  locker,
		users:   users,
		cfg:     cfg,
		clock:   clock,
	}
}

type initiateRequest struct {
	SubjectType payment.SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID           `json:"subject_id"`
}

func (c *paymentCommandsImpl) Initiate(ctx context.Context, userID uuid.UUID, subjectType payment.SubjectType, subjectID, idempotencyKey uuid.UUID) (*PaymentSession, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	unlock, ok, err := c.locker.TryLock(ctx, fmt.Sprintf("payment:init:%s:%s", subjectType, subjectID))
	if err != nil {
		return nil, errs.Wrap(err, "failed to acquire payment lock")
	}
	if !ok {
		return nil, errs.Mark(ErrPaymentInProgress, errs.ErrStateConflict)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release payment lock", "subject_type", subjectType, "subject_id", subjectID, "error", err.Error())
		}
	}()

	endpoint := fmt.Sprintf("POST /api/payments/%s", subjectType)
	cl, err := c.guard.claim(ctx, idempotencyKey, userID, endpoint, initiateRequest{SubjectType: subjectType, SubjectID: subjectID})
	if err != nil {
		return nil, err
	}
	if cl.replayed {
		return c.replaySession(ctx, cl.resultID)
	}

	session, err := c.openSession(ctx, cl, userID, subjectType, subjectID)
	if err != nil {
		c.guard.release(ctx, cl)
		return nil, err
	}
	return session, nil
}

// openSession validates the subject, then either reuses the live session or
// asks the gateway for a new one. The gateway call runs outside any
// transaction; the payment row is written once it returns.
func (c *paymentCommandsImpl) openSession(ctx context.Context, cl *claim, userID uuid.UUID, subjectType payment.SubjectType, subjectID uuid.UUID) (*PaymentSession, error) {
	now := c.clock.Now()

	var (
		amount money.Money
		reused *payment.Payment
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		subj, err := c.payableBy(ctx, tx, userID, subjectType, subjectID)
		if err != nil {
			return err
		}
		amount = subj.amountDue()
		reused, err = c.reusableSession(ctx, tx, subjectType, subjectID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	var created *shared.GatewaySession
	if reused == nil {
		created, err = c.initializeWithGateway(ctx, userID, subjectType, subjectID, amount)
		if err != nil {
			return nil, err
		}
	}

	var p *payment.Payment
	_, err = c.guard.complete(ctx, cl, func(ctx context.Context, tx shared.Tx) (string, error) {
		subj, err := c.payableBy(ctx, tx, userID, subjectType, subjectID)
		if err != nil {
			return "", err
		}

		open, err := tx.Payments().FindOpenBySubject(ctx, subjectType, subjectID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return "", repoErr(err, nil)
		}

		if reused != nil {
			if open == nil || open.Reference() != reused.Reference() {
				return "", errs.Mark(ErrPaymentSessionChanged, errs.ErrStateConflict)
			}
			p = open
			return p.Reference(), nil
		}

		if open != nil {
			if err := open.MarkAbandoned(now); err != nil {
				return "", transitionErr(err)
			}
			if err := tx.Payments().UpdateStatus(ctx, open); err != nil {
				return "", repoErr(err, nil)
			}
		}

		p = payment.NewPayment(subjectType, subjectID, userID, subj.amountDue(), created.Reference, created.AuthorizationURL, created.AccessCode, now)
		if err := tx.Payments().Create(ctx, p); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return "", errs.Mark(err, errs.ErrStateConflict)
			}
			return "", repoErr(err, nil)
		}
		return p.Reference(), nil
	})
	if err != nil {
		return nil, err
	}

	return toSession(p, false), nil
}

func (c *paymentCommandsImpl) payableBy(ctx context.Context, tx shared.Tx, userID uuid.UUID, subjectType payment.SubjectType, subjectID uuid.UUID) (payableSubject, error) {
	subj, err := loadSubject(ctx, tx, subjectType, subjectID)
	if err != nil {
		return nil, err
	}
	if subj.payerID() != userID {
		return nil, errs.ErrForbidden
	}
	if err := subj.checkPayable(); err != nil {
		return nil, transitionErr(err)
	}
	return subj, nil
}

func (c *paymentCommandsImpl) reusableSession(ctx context.Context, tx shared.Tx, subjectType payment.SubjectType, subjectID uuid.UUID, now time.Time) (*payment.Payment, error) {
	open, err := tx.Payments().FindOpenBySubject(ctx, subjectType, subjectID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, repoErr(err, nil)
	}
	if !open.IsReusable(now, c.cfg.SessionTTL) {
		return nil, nil
	}
	return open, nil
}

func (c *paymentCommandsImpl) initializeWithGateway(ctx context.Context, userID uuid.UUID, subjectType payment.SubjectType, subjectID uuid.UUID, amount money.Money) (*shared.GatewaySession, error) {
	payer, err := c.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoErr(err, ErrUserNotFound)
	}

	session, err := c.gateway.Initialize(ctx, shared.GatewayInitRequest{
		Reference:   payment.NewReference(),
		Email:       payer.Email,
		Amount:      amount,
		Currency:    c.cfg.Currency,
		CallbackURL: c.cfg.CallbackURL,
		Metadata: map[string]string{
			"subject_type": subjectType.String(),
			"subject_id":   subjectID.String(),
		},
	})
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}
	return session, nil
}

func (c *paymentCommandsImpl) replaySession(ctx context.Context, reference string) (*PaymentSession, error) {
	var p *payment.Payment
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		p, err = tx.Payments().FindByReferenceForUpdate(ctx, reference)
		return repoErr(err, ErrPaymentNotFound)
	})
	if err != nil {
		return nil, err
	}
	return toSession(p, true), nil
}

// Verify settles a payment from the gateway's own record of it. A confirmed
// capture is always recorded, even on a session that was abandoned in the
// meantime; a payment that already succeeded is left alone, so callbacks and
// webhooks may race.
func (c *paymentCommandsImpl) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, domainErr(ErrPaymentNotFound)
	}

	verification, err := c.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}

	var (
		result    *VerifyResult
		rejectErr error
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()
		rejectErr = nil

		p, err := tx.Payments().FindByReferenceForUpdate(ctx, reference)
		if err != nil {
			return repoErr(err, ErrPaymentNotFound)
		}
		defer func() { result = toVerifyResult(p) }()

		switch verification.Status {
		case shared.GatewayStatusSuccess:
			if !p.CanCapture() {
				return nil
			}
			paidAt := now
			if verification.PaidAt != nil {
				paidAt = *verification.PaidAt
			}
			if err := p.MarkSucceeded(verification.Amount, verification.Currency, paidAt); err != nil {
				// Keep the failed payment; the mismatch is reported after commit.
				rejectErr = err
				return repoErr(tx.Payments().UpdateStatus(ctx, p), nil)
			}
			return c.settle(ctx, tx, p, now)
		case shared.GatewayStatusFailed, shared.GatewayStatusAbandoned:
			if p.Status() != payment.StatusInitialized {
				return nil
			}
			if err := p.MarkFailed(now); err != nil {
				return transitionErr(err)
			}
			return repoErr(tx.Payments().UpdateStatus(ctx, p), nil)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	if rejectErr != nil {
		return result, domainErr(rejectErr)
	}
	return result, nil
}

// settle moves the paid subject forward and records both events. A subject
// that stopped waiting for payment orphans the capture instead.
func (c *paymentCommandsImpl) settle(ctx context.Context, tx shared.Tx, p *payment.Payment, now time.Time) error {
	subj, err := loadSubject(ctx, tx, p.SubjectType(), p.SubjectID())
	if err != nil {
		return err
	}
	if err := subj.checkPayable(); err != nil {
		return orphan(ctx, tx, p, subj, now)
	}

	from := subj.status()
	if err := subj.settle(now); err != nil {
		return transitionErr(err)
	}
	if err := subj.save(ctx, tx); err != nil {
		return repoErr(err, nil)
	}
	if err := tx.Payments().UpdateStatus(ctx, p); err != nil {
		return repoErr(err, nil)
	}

	if err := enqueue(ctx, tx, subj.statusTopic(), StatusChangedEvent{
		ID:         p.SubjectID(),
		From:       from,
		To:         subj.status(),
		ActorID:    p.UserID(),
		OccurredAt: now,
	}, now); err != nil {
		return err
	}
	return enqueue(ctx, tx, TopicPaymentSucceeded, PaymentSucceededEvent{
		Reference:   p.Reference(),
		SubjectType: p.SubjectType().String(),
		SubjectID:   p.SubjectID(),
		Amount:      p.Amount().String(),
		OccurredAt:  now,
	}, now)
}

// orphan handles money captured for a subject that can no longer take it: a
// booking cancelled while its checkout was open, or a second session paid
// after the first settled. The payment is marked refunded and the refund is
// handed to the outbox; the subject is left as it is.
func orphan(ctx context.Context, tx shared.Tx, p *payment.Payment, subj payableSubject, now time.Time) error {
	if err := p.MarkRefunded(now); err != nil {
		return transitionErr(err)
	}
	if err := tx.Payments().UpdateStatus(ctx, p); err != nil {
		return repoErr(err, nil)
	}

	slog.Warn("captured payment has no payable subject",
		"reference", p.Reference(),
		"subject_type", p.SubjectType().String(),
		"subject_id", p.SubjectID(),
		"subject_status", subj.status(),
	)
	return enqueue(ctx, tx, TopicPaymentOrphaned, PaymentOrphanedEvent{
		Reference:     p.Reference(),
		SubjectType:   p.SubjectType().String(),
		SubjectID:     p.SubjectID(),
		SubjectStatus: subj.status(),
		Amount:        p.Amount().String(),
		OccurredAt:    now,
	}, now)
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandleWebhook acknowledges every authentic event. Only charge.success
// triggers a verification; everything else is ignored.
func (c *paymentCommandsImpl) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !c.gateway.VerifySignature(body, signature) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return errs.Mark(err, ErrInvalidWebhook)
	}
	if event.Event != webhookEventChargeSuccess {
		slog.Debug("ignoring payment webhook", "event", event.Event)
		return nil
	}

	if _, err := c.Verify(ctx, event.Data.Reference); err != nil {
		if errs.IsAny(err, ErrPaymentNotFound, errs.ErrDomainValidation) {
			slog.Warn("payment webhook not applied", "reference", event.Data.Reference, "error", err.Error())
			return nil
		}
		return err
	}
	return nil
}

func toSession(p *payment.Payment, replayed bool) *PaymentSession {
	return &PaymentSession{
		Reference:        p.Reference(),
		AuthorizationURL: p.AuthorizationURL(),
		AccessCode:       p.AccessCode(),
		Amount:           p.Amount(),
		IsReplayed:       replayed,
	}
}

func toVerifyResult(p *payment.Payment) *VerifyResult {
	return &VerifyResult{
		Reference:   p.Reference(),
		Status:      p.Status(),
		SubjectType: p.SubjectType(),
		SubjectID:   p.SubjectID(),
	}
}
