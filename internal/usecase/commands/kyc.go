package commands

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/kyc"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/ptr"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrKYCSubmissionNotFound = errs.New("kyc submission not found")
	ErrKYCAlreadyPending     = errs.New("a kyc submission is already pending review")
)

type KYCCommands interface {
	Submit(ctx context.Context, vendorID uuid.UUID, req reqdto.SubmitKYCRequest) (uuid.UUID, error)
	Approve(ctx context.Context, adminID, submissionID uuid.UUID) error
	Reject(ctx context.Context, adminID, submissionID uuid.UUID, req reqdto.RejectKYCRequest) error
}

type kycCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewKYCCommands(uow shared.UnitOfWork, clock clock.Clock) KYCCommands {
	return &kycCommandsImpl{uow: uow, clock: clock}
}

func (c *kycCommandsImpl) Submit(ctx context.Context, vendorID uuid.UUID, req reqdto.SubmitKYCRequest) (uuid.UUID, error) {
	docType, err := kyc.ParseDocumentType(req.DocumentType)
	if err != nil {
		return uuid.Nil, domainErr(err)
	}
	s, err := kyc.NewSubmission(vendorID, req.BusinessName, docType, req.DocumentURL, c.clock.Now())
	if err != nil {
		return uuid.Nil, domainErr(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.KYC().Create(ctx, s); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.MarkAll(err, ErrKYCAlreadyPending, errs.ErrStateConflict)
			}
			return repoErr(err, nil)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return s.ID(), nil
}

// Approve also flips the vendor's kyc_verified flag in the same transaction.
func (c *kycCommandsImpl) Approve(ctx context.Context, adminID, submissionID uuid.UUID) error {
	return c.review(ctx, submissionID, func(ctx context.Context, tx shared.Tx, s *kyc.Submission, now time.Time) error {
		if err := s.Approve(adminID, now); err != nil {
			return err
		}
		return repoErr(tx.Users().SetKYCVerified(ctx, s.VendorID(), true), ErrUserNotFound)
	})
}

func (c *kycCommandsImpl) Reject(ctx context.Context, adminID, submissionID uuid.UUID, req reqdto.RejectKYCRequest) error {
	return c.review(ctx, submissionID, func(_ context.Context, _ shared.Tx, s *kyc.Submission, now time.Time) error {
		return s.Reject(adminID, req.Reason, now)
	})
}

func (c *kycCommandsImpl) review(
	ctx context.Context,
	submissionID uuid.UUID,
	decide func(ctx context.Context, tx shared.Tx, s *kyc.Submission, now time.Time) error,
) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		s, err := tx.KYC().FindByIDForUpdate(ctx, submissionID)
		if err != nil {
			return repoErr(err, ErrKYCSubmissionNotFound)
		}
		if err := decide(ctx, tx, s, now); err != nil {
			switch {
			case errs.Is(err, kyc.ErrNotPending):
				return transitionErr(err)
			case errs.IsAny(err, ErrUserNotFound, errs.ErrDatabaseOperationFailed):
				return err
			default:
				return domainErr(err)
			}
		}
		if err := tx.KYC().UpdateReview(ctx, s); err != nil {
			return repoErr(err, ErrKYCSubmissionNotFound)
		}

		return enqueue(ctx, tx, TopicKYCReviewed, KYCReviewedEvent{
			SubmissionID: s.ID(),
			VendorID:     s.VendorID(),
			Status:       s.Status().String(),
			ReviewerID:   ptr.Deref(s.ReviewerID()),
			OccurredAt:   now,
		}, now)
	})
}
