//go:build unit

package commands

import (
	"context"
	"testing"

	"mcdee-marketplace/internal/domain/kyc"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func pendingSubmission(id, vendorID uuid.UUID) *kyc.Submission {
	return kyc.ReconstructSubmission(id, vendorID, "Ade Stays", kyc.DocumentCAC,
		"https://files.example.com/cac.pdf", kyc.StatusPending, nil, "", nil, testNow)
}

func TestKYCCommands_Submit(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()
	req := reqdto.SubmitKYCRequest{
		BusinessName: "Ade Stays",
		DocumentType: "cac",
		DocumentURL:  "https://files.example.com/cac.pdf",
	}

	t.Run("正常系: 申請を保存する", func(t *testing.T) {
		f := newFixture(t)
		f.kyc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *kyc.Submission) error {
			assert.Equal(t, vendorID, s.VendorID())
			assert.Equal(t, kyc.StatusPending, s.Status())
			return nil
		})

		id, err := NewKYCCommands(f.uow, f.clock).Submit(ctx, vendorID, req)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("異常系: pending submission already exists", func(t *testing.T) {
		f := newFixture(t)
		f.kyc.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("insert kyc submission", errs.New("unique violation"), infra.KindDuplicateKey))

		_, err := NewKYCCommands(f.uow, f.clock).Submit(ctx, vendorID, req)
		require.Error(t, err)
		assert.True(t, errs.Is(err, ErrKYCAlreadyPending))
		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("異常系: unknown document type", func(t *testing.T) {
		f := newFixture(t)

		bad := req
		bad.DocumentType = "utility_bill"
		_, err := NewKYCCommands(f.uow, f.clock).Submit(ctx, vendorID, bad)
		assert.True(t, errs.Is(err, errs.ErrDomainValidation))
	})
}

func TestKYCCommands_Review(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	vendorID := uuid.New()
	submissionID := uuid.New()

	t.Run("正常系: 承認でベンダーが認証済みになる", func(t *testing.T) {
		f := newFixture(t)
		f.kyc.EXPECT().FindByIDForUpdate(gomock.Any(), submissionID).Return(pendingSubmission(submissionID, vendorID), nil)
		f.users.EXPECT().SetKYCVerified(gomock.Any(), vendorID, true).Return(nil)
		f.kyc.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *kyc.Submission) error {
			assert.Equal(t, kyc.StatusApproved, s.Status())
			require.NotNil(t, s.ReviewerID())
			assert.Equal(t, adminID, *s.ReviewerID())
			return nil
		})
		f.expectEvents(TopicKYCReviewed, 1)

		require.NoError(t, NewKYCCommands(f.uow, f.clock).Approve(ctx, adminID, submissionID))
	})

	t.Run("正常系: 却下は理由を残し、認証フラグは変えない", func(t *testing.T) {
		f := newFixture(t)
		f.kyc.EXPECT().FindByIDForUpdate(gomock.Any(), submissionID).Return(pendingSubmission(submissionID, vendorID), nil)
		f.kyc.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *kyc.Submission) error {
			assert.Equal(t, kyc.StatusRejected, s.Status())
			assert.Equal(t, "document is blurred", s.Reason())
			return nil
		})
		f.expectEvents(TopicKYCReviewed, 1)

		err := NewKYCCommands(f.uow, f.clock).Reject(ctx, adminID, submissionID, reqdto.RejectKYCRequest{Reason: "document is blurred"})
		require.NoError(t, err)
	})

	t.Run("異常系: already reviewed submission", func(t *testing.T) {
		f := newFixture(t)
		reviewed := kyc.ReconstructSubmission(submissionID, vendorID, "Ade Stays", kyc.DocumentCAC,
			"https://files.example.com/cac.pdf", kyc.StatusApproved, &adminID, "", &testNow, testNow)
		f.kyc.EXPECT().FindByIDForUpdate(gomock.Any(), submissionID).Return(reviewed, nil)

		err := NewKYCCommands(f.uow, f.clock).Approve(ctx, adminID, submissionID)
		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("異常系: submission not found", func(t *testing.T) {
		f := newFixture(t)
		f.kyc.EXPECT().FindByIDForUpdate(gomock.Any(), submissionID).Return(nil, notFound("kyc submission"))

		err := NewKYCCommands(f.uow, f.clock).Approve(ctx, adminID, submissionID)
		assert.True(t, errs.Is(err, ErrKYCSubmissionNotFound))
	})
}
