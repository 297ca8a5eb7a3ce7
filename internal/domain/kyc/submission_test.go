//go:build unit

package kyc_test

import (
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/kyc"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission(t *testing.T) {
	now := time.Now()
	newSubmission := func(t *testing.T) *kyc.Submission {
		t.Helper()
		s, err := kyc.NewSubmission(uuid.New(), "Lagos Stays Ltd", kyc.DocumentCAC, "https://files.example.com/cac.pdf", now)
		require.NoError(t, err)
		return s
	}

	t.Run("書類URL検証", func(t *testing.T) {
		_, err := kyc.NewSubmission(uuid.New(), "Lagos Stays", kyc.DocumentNIN, "not a url", now)
		assert.ErrorIs(t, err, kyc.ErrInvalidDocumentURL)

		_, err = kyc.NewSubmission(uuid.New(), "", kyc.DocumentNIN, "https://x.io/a", now)
		assert.ErrorIs(t, err, kyc.ErrEmptyBusinessName)
	})

	t.Run("書類種別", func(t *testing.T) {
		d, err := kyc.ParseDocumentType("Drivers_License")
		require.NoError(t, err)
		assert.Equal(t, kyc.DocumentDriversLicense, d)

		_, err = kyc.ParseDocumentType("utility_bill")
		assert.ErrorIs(t, err, kyc.ErrInvalidDocumentType)
	})

	t.Run("承認", func(t *testing.T) {
		s := newSubmission(t)
		reviewer := uuid.New()
		require.NoError(t, s.Approve(reviewer, now))
		assert.Equal(t, kyc.StatusApproved, s.Status())
		assert.Equal(t, &reviewer, s.ReviewerID())
		assert.ErrorIs(t, s.Reject(reviewer, "late", now), kyc.ErrNotPending)
	})

	t.Run("却下には理由が必要", func(t *testing.T) {
		s := newSubmission(t)
		assert.ErrorIs(t, s.Reject(uuid.New(), " ", now), kyc.ErrReasonRequired)
		assert.Equal(t, kyc.StatusPending, s.Status())

		require.NoError(t, s.Reject(uuid.New(), "blurred scan", now))
		assert.Equal(t, "blurred scan", s.Reason())
	})
}
