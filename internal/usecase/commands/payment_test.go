//go:build unit

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"
	"mcdee-marketplace/internal/usecase/shared"
	"mcdee-marketplace/tests/common/builder"
	queriesmock "mcdee-marketplace/tests/mock/queries"
	sharedmock "mcdee-marketplace/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testPaymentConfig = config.PaymentConfig{
	CallbackURL: "https://mcdee.example/payments/callback",
	Currency:    "NGN",
	SessionTTL:  time.Hour,
}

type paymentFixture struct {
	*fixture
	gateway *sharedmock.MockPaymentGateway
	locker  *sharedmock.MockLocker
	users   *queriesmock.MockUserReadStore
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	f := newFixture(t)
	return &paymentFixture{
		fixture: f,
		gateway: sharedmock.NewMockPaymentGateway(f.ctrl),
		locker:  sharedmock.NewMockLocker(f.ctrl),
		users:   queriesmock.NewMockUserReadStore(f.ctrl),
	}
}

func (f *paymentFixture) commands() PaymentCommands {
	return NewPaymentCommands(f.uow, f.gateway, f.locker, f.users, testPaymentConfig, f.clock)
}

func (f *paymentFixture) expectLock(subjectID uuid.UUID) {
	f.locker.EXPECT().TryLock(gomock.Any(), "payment:init:booking:"+subjectID.String()).
		Return(func(context.Context) error { return nil }, true, nil)
}

func openPayment(b *booking.Booking, reference string, createdAt time.Time) *payment.Payment {
	return payment.ReconstructPayment(uuid.New(), reference, payment.SubjectBooking, b.ID(), b.UserID(),
		b.TotalPrice(), "NGN", payment.StatusInitialized, "https://checkout.example/"+reference, "code", nil, createdAt, createdAt)
}

func abandonedPayment(b *booking.Booking, reference string, createdAt time.Time) *payment.Payment {
	return payment.ReconstructPayment(uuid.New(), reference, payment.SubjectBooking, b.ID(), b.UserID(),
		b.TotalPrice(), "NGN", payment.StatusAbandoned, "https://checkout.example/"+reference, "code", nil, createdAt, createdAt)
}

func TestPaymentCommands_Initiate(t *testing.T) {
	ctx := context.Background()
	key := uuid.New()

	t.Run("正常系: ゲートウェイでセッションを開き支払いを記録する", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		f.expectLock(b.ID())
		f.expectFreshClaim()
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil).Times(2)
		f.payments.EXPECT().FindOpenBySubject(gomock.Any(), payment.SubjectBooking, b.ID()).Return(nil, notFound("payment not found")).Times(2)
		f.users.EXPECT().FindByID(gomock.Any(), b.UserID()).Return(&queries.UserView{ID: b.UserID(), Email: "ada@example.com"}, nil)
		f.gateway.EXPECT().Initialize(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req shared.GatewayInitRequest) (*shared.GatewaySession, error) {
				assert.Equal(t, b.TotalPrice(), req.Amount)
				assert.Equal(t, "ada@example.com", req.Email)
				assert.Regexp(t, `^MCD-[0-9a-f]{16}$`, req.Reference)
				return &shared.GatewaySession{Reference: req.Reference, AuthorizationURL: "https://checkout.example/x", AccessCode: "x"}, nil
			})
		f.payments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.idempotency.EXPECT().Complete(gomock.Any(), key, b.UserID(), gomock.Any()).Return(nil)

		session, err := f.commands().Initiate(ctx, b.UserID(), payment.SubjectBooking, b.ID(), key)

		require.NoError(t, err)
		assert.False(t, session.IsReplayed)
		assert.Equal(t, "https://checkout.example/x", session.AuthorizationURL)
		assert.Equal(t, b.TotalPrice(), session.Amount)
	})

	t.Run("期限内の既存セッションは再利用しゲートウェイを呼ばない", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		open := openPayment(b, "MCD-00000000000000aa", testNow.Add(-10*time.Minute))
		f.expectLock(b.ID())
		f.expectFreshClaim()
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil).Times(2)
		f.payments.EXPECT().FindOpenBySubject(gomock.Any(), payment.SubjectBooking, b.ID()).Return(open, nil).Times(2)
		f.idempotency.EXPECT().Complete(gomock.Any(), key, b.UserID(), open.Reference()).Return(nil)

		session, err := f.commands().Initiate(ctx, b.UserID(), payment.SubjectBooking, b.ID(), key)

		require.NoError(t, err)
		assert.Equal(t, open.Reference(), session.Reference)
	})

	t.Run("another initiation holding the lock is a conflict", func(t *testing.T) {
		f := newPaymentFixture(t)
		id := uuid.New()
		f.locker.EXPECT().TryLock(gomock.Any(), gomock.Any()).Return(nil, false, nil)

		_, err := f.commands().Initiate(ctx, uuid.New(), payment.SubjectBooking, id, key)

		assert.True(t, errs.Is(err, ErrPaymentInProgress))
		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("支払い対象でない状態は409", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPending)
		f.expectLock(b.ID())
		f.expectFreshClaim()
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.idempotency.EXPECT().Release(gomock.Any(), key, b.UserID()).Return(nil)

		_, err := f.commands().Initiate(ctx, b.UserID(), payment.SubjectBooking, b.ID(), key)

		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("someone else's booking is forbidden", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		f.expectLock(b.ID())
		f.expectFreshClaim()
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		stranger := uuid.New()
		f.idempotency.EXPECT().Release(gomock.Any(), key, stranger).Return(nil)

		_, err := f.commands().Initiate(ctx, stranger, payment.SubjectBooking, b.ID(), key)

		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})

	t.Run("ゲートウェイ障害は502相当でキーを解放する", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		f.expectLock(b.ID())
		f.expectFreshClaim()
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().FindOpenBySubject(gomock.Any(), payment.SubjectBooking, b.ID()).Return(nil, notFound("payment not found"))
		f.users.EXPECT().FindByID(gomock.Any(), b.UserID()).Return(&queries.UserView{Email: "ada@example.com"}, nil)
		f.gateway.EXPECT().Initialize(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
		f.idempotency.EXPECT().Release(gomock.Any(), key, b.UserID()).Return(nil)

		_, err := f.commands().Initiate(ctx, b.UserID(), payment.SubjectBooking, b.ID(), key)

		assert.True(t, errs.Is(err, ErrGatewayUnavailable))
	})
}

func TestPaymentCommands_Verify(t *testing.T) {
	ctx := context.Background()
	reference := "MCD-0011223344556677"

	t.Run("成功: 予約をpaidにしエスクローを保持する", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		p := openPayment(b, reference, testNow)
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(&shared.GatewayVerification{
			Reference: reference, Status: shared.GatewayStatusSuccess, Amount: b.TotalPrice(), Currency: "NGN",
		}, nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)
		f.expectEvents(TopicPaymentSucceeded, 1)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusSuccess, res.Status)
		assert.Equal(t, booking.StatusPaid, b.Status())
		assert.Equal(t, "held", b.EscrowStatus().String())
	})

	t.Run("金額不一致は支払いをfailedで保存しエラーを返す", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		p := openPayment(b, reference, testNow)
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(&shared.GatewayVerification{
			Reference: reference, Status: shared.GatewayStatusSuccess, Amount: money.FromKobo(100), Currency: "NGN",
		}, nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).Return(nil)

		res, err := f.commands().Verify(ctx, reference)

		assert.True(t, errs.Is(err, errs.ErrDomainValidation))
		require.NotNil(t, res)
		assert.Equal(t, payment.StatusFailed, res.Status)
		assert.Equal(t, booking.StatusProcessing, b.Status())
	})

	t.Run("already settled payments are left alone", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)
		paidAt := testNow
		p := payment.ReconstructPayment(uuid.New(), reference, payment.SubjectBooking, b.ID(), b.UserID(),
			b.TotalPrice(), "NGN", payment.StatusSuccess, "", "", &paidAt, testNow, testNow)
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(&shared.GatewayVerification{
			Reference: reference, Status: shared.GatewayStatusSuccess, Amount: b.TotalPrice(), Currency: "NGN",
		}, nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusSuccess, res.Status)
	})

	t.Run("abandoned at the gateway fails the payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		p := openPayment(b, reference, testNow)
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(&shared.GatewayVerification{
			Reference: reference, Status: shared.GatewayStatusAbandoned,
		}, nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).Return(nil)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, res.Status)
	})
}

func TestPaymentCommands_VerifyLateCapture(t *testing.T) {
	ctx := context.Background()
	reference := "MCD-8899aabbccddeeff"

	success := func(b *booking.Booking) *shared.GatewayVerification {
		return &shared.GatewayVerification{
			Reference: reference, Status: shared.GatewayStatusSuccess, Amount: b.TotalPrice(), Currency: "NGN",
		}
	}

	t.Run("キャンセル済み予約への入金はrefundedで記録し返金ジョブを積む", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusCancelled)
		p := openPayment(b, reference, testNow.Add(-5*time.Minute))
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(success(b), nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).DoAndReturn(func(_ context.Context, p *payment.Payment) error {
			assert.Equal(t, payment.StatusRefunded, p.Status())
			assert.NotNil(t, p.PaidAt())
			return nil
		}).Times(1)
		f.expectEvents(TopicPaymentOrphaned, 1)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, res.Status)
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("abandoned session captured late still settles a payable booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		p := abandonedPayment(b, reference, testNow.Add(-2*time.Hour))
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(success(b), nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)
		f.expectEvents(TopicPaymentSucceeded, 1)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusSuccess, res.Status)
		assert.Equal(t, booking.StatusPaid, b.Status())
	})

	t.Run("superseded session paid after the booking settled is orphaned", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)
		p := abandonedPayment(b, reference, testNow.Add(-30*time.Minute))
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(success(b), nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).Return(nil)
		f.expectEvents(TopicPaymentOrphaned, 1)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, res.Status)
		assert.Equal(t, booking.StatusPaid, b.Status())
	})

	t.Run("gateway failure on an abandoned session changes nothing", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		p := abandonedPayment(b, reference, testNow.Add(-2*time.Hour))
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(&shared.GatewayVerification{
			Reference: reference, Status: shared.GatewayStatusFailed,
		}, nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)

		res, err := f.commands().Verify(ctx, reference)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusAbandoned, res.Status)
	})

	t.Run("webhookはキャンセル済み予約への入金でもackする", func(t *testing.T) {
		f := newPaymentFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusCancelled)
		p := openPayment(b, reference, testNow.Add(-5*time.Minute))
		body, _ := json.Marshal(map[string]any{"event": "charge.success", "data": map[string]any{"reference": reference}})
		f.gateway.EXPECT().VerifySignature(body, "sig").Return(true)
		f.gateway.EXPECT().Verify(gomock.Any(), reference).Return(success(b), nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), reference).Return(p, nil)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), p).Return(nil)
		f.expectEvents(TopicPaymentOrphaned, 1)

		require.NoError(t, f.commands().HandleWebhook(ctx, body, "sig"))
		assert.Equal(t, payment.StatusRefunded, p.Status())
	})
}

func TestPaymentCommands_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	event := func(name, reference string) []byte {
		body, _ := json.Marshal(map[string]any{"event": name, "data": map[string]any{"reference": reference}})
		return body
	}

	t.Run("署名が不正なら拒否する", func(t *testing.T) {
		f := newPaymentFixture(t)
		body := event("charge.success", "MCD-1")
		f.gateway.EXPECT().VerifySignature(body, "bad").Return(false)

		err := f.commands().HandleWebhook(ctx, body, "bad")

		assert.True(t, errs.Is(err, ErrInvalidSignature))
	})

	t.Run("charge.success以外は無視する", func(t *testing.T) {
		f := newPaymentFixture(t)
		body := event("transfer.success", "MCD-1")
		f.gateway.EXPECT().VerifySignature(body, "sig").Return(true)

		assert.NoError(t, f.commands().HandleWebhook(ctx, body, "sig"))
	})

	t.Run("unknown reference is acknowledged", func(t *testing.T) {
		f := newPaymentFixture(t)
		body := event("charge.success", "MCD-unknown")
		f.gateway.EXPECT().VerifySignature(body, "sig").Return(true)
		f.gateway.EXPECT().Verify(gomock.Any(), "MCD-unknown").Return(&shared.GatewayVerification{Status: shared.GatewayStatusSuccess}, nil)
		f.payments.EXPECT().FindByReferenceForUpdate(gomock.Any(), "MCD-unknown").Return(nil, notFound("payment not found"))

		assert.NoError(t, f.commands().HandleWebhook(ctx, body, "sig"))
	})

	t.Run("gateway outage is returned so the provider retries", func(t *testing.T) {
		f := newPaymentFixture(t)
		body := event("charge.success", "MCD-1")
		f.gateway.EXPECT().VerifySignature(body, "sig").Return(true)
		f.gateway.EXPECT().Verify(gomock.Any(), "MCD-1").Return(nil, errors.New("503"))

		err := f.commands().HandleWebhook(ctx, body, "sig")

		assert.True(t, errs.Is(err, ErrGatewayUnavailable))
	})
}
