//go:build unit

package commands

import (
	"context"
	"testing"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/listing"
	"mcdee-marketplace/internal/domain/payment"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/ptr"
	"mcdee-marketplace/internal/usecase/shared"
	"mcdee-marketplace/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func activeListing(id, vendorID uuid.UUID) *listing.Listing {
	return listing.ReconstructListing(id, vendorID, listing.Details{
		Title:         "Lekki loft",
		City:          "Lagos",
		Address:       "1 Admiralty Way",
		PricePerNight: money.FromKobo(2500000),
		MaxGuests:     4,
		Bedrooms:      2,
	}, true, testNow, testNow)
}

func createBookingRequest(listingID uuid.UUID) reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ListingID: listingID,
		CheckIn:   "2030-01-01",
		CheckOut:  "2030-01-04",
		Guests:    2,
	}
}

func TestBookingCommands_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	vendorID := uuid.New()
	listingID := uuid.New()
	key := uuid.New()

	t.Run("正常系: 予約を作成し合計金額はサーバーで計算される", func(t *testing.T) {
		f := newFixture(t)
		f.expectFreshClaim()
		f.listings.EXPECT().FindByIDForUpdate(gomock.Any(), listingID).Return(activeListing(listingID, vendorID), nil)
		f.bookings.EXPECT().HasOverlap(gomock.Any(), listingID, gomock.Any()).Return(false, nil)

		var created *booking.Booking
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *booking.Booking) error {
			created = b
			return nil
		})
		f.expectEvents(TopicBookingCreated, 1)
		f.idempotency.EXPECT().Complete(gomock.Any(), key, userID, gomock.Any()).Return(nil)

		res, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, createBookingRequest(listingID))

		require.NoError(t, err)
		assert.False(t, res.IsReplayed)
		require.NotNil(t, created)
		assert.Equal(t, created.ID(), res.BookingID)
		assert.Equal(t, booking.StatusPending, created.Status())
		assert.Equal(t, money.FromKobo(7500000), created.TotalPrice())
		assert.Equal(t, vendorID, created.VendorID())
	})

	t.Run("同じキーと同じ内容の再送は結果を再生する", func(t *testing.T) {
		f := newFixture(t)
		req := createBookingRequest(listingID)
		hash, err := requestHash(endpointCreateBooking, req)
		require.NoError(t, err)
		existingID := uuid.New()

		f.idempotency.EXPECT().TryInsert(gomock.Any(), key, userID, endpointCreateBooking, hash, gomock.Any()).Return(false, nil)
		f.idempotency.EXPECT().Get(gomock.Any(), key, userID).Return(&shared.IdempotencyRecord{
			Key: key, UserID: userID, Endpoint: endpointCreateBooking, RequestHash: hash,
			Status: shared.IdempotencyStatusCompleted, ResultID: ptr.Of(existingID.String()),
		}, nil)

		res, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, req)

		require.NoError(t, err)
		assert.True(t, res.IsReplayed)
		assert.Equal(t, existingID, res.BookingID)
	})

	t.Run("same key with a different body is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.idempotency.EXPECT().TryInsert(gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.idempotency.EXPECT().Get(gomock.Any(), key, userID).Return(&shared.IdempotencyRecord{
			Endpoint: endpointCreateBooking, RequestHash: "other", Status: shared.IdempotencyStatusCompleted,
		}, nil)

		_, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, createBookingRequest(listingID))

		assert.True(t, errs.Is(err, errs.ErrIdempotencyKeyReused))
	})

	t.Run("処理中のキーはInProgress", func(t *testing.T) {
		f := newFixture(t)
		req := createBookingRequest(listingID)
		hash, _ := requestHash(endpointCreateBooking, req)
		f.idempotency.EXPECT().TryInsert(gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.idempotency.EXPECT().Get(gomock.Any(), key, userID).Return(&shared.IdempotencyRecord{
			Endpoint: endpointCreateBooking, RequestHash: hash, Status: shared.IdempotencyStatusProcessing,
		}, nil)

		_, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, req)

		assert.True(t, errs.Is(err, errs.ErrIdempotencyInProgress))
	})

	t.Run("missing key", func(t *testing.T) {
		f := newFixture(t)

		_, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, uuid.Nil, createBookingRequest(listingID))

		assert.True(t, errs.Is(err, errs.ErrIdempotencyKeyRequired))
	})

	t.Run("日付が重なる予約は409で、キーは解放される", func(t *testing.T) {
		f := newFixture(t)
		f.expectFreshClaim()
		f.listings.EXPECT().FindByIDForUpdate(gomock.Any(), listingID).Return(activeListing(listingID, vendorID), nil)
		f.bookings.EXPECT().HasOverlap(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
		f.idempotency.EXPECT().Release(gomock.Any(), key, userID).Return(nil)

		_, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, createBookingRequest(listingID))

		assert.True(t, errs.Is(err, ErrBookingOverlap))
		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("check-in in the past fails before claiming the key", func(t *testing.T) {
		f := newFixture(t)
		req := createBookingRequest(listingID)
		req.CheckIn, req.CheckOut = "2029-11-01", "2029-11-03"

		_, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, req)

		assert.True(t, errs.Is(err, errs.ErrDomainValidation))
	})

	t.Run("unknown listing is not found", func(t *testing.T) {
		f := newFixture(t)
		f.expectFreshClaim()
		f.listings.EXPECT().FindByIDForUpdate(gomock.Any(), listingID).Return(nil, notFound("listing not found"))
		f.idempotency.EXPECT().Release(gomock.Any(), key, userID).Return(nil)

		_, err := NewBookingCommands(f.uow, f.clock).Create(ctx, userID, key, createBookingRequest(listingID))

		assert.True(t, errs.Is(err, ErrListingNotFound))
	})
}

func TestBookingCommands_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("ゲストのチェックイン: paid -> checked_in", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)

		err := NewBookingCommands(f.uow, f.clock).CheckIn(ctx, b.UserID(), b.ID())

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCheckedIn, b.Status())
	})

	t.Run("他人の予約はForbidden", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)

		err := NewBookingCommands(f.uow, f.clock).CheckIn(ctx, uuid.New(), b.ID())

		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})

	t.Run("check-in while pending is a state conflict", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPending)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)

		err := NewBookingCommands(f.uow, f.clock).CheckIn(ctx, b.UserID(), b.ID())

		assert.True(t, errs.Is(err, errs.ErrStateConflict))
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("vendor approves pending booking", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPending)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)

		err := NewBookingCommands(f.uow, f.clock).Approve(ctx, shared.Actor{ID: b.VendorID(), Role: "vendor"}, b.ID())

		require.NoError(t, err)
		assert.Equal(t, booking.StatusProcessing, b.Status())
	})

	t.Run("キャンセルは開いている決済セッションを破棄する", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusProcessing)
		open := payment.ReconstructPayment(uuid.New(), "MCD-00000000000000bb", payment.SubjectBooking, b.ID(), b.UserID(),
			b.TotalPrice(), "NGN", payment.StatusInitialized, "", "", nil, testNow, testNow)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().FindOpenBySubject(gomock.Any(), payment.SubjectBooking, b.ID()).Return(open, nil)
		f.payments.EXPECT().UpdateStatus(gomock.Any(), open).Return(nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)

		err := NewBookingCommands(f.uow, f.clock).Cancel(ctx, b.UserID(), b.ID())

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, payment.StatusAbandoned, open.Status())
	})

	t.Run("cancel without an open session", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPending)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().FindOpenBySubject(gomock.Any(), payment.SubjectBooking, b.ID()).Return(nil, notFound("payment not found"))
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)

		require.NoError(t, NewBookingCommands(f.uow, f.clock).Cancel(ctx, b.UserID(), b.ID()))
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("存在しない予約はNotFound", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(nil, notFound("booking not found"))

		err := NewBookingCommands(f.uow, f.clock).Cancel(ctx, uuid.New(), id)

		assert.True(t, errs.Is(err, ErrBookingNotFound))
	})
}

func TestBookingCommands_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("expected_statusが一致しなければ409", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusPaid)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)

		err := NewBookingCommands(f.uow, f.clock).UpdateStatus(ctx, adminID, b.ID(), reqdto.UpdateBookingStatusRequest{
			Status:         "checked_in",
			ExpectedStatus: ptr.Of("processing"),
		})

		assert.True(t, errs.Is(err, ErrBookingStatusMismatch))
		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})

	t.Run("refund releases escrow back and refunds the settled payment", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusCheckedOut)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)
		f.payments.EXPECT().FindSucceededBySubject(gomock.Any(), payment.SubjectBooking, b.ID()).Return(nil, notFound("payment not found"))
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), b).Return(nil)
		f.expectEvents(TopicBookingStatusChanged, 1)

		err := NewBookingCommands(f.uow, f.clock).UpdateStatus(ctx, adminID, b.ID(), reqdto.UpdateBookingStatusRequest{Status: "refunded"})

		require.NoError(t, err)
		assert.Equal(t, booking.StatusRefunded, b.Status())
		assert.Equal(t, "refunded", b.EscrowStatus().String())
	})

	t.Run("行列にない遷移は409", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().BuildInStatus(booking.StatusCompleted)
		f.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), b.ID()).Return(b, nil)

		err := NewBookingCommands(f.uow, f.clock).UpdateStatus(ctx, adminID, b.ID(), reqdto.UpdateBookingStatusRequest{Status: "pending"})

		assert.True(t, errs.Is(err, errs.ErrStateConflict))
	})
}
