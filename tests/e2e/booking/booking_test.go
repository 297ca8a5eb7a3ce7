//go:build e2e

package booking_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/infra/gateway"
	"mcdee-marketplace/tests/common/authtest"
	"mcdee-marketplace/tests/common/dbtest"
	"mcdee-marketplace/tests/common/httptest"
	"mcdee-marketplace/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	verifyURL   = "/api/payments/verify"
	webhookURL  = "/api/payments/webhook"

	nightlyKobo = int64(4500000)
)

type bookingSuite struct {
	e2e.SharedSuite

	listingID   uuid.UUID
	userToken   string
	vendorToken string
	otherToken  string
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	var vendorID uuid.UUID
	vendorID, s.vendorToken = authtest.CreateAndLogin(t, s.DB, s.Router, "host@example.com", string(user.RoleVendor))
	_, s.userToken = authtest.CreateAndLogin(t, s.DB, s.Router, "guest@example.com", string(user.RoleUser))
	_, s.otherToken = authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleUser))
	s.listingID = dbtest.CreateTestListing(t, s.DB, vendorID, "Lagos", nightlyKobo)
}

func stayDates(fromNow, nights int) (string, string) {
	start := time.Now().AddDate(0, 0, fromNow)
	return start.Format(time.DateOnly), start.AddDate(0, 0, nights).Format(time.DateOnly)
}

func (s *bookingSuite) createBooking(t *testing.T, token string, fromNow, nights int) *stdhttptest.ResponseRecorder {
	t.Helper()
	checkIn, checkOut := stayDates(fromNow, nights)
	return httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL,
		request.CreateBookingRequest{ListingID: s.listingID, CheckIn: checkIn, CheckOut: checkOut, Guests: 2},
		token, map[string]string{"Idempotency-Key": uuid.NewString()})
}

func decodeBooking(t *testing.T, w *stdhttptest.ResponseRecorder) resdto.BookingResponse {
	t.Helper()
	var res resdto.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func (s *bookingSuite) TestBookingLifecycle() {
	s.Run("予約から決済・チェックアウトまで", func() {
		t := s.T()

		// 予約作成
		created := s.createBooking(t, s.userToken, 10, 3)
		require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
		b := decodeBooking(t, created)
		require.Equal(t, booking.StatusPending, b.Status)
		require.Equal(t, 3, b.Nights)
		require.Equal(t, 3*nightlyKobo, b.TotalPrice.Kobo(), "宿泊数×1泊料金")
		require.Empty(t, b.AllowedActions)

		// 承認前は支払えない
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/pay", bookingsURL, b.ID), nil,
			s.userToken, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		// ベンダー承認
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/vendor/bookings/%s/approve", b.ID), nil, s.vendorToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		b = decodeBooking(t, w)
		require.Equal(t, booking.StatusProcessing, b.Status)
		require.Equal(t, []booking.Action{booking.ActionPay}, b.AllowedActions)

		// 決済開始
		payKey := uuid.NewString()
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/pay", bookingsURL, b.ID), nil,
			s.userToken, map[string]string{"Idempotency-Key": payKey})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var session resdto.PaymentSessionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &session))
		require.NotEmpty(t, session.Reference)
		require.NotEmpty(t, session.AuthorizationURL)
		require.Equal(t, 3*nightlyKobo, session.Amount.Kobo())

		// 同じキーの再送は同じセッション
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/pay", bookingsURL, b.ID), nil,
			s.userToken, map[string]string{"Idempotency-Key": payKey})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		httptest.AssertReplayed(t, w, true)
		var replayed resdto.PaymentSessionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &replayed))
		require.Equal(t, session.Reference, replayed.Reference)

		// 署名不正のWebhookは拒否
		body := []byte(fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q}}`, session.Reference))
		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body,
			map[string]string{gateway.SignatureHeader: "deadbeef", "Content-Type": "application/json"})
		require.Equal(t, http.StatusUnauthorized, w.Code)

		// 正しい署名のWebhookで支払い確定
		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body,
			map[string]string{gateway.SignatureHeader: s.Gateway.Sign(body), "Content-Type": "application/json"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", bookingsURL, b.ID), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code)
		b = decodeBooking(t, w)
		require.Equal(t, booking.StatusPaid, b.Status)
		require.Equal(t, "held", b.EscrowStatus)
		require.Equal(t, []booking.Action{booking.ActionCheckIn}, b.AllowedActions)

		// 再検証は冪等
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, verifyURL+"?reference="+session.Reference, nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var verified resdto.VerifyPaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &verified))
		require.Equal(t, "success", verified.Status)
		require.NotNil(t, verified.Booking)
		require.Equal(t, booking.StatusPaid, verified.Booking.Status)

		// チェックイン・チェックアウト
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/check-in", bookingsURL, b.ID), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, booking.StatusCheckedIn, decodeBooking(t, w).Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/check-out", bookingsURL, b.ID), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		b = decodeBooking(t, w)
		require.Equal(t, booking.StatusCheckedOut, b.Status)
		require.Empty(t, b.AllowedActions)

		// 他人の予約は見えない
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", bookingsURL, b.ID), nil, s.otherToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *bookingSuite) TestCreateBooking() {
	s.Run("重複期間の予約は409", func() {
		t := s.T()

		first := s.createBooking(t, s.userToken, 20, 4)
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

		// 3泊目から重なる
		second := s.createBooking(t, s.otherToken, 22, 2)
		require.Equal(t, http.StatusConflict, second.Code, second.Body.String())

		// チェックアウト日からは予約できる
		third := s.createBooking(t, s.otherToken, 24, 2)
		require.Equal(t, http.StatusCreated, third.Code, third.Body.String())
	})

	s.Run("キャンセル後は同じ期間を予約できる", func() {
		t := s.T()

		first := s.createBooking(t, s.userToken, 30, 2)
		require.Equal(t, http.StatusCreated, first.Code)
		b := decodeBooking(t, first)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/cancel", bookingsURL, b.ID), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		again := s.createBooking(t, s.otherToken, 30, 2)
		require.Equal(t, http.StatusCreated, again.Code, again.Body.String())
	})

	s.Run("同じIdempotency-Keyの再送", func() {
		t := s.T()

		checkIn, checkOut := stayDates(40, 2)
		req := request.CreateBookingRequest{ListingID: s.listingID, CheckIn: checkIn, CheckOut: checkOut, Guests: 1}
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, req, s.userToken, headers)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		first := decodeBooking(t, w)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, req, s.userToken, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, first.ID, decodeBooking(t, w).ID)

		// 同じキーで内容が違えば409
		req.Guests = 3
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, req, s.userToken, headers)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var count int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM bookings").Scan(&count))
		require.Equal(t, 1, count, "再送で予約が増えないこと")
	})

	s.Run("過去日付は422", func() {
		t := s.T()

		past := s.createBooking(t, s.userToken, -2, 1)
		require.Equal(t, http.StatusUnprocessableEntity, past.Code, past.Body.String())
	})
}

func (s *bookingSuite) TestFailedVerification() {
	s.Run("gateway reports failure", func() {
		t := s.T()

		created := s.createBooking(t, s.userToken, 50, 1)
		require.Equal(t, http.StatusCreated, created.Code)
		b := decodeBooking(t, created)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/vendor/bookings/%s/approve", b.ID), nil, s.vendorToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/pay", bookingsURL, b.ID), nil,
			s.userToken, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var session resdto.PaymentSessionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &session))

		s.Gateway.SetOutcome(session.Reference, "failed")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, verifyURL+"?reference="+session.Reference, nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var verified resdto.VerifyPaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &verified))
		require.Equal(t, "failed", verified.Status)
		require.Equal(t, booking.StatusProcessing, verified.Booking.Status, "失敗時は支払い待ちのまま")
	})
}

func (s *bookingSuite) TestLateCapture() {
	s.Run("キャンセル後に届いた入金はrefundedで記録しWebhookはack", func() {
		t := s.T()

		created := s.createBooking(t, s.userToken, 60, 2)
		require.Equal(t, http.StatusCreated, created.Code)
		b := decodeBooking(t, created)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/vendor/bookings/%s/approve", b.ID), nil, s.vendorToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/pay", bookingsURL, b.ID), nil,
			s.userToken, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var session resdto.PaymentSessionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &session))

		// チェックアウト画面を開いたままキャンセル
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/cancel", bookingsURL, b.ID), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var status string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM payments WHERE reference = $1", session.Reference).Scan(&status))
		require.Equal(t, "abandoned", status, "キャンセルでセッションは破棄される")

		body := []byte(fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q}}`, session.Reference))
		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body,
			map[string]string{gateway.SignatureHeader: s.Gateway.Sign(body), "Content-Type": "application/json"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM payments WHERE reference = $1", session.Reference).Scan(&status))
		require.Equal(t, "refunded", status)

		var jobs int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM notification_jobs WHERE topic = 'payment.orphaned' AND payload->>'reference' = $1", session.Reference).Scan(&jobs))
		require.Equal(t, 1, jobs)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", bookingsURL, b.ID), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, booking.StatusCancelled, decodeBooking(t, w).Status)
	})
}
