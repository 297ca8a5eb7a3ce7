//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/handler/api"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/infra/gateway"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/shared"
	"mcdee-marketplace/tests/common/builder"
	"mcdee-marketplace/tests/common/httptest"
	commandsmock "mcdee-marketplace/tests/mock/commands"
	queriesmock "mcdee-marketplace/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockBookings *queriesmock.MockBookingQueries
	actor        shared.Actor
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockBookings = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.actor = shared.Actor{ID: uuid.New(), Role: user.RoleUser}

	h := api.NewPaymentHandler(s.mockCommands, s.mockBookings)
	s.router.POST("/payments/webhook", h.Webhook)
	s.router.GET("/payments/verify", func(c *gin.Context) {
		c.Set("user_id", s.actor.ID)
		c.Set("user_role", s.actor.Role)
		h.Verify(c)
	})
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestWebhook() {
	body := []byte(`{"event":"charge.success","data":{"reference":"MCD-0123456789abcdef","status":"success"}}`)

	s.Run("成功: passes the exact bytes and signature through", func() {
		s.mockCommands.EXPECT().HandleWebhook(gomock.Any(), body, "sig").Return(nil).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/payments/webhook", body,
			map[string]string{gateway.SignatureHeader: "sig"})

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ok", response["status"])
	})

	s.Run("error: bad signature is 401", func() {
		s.mockCommands.EXPECT().HandleWebhook(gomock.Any(), body, "").Return(commands.ErrInvalidSignature).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/payments/webhook", body, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid signature")
	})

	s.Run("error: gateway verification failure asks for a retry", func() {
		s.mockCommands.EXPECT().HandleWebhook(gomock.Any(), body, "sig").Return(commands.ErrGatewayUnavailable).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/payments/webhook", body,
			map[string]string{gateway.SignatureHeader: "sig"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "Payment gateway unavailable")
	})
}

func (s *PaymentHandlerTestSuite) TestVerify() {
	s.Run("成功: booking subjects carry the settled booking", func() {
		view := builder.NewBookingBuilder().BuildView(booking.StatusPaid)
		s.mockCommands.EXPECT().Verify(gomock.Any(), "MCD-1").Return(&commands.VerifyResult{
			Reference:   "MCD-1",
			Status:      payment.StatusSuccess,
			SubjectType: payment.SubjectBooking,
			SubjectID:   view.ID,
		}, nil).Times(1)
		s.mockBookings.EXPECT().Get(gomock.Any(), s.actor, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/verify?reference=MCD-1", nil, "")

		var response resdto.VerifyPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("success", response.Status)
		s.Require().NotNil(response.Booking)
		s.Equal(booking.StatusPaid, response.Booking.Status)
		s.Equal([]booking.Action{booking.ActionCheckIn}, response.Booking.AllowedActions)
	})

	s.Run("成功: order subjects have no booking", func() {
		orderID := uuid.New()
		s.mockCommands.EXPECT().Verify(gomock.Any(), "MCD-2").Return(&commands.VerifyResult{
			Reference:   "MCD-2",
			Status:      payment.StatusSuccess,
			SubjectType: payment.SubjectOrder,
			SubjectID:   orderID,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/verify?reference=MCD-2", nil, "")

		var response resdto.VerifyPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("order", response.SubjectType)
		s.Nil(response.Booking)
	})

	s.Run("error: reference is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/verify", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "reference is required")
	})

	s.Run("error: unknown reference is 404", func() {
		s.mockCommands.EXPECT().Verify(gomock.Any(), "MCD-X").Return(nil, commands.ErrPaymentNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/verify?reference=MCD-X", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Payment not found")
	})
}
