package api

import (
	"net/http"

	"mcdee-marketplace/internal/domain/payment"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/infra/gateway"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds     commands.PaymentCommands
	bookings queries.BookingQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, bookings queries.BookingQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, bookings: bookings}
}

// initiatePayment serves every "/:id/pay" route; only the subject type differs.
func initiatePayment(c *gin.Context, cmds commands.PaymentCommands, subjectType payment.SubjectType) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	session, err := cmds.Initiate(c.Request.Context(), a.ID, subjectType, id, key)
	if err != nil {
		respondError(c, err, "initiate "+subjectType.String()+" payment")
		return
	}
	resp, err := resdto.FromPaymentSession(session)
	if err != nil {
		respondError(c, err, "initiate "+subjectType.String()+" payment")
		return
	}
	markReplayed(c, session.IsReplayed)
	c.JSON(createdOrReplayed(session.IsReplayed), resp)
}

// @Summary Verify payment
// @Description Called after the gateway redirect. Settles the subject when the gateway confirms the charge; re-verifying a settled payment is a no-op.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param reference query string true "Payment reference"
// @Success 200 {object} resdto.VerifyPaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/verify [get]
func (h *PaymentHandler) Verify(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	reference := c.Query("reference")
	if reference == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("reference missing"), "reference is required", nil)
		return
	}

	result, err := h.cmds.Verify(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err, "verify payment")
		return
	}

	resp := resdto.FromVerifyResult(result)
	if result.SubjectType == payment.SubjectBooking {
		view, err := h.bookings.Get(c.Request.Context(), a, result.SubjectID)
		if err != nil {
			respondError(c, err, "load paid booking")
			return
		}
		if resp.Booking, err = resdto.FromBookingView(view); err != nil {
			respondError(c, err, "load paid booking")
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Payment webhook
// @Description Gateway event callback, authenticated by the HMAC-SHA512 signature of the raw body. Authentic events are always acknowledged.
// @Tags payments
// @Accept json
// @Produce json
// @Param x-paystack-signature header string true "Hex HMAC-SHA512 of the body"
// @Success 200 {object} map[string]string
// @Failure 401 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable body", nil)
		return
	}

	if err := h.cmds.HandleWebhook(c.Request.Context(), body, c.GetHeader(gateway.SignatureHeader)); err != nil {
		respondError(c, err, "handle payment webhook")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
