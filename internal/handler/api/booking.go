package api

import (
	"context"
	"net/http"

	"mcdee-marketplace/internal/domain/payment"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds     commands.BookingCommands
	payments commands.PaymentCommands
	q        queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, payments commands.PaymentCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, payments: payments, q: q}
}

// @Summary Booking status table
// @Description Every booking status with its label, icon, color, terminal flag and the guest actions it allows
// @Tags bookings
// @Produce json
// @Success 200 {array} booking.StatusDescriptor
// @Router /booking-statuses [get]
func (h *BookingHandler) Statuses(c *gin.Context) {
	c.JSON(http.StatusOK, h.q.Statuses())
}

// @Summary Create booking
// @Description Book a listing. The total is computed server-side from the listing's nightly price.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), a.ID, key, req)
	if err != nil {
		respondError(c, err, "create booking")
		return
	}

	view, err := h.q.Get(c.Request.Context(), a, result.BookingID)
	if err != nil {
		respondError(c, err, "load booking")
		return
	}
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		respondError(c, err, "load booking")
		return
	}
	markReplayed(c, result.IsReplayed)
	c.Header("Location", "/api/bookings/"+result.BookingID.String())
	c.JSON(createdOrReplayed(result.IsReplayed), resp)
}

// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or a booking status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.BookingResponse]
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.list(c, queries.BookingScope{UserID: &a.ID})
}

// @Summary List bookings on my listings
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or a booking status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.BookingResponse]
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /vendor/bookings [get]
func (h *BookingHandler) VendorList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.list(c, queries.BookingScope{VendorID: &a.ID})
}

// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or a booking status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.BookingResponse]
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/bookings [get]
func (h *BookingHandler) AdminList(c *gin.Context) {
	h.list(c, queries.BookingScope{})
}

func (h *BookingHandler) list(c *gin.Context, scope queries.BookingScope) {
	result, err := h.q.List(c.Request.Context(), scope, c.Query("status"), pageQuery(c))
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}
	resp, err := resdto.FromBookingList(result)
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get booking
// @Description Visible to the guest, the listing's vendor and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err, "get booking")
		return
	}
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		respondError(c, err, "get booking")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Pay for booking
// @Description Open a gateway session for a booking awaiting payment. A still-open session is returned instead of a new one.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param id path string true "Booking ID"
// @Success 201 {object} resdto.PaymentSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /bookings/{id}/pay [post]
func (h *BookingHandler) Pay(c *gin.Context) {
	initiatePayment(c, h.payments, payment.SubjectBooking)
}

// @Summary Check in
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.guestAction(c, "check in", h.cmds.CheckIn)
}

// @Summary Check out
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/check-out [post]
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.guestAction(c, "check out", h.cmds.CheckOut)
}

// @Summary Cancel booking
// @Description Only pending and processing bookings can be cancelled
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.guestAction(c, "cancel booking", h.cmds.Cancel)
}

func (h *BookingHandler) guestAction(c *gin.Context, op string, run func(ctx context.Context, userID, bookingID uuid.UUID) error) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := run(c.Request.Context(), a.ID, id); err != nil {
		respondError(c, err, op)
		return
	}
	h.respondCommitted(c, a, id)
}

// @Summary Approve booking
// @Description The listing's vendor (or an admin) accepts a pending booking; it then awaits payment
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /vendor/bookings/{id}/approve [post]
func (h *BookingHandler) Approve(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.Approve(c.Request.Context(), a, id); err != nil {
		respondError(c, err, "approve booking")
		return
	}
	h.respondCommitted(c, a, id)
}

// @Summary Update booking status
// @Description Admin override along the transition matrix. expected_status turns it into a compare-and-set.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "Status update"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if err := h.cmds.UpdateStatus(c.Request.Context(), a.ID, id, req); err != nil {
		respondError(c, err, "update booking status")
		return
	}
	h.respondCommitted(c, a, id)
}

// respondCommitted answers with the booking as stored after the command,
// never with a locally patched copy.
func (h *BookingHandler) respondCommitted(c *gin.Context, a shared.Actor, id uuid.UUID) {
	view, err := h.q.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err, "load booking")
		return
	}
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		respondError(c, err, "load booking")
		return
	}
	c.JSON(http.StatusOK, resp)
}
