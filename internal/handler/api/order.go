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

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	cmds     commands.OrderCommands
	payments commands.PaymentCommands
	q        queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, payments commands.PaymentCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, payments: payments, q: q}
}

// @Summary List my orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or an order status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.OrderResponse]
// @Failure 400 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.list(c, queries.OrderScope{UserID: &a.ID})
}

// @Summary List orders for my products
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or an order status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.OrderResponse]
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /vendor/orders [get]
func (h *OrderHandler) VendorList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.list(c, queries.OrderScope{VendorID: &a.ID})
}

func (h *OrderHandler) list(c *gin.Context, scope queries.OrderScope) {
	result, err := h.q.List(c.Request.Context(), scope, c.Query("status"), pageQuery(c))
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	resp, err := resdto.FromOrderList(result)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Pay for order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param id path string true "Order ID"
// @Success 201 {object} resdto.PaymentSessionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	initiatePayment(c, h.payments, payment.SubjectOrder)
}

// @Summary Cancel order
// @Description Unpaid orders only; items are restocked
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	pathAction(c, "cancel order", h.cmds.Cancel)
}

// @Summary Accept or decline an order
// @Description Declining restocks the items
// @Tags vendor
// @Accept json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.RespondRequest true "Response"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /vendor/orders/{id}/respond [post]
func (h *OrderHandler) Respond(c *gin.Context) {
	respondAction(c, "respond to order", h.cmds.Respond)
}

// @Summary Complete order
// @Tags vendor
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /vendor/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	pathAction(c, "complete order", h.cmds.Complete)
}

// pathAction runs a body-less command on the ":id" resource on behalf of
// the caller and answers 204.
func pathAction(c *gin.Context, op string, run func(ctx context.Context, actorID, id uuid.UUID) error) {
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
	c.Status(http.StatusNoContent)
}

func respondAction(c *gin.Context, op string, run func(ctx context.Context, vendorID, id uuid.UUID, req reqdto.RespondRequest) error) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if err := run(c.Request.Context(), a.ID, id, req); err != nil {
		respondError(c, err, op)
		return
	}
	c.Status(http.StatusNoContent)
}
