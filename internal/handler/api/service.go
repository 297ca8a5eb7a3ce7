package api

import (
	"net/http"

	"mcdee-marketplace/internal/domain/payment"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	cmds     commands.ServiceCommands
	payments commands.PaymentCommands
	q        queries.ServiceQueries
}

func NewServiceHandler(cmds commands.ServiceCommands, payments commands.PaymentCommands, q queries.ServiceQueries) *ServiceHandler {
	return &ServiceHandler{cmds: cmds, payments: payments, q: q}
}

// @Summary Service vendors
// @Description Profiles with their active pricing
// @Tags services
// @Produce json
// @Param category query string false "Category (all for every category)"
// @Param city query string false "City"
// @Success 200 {array} resdto.ServiceVendorResponse
// @Router /service-vendors [get]
func (h *ServiceHandler) ListVendors(c *gin.Context) {
	filter := queries.ServiceVendorFilter{Category: c.Query("category"), City: c.Query("city")}
	vendors, err := h.q.ListVendors(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list service vendors")
		return
	}
	resp, err := resdto.FromServiceVendors(vendors)
	if err != nil {
		respondError(c, err, "list service vendors")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create or update my service profile
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ServiceProfileRequest true "Profile"
// @Success 200 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /vendor/service-profile [put]
func (h *ServiceHandler) UpsertProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ServiceProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	id, err := h.cmds.UpsertProfile(c.Request.Context(), a.ID, req)
	if err != nil {
		respondError(c, err, "upsert service profile")
		return
	}
	c.JSON(http.StatusOK, resdto.CreatedResponse{ID: id})
}

// @Summary Add a priced service
// @Description Requires a service profile
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ServicePricingRequest true "Pricing"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /vendor/service-pricing [post]
func (h *ServiceHandler) CreatePricing(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ServicePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	id, err := h.cmds.CreatePricing(c.Request.Context(), a.ID, req)
	if err != nil {
		respondError(c, err, "create service pricing")
		return
	}
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Order a service
// @Description The amount is taken from the pricing row at order time
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateServiceOrderRequest true "Service order"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /service-orders [post]
func (h *ServiceHandler) CreateOrder(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	id, err := h.cmds.CreateOrder(c.Request.Context(), a.ID, req)
	if err != nil {
		respondError(c, err, "create service order")
		return
	}
	c.Header("Location", "/api/service-orders/"+id.String())
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary List my service orders
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or a service order status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.ServiceOrderResponse]
// @Failure 400 {object} httperr.Response
// @Router /service-orders [get]
func (h *ServiceHandler) ListOrders(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.listOrders(c, queries.ServiceOrderScope{UserID: &a.ID})
}

// @Summary List service orders addressed to me
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (all or a service order status)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.ServiceOrderResponse]
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /vendor/service-orders [get]
func (h *ServiceHandler) VendorListOrders(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.listOrders(c, queries.ServiceOrderScope{VendorUserID: &a.ID})
}

func (h *ServiceHandler) listOrders(c *gin.Context, scope queries.ServiceOrderScope) {
	result, err := h.q.ListOrders(c.Request.Context(), scope, c.Query("status"), pageQuery(c))
	if err != nil {
		respondError(c, err, "list service orders")
		return
	}
	resp, err := resdto.FromServiceOrderList(result)
	if err != nil {
		respondError(c, err, "list service orders")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Pay for service order
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param id path string true "Service order ID"
// @Success 201 {object} resdto.PaymentSessionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /service-orders/{id}/pay [post]
func (h *ServiceHandler) Pay(c *gin.Context) {
	initiatePayment(c, h.payments, payment.SubjectServiceOrder)
}

// @Summary Cancel service order
// @Tags services
// @Security BearerAuth
// @Param id path string true "Service order ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /service-orders/{id}/cancel [post]
func (h *ServiceHandler) Cancel(c *gin.Context) {
	pathAction(c, "cancel service order", h.cmds.Cancel)
}

// @Summary Accept or decline a service order
// @Tags vendor
// @Accept json
// @Security BearerAuth
// @Param id path string true "Service order ID"
// @Param request body reqdto.RespondRequest true "Response"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /vendor/service-orders/{id}/respond [post]
func (h *ServiceHandler) Respond(c *gin.Context) {
	respondAction(c, "respond to service order", h.cmds.Respond)
}

// @Summary Complete service order
// @Description Releases the escrow held for the order
// @Tags vendor
// @Security BearerAuth
// @Param id path string true "Service order ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /vendor/service-orders/{id}/complete [post]
func (h *ServiceHandler) Complete(c *gin.Context) {
	pathAction(c, "complete service order", h.cmds.Complete)
}
