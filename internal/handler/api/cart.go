package api

import (
	"net/http"

	reqdto "mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// checkoutOrderLimit bounds the orders read back after a checkout; one
// checkout yields one order per vendor in the cart.
const checkoutOrderLimit = queries.MaxListLimit

type CartHandler struct {
	cmds   commands.CartCommands
	q      queries.CartQueries
	orders queries.OrderQueries
}

func NewCartHandler(cmds commands.CartCommands, q queries.CartQueries, orders queries.OrderQueries) *CartHandler {
	return &CartHandler{cmds: cmds, q: q, orders: orders}
}

// @Summary Get cart
// @Description Lines grouped by vendor in order of first appearance, with per-vendor and overall subtotals
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} httperr.Response
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.respondCart(c, a.ID, http.StatusOK)
}

// @Summary Add to cart
// @Description Merges into the existing line for the product; the total quantity is bounded by stock
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Item"
// @Success 201 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if _, err := h.cmds.AddItem(c.Request.Context(), a.ID, req); err != nil {
		respondError(c, err, "add cart item")
		return
	}
	h.respondCart(c, a.ID, http.StatusCreated)
}

// @Summary Change quantity
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Param request body reqdto.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if err := h.cmds.UpdateQuantity(c.Request.Context(), a.ID, id, *req.Quantity); err != nil {
		respondError(c, err, "update cart item")
		return
	}
	h.respondCart(c, a.ID, http.StatusOK)
}

// @Summary Remove from cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.RemoveItem(c.Request.Context(), a.ID, id); err != nil {
		respondError(c, err, "remove cart item")
		return
	}
	h.respondCart(c, a.ID, http.StatusOK)
}

// @Summary Checkout
// @Description Splits the cart into one order per vendor, priced and stock-checked at checkout time
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CheckoutRequest true "Delivery details"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}
	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}

	result, err := h.cmds.Checkout(c.Request.Context(), a.ID, key, req)
	if err != nil {
		respondError(c, err, "checkout")
		return
	}

	orders, err := h.orders.List(c.Request.Context(), queries.OrderScope{UserID: &a.ID, CheckoutID: &result.CheckoutID}, "", queries.Page{Limit: checkoutOrderLimit})
	if err != nil {
		respondError(c, err, "load checkout orders")
		return
	}
	resp, err := resdto.FromCheckout(result.CheckoutID, orders.Items)
	if err != nil {
		respondError(c, err, "load checkout orders")
		return
	}
	markReplayed(c, result.IsReplayed)
	c.JSON(createdOrReplayed(result.IsReplayed), resp)
}

func (h *CartHandler) respondCart(c *gin.Context, userID uuid.UUID, status int) {
	view, err := h.q.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get cart")
		return
	}
	resp, err := resdto.FromCartView(view)
	if err != nil {
		respondError(c, err, "get cart")
		return
	}
	c.JSON(status, resp)
}
