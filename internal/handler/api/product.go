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

type ProductHandler struct {
	cmds commands.ProductCommands
	q    queries.ProductQueries
}

func NewProductHandler(cmds commands.ProductCommands, q queries.ProductQueries) *ProductHandler {
	return &ProductHandler{cmds: cmds, q: q}
}

// @Summary Marketplace products
// @Tags products
// @Produce json
// @Param search query string false "Matches name or description"
// @Param category query string false "Category (all for every category)"
// @Param vendor_id query string false "Only this vendor's products"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.ProductResponse]
// @Failure 400 {object} httperr.Response
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	filter := queries.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	if v := c.Query("vendor_id"); v != "" {
		vendorID, err := uuid.Parse(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid vendor_id", nil)
			return
		}
		filter.VendorID = &vendorID
	}
	h.list(c, filter)
}

// @Summary List my products
// @Description Includes deactivated products
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.ProductResponse]
// @Failure 403 {object} httperr.Response
// @Router /vendor/products [get]
func (h *ProductHandler) VendorList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h.list(c, queries.ProductFilter{VendorID: &a.ID, IncludeInactive: true})
}

func (h *ProductHandler) list(c *gin.Context, filter queries.ProductFilter) {
	result, err := h.q.List(c.Request.Context(), filter, pageQuery(c))
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	resp, err := resdto.FromProductList(result)
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get product")
		return
	}
	resp, err := resdto.FromProductView(view)
	if err != nil {
		respondError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create product
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ProductRequest true "Product"
// @Success 201 {object} resdto.ProductResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /vendor/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	id, err := h.cmds.Create(c.Request.Context(), a.ID, req)
	if err != nil {
		respondError(c, err, "create product")
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "load product")
		return
	}
	resp, err := resdto.FromProductView(view)
	if err != nil {
		respondError(c, err, "load product")
		return
	}
	c.Header("Location", "/api/products/"+id.String())
	c.JSON(http.StatusCreated, resp)
}

// @Summary Update product
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body reqdto.ProductRequest true "Product"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /vendor/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if err := h.cmds.Update(c.Request.Context(), a.ID, id, req); err != nil {
		respondError(c, err, "update product")
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "load product")
		return
	}
	resp, err := resdto.FromProductView(view)
	if err != nil {
		respondError(c, err, "load product")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Deactivate product
// @Tags vendor
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /vendor/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.Deactivate(c.Request.Context(), a.ID, id); err != nil {
		respondError(c, err, "deactivate product")
		return
	}
	c.Status(http.StatusNoContent)
}
