package api

import (
	"net/http"

	reqdto "mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	cmds commands.ListingCommands
	q    queries.ListingQueries
}

func NewListingHandler(cmds commands.ListingCommands, q queries.ListingQueries) *ListingHandler {
	return &ListingHandler{cmds: cmds, q: q}
}

// @Summary List apartments
// @Description Active listings, newest first
// @Tags listings
// @Produce json
// @Param city query string false "City (case-insensitive)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.ListingResponse]
// @Failure 400 {object} httperr.Response
// @Router /listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	result, err := h.q.List(c.Request.Context(), queries.ListingFilter{City: c.Query("city")}, pageQuery(c))
	if err != nil {
		respondError(c, err, "list listings")
		return
	}
	resp, err := resdto.FromListingList(result)
	if err != nil {
		respondError(c, err, "list listings")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get apartment
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} resdto.ListingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get listing")
		return
	}
	resp, err := resdto.FromListingView(view)
	if err != nil {
		respondError(c, err, "get listing")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List my apartments
// @Description Includes deactivated listings
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ListResponse[resdto.ListingResponse]
// @Failure 403 {object} httperr.Response
// @Router /vendor/listings [get]
func (h *ListingHandler) VendorList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	result, err := h.q.List(c.Request.Context(), queries.ListingFilter{VendorID: &a.ID}, pageQuery(c))
	if err != nil {
		respondError(c, err, "list vendor listings")
		return
	}
	resp, err := resdto.FromListingList(result)
	if err != nil {
		respondError(c, err, "list vendor listings")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create apartment
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ListingRequest true "Listing"
// @Success 201 {object} resdto.ListingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /vendor/listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	id, err := h.cmds.Create(c.Request.Context(), a.ID, req)
	if err != nil {
		respondError(c, err, "create listing")
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "load listing")
		return
	}
	resp, err := resdto.FromListingView(view)
	if err != nil {
		respondError(c, err, "load listing")
		return
	}
	c.Header("Location", "/api/listings/"+id.String())
	c.JSON(http.StatusCreated, resp)
}

// @Summary Update apartment
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body reqdto.ListingRequest true "Listing"
// @Success 200 {object} resdto.ListingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /vendor/listings/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if err := h.cmds.Update(c.Request.Context(), a.ID, id, req); err != nil {
		respondError(c, err, "update listing")
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "load listing")
		return
	}
	resp, err := resdto.FromListingView(view)
	if err != nil {
		respondError(c, err, "load listing")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Deactivate apartment
// @Description Listings are never hard-deleted; existing bookings keep their reference
// @Tags vendor
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /vendor/listings/{id} [delete]
func (h *ListingHandler) Deactivate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.Deactivate(c.Request.Context(), a.ID, id); err != nil {
		respondError(c, err, "deactivate listing")
		return
	}
	c.Status(http.StatusNoContent)
}
