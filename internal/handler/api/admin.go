package api

import (
	"net/http"

	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	q queries.AdminQueries
}

func NewAdminHandler(q queries.AdminQueries) *AdminHandler {
	return &AdminHandler{q: q}
}

// @Summary Vendors
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "verified, unverified or all"
// @Param category query string false "Vendor category"
// @Success 200 {array} resdto.VendorResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/vendors [get]
func (h *AdminHandler) Vendors(c *gin.Context) {
	vendors, err := h.q.ListVendors(c.Request.Context(), c.Query("status"), c.Query("category"))
	if err != nil {
		respondError(c, err, "list vendors")
		return
	}
	resp, err := resdto.FromVendorViews(vendors)
	if err != nil {
		respondError(c, err, "list vendors")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Dashboard
// @Description Platform counts, booking and order status breakdowns and escrow totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.DashboardResponse
// @Failure 403 {object} httperr.Response
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.q.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "dashboard")
		return
	}
	resp, err := resdto.FromDashboardStats(stats)
	if err != nil {
		respondError(c, err, "dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}
