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

type KYCHandler struct {
	cmds commands.KYCCommands
	q    queries.KYCQueries
}

func NewKYCHandler(cmds commands.KYCCommands, q queries.KYCQueries) *KYCHandler {
	return &KYCHandler{cmds: cmds, q: q}
}

// @Summary Submit KYC documents
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SubmitKYCRequest true "Submission"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /vendor/kyc [post]
func (h *KYCHandler) Submit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.SubmitKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	id, err := h.cmds.Submit(c.Request.Context(), a.ID, req)
	if err != nil {
		respondError(c, err, "submit kyc")
		return
	}
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary KYC submissions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, rejected or all"
// @Success 200 {array} resdto.KYCResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/kyc [get]
func (h *KYCHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, "list kyc")
		return
	}
	resp, err := resdto.FromKYCViews(views)
	if err != nil {
		respondError(c, err, "list kyc")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Approve KYC
// @Description Marks the vendor verified
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/kyc/{id}/approve [post]
func (h *KYCHandler) Approve(c *gin.Context) {
	pathAction(c, "approve kyc", h.cmds.Approve)
}

// @Summary Reject KYC
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body reqdto.RejectKYCRequest true "Reason"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/kyc/{id}/reject [post]
func (h *KYCHandler) Reject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.RejectKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}
	if err := h.cmds.Reject(c.Request.Context(), a.ID, id, req); err != nil {
		respondError(c, err, "reject kyc")
		return
	}
	c.Status(http.StatusNoContent)
}
