package api

import (
	"log/slog"
	"net/http"

	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/handler/middleware"
	"mcdee-marketplace/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientErrorHandler struct {
	cmds commands.ClientErrorCommands
}

func NewClientErrorHandler(cmds commands.ClientErrorCommands) *ClientErrorHandler {
	return &ClientErrorHandler{cmds: cmds}
}

// @Summary Report a client-side error
// @Description Accepted even when storing fails, so a broken backend never loops the reporter
// @Tags client-errors
// @Accept json
// @Param request body reqdto.ClientErrorRequest true "Error report"
// @Success 202 "Accepted"
// @Failure 400 {object} httperr.Response
// @Router /client-errors [post]
func (h *ClientErrorHandler) Report(c *gin.Context) {
	var req reqdto.ClientErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}
	if err := h.cmds.Report(c.Request.Context(), userID, req); err != nil {
		slog.Warn("Failed to store client error",
			"error", err,
			"request_id", middleware.GetRequestID(c),
		)
	}
	c.Status(http.StatusAccepted)
}
