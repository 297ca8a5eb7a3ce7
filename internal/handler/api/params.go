package api

import (
	"net/http"
	"strconv"

	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/handler/middleware"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/queries"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
	defaultPageLimit         = 20
)

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// idempotencyKey requires the header on endpoints that create state.
func idempotencyKey(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(headerIdempotencyKey)
	if raw == "" {
		respondError(c, errs.ErrIdempotencyKeyRequired, "idempotency")
		return uuid.Nil, false
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key must be a UUID", nil)
		return uuid.Nil, false
	}
	return key, true
}

func markReplayed(c *gin.Context, replayed bool) {
	if replayed {
		c.Header(headerIdempotentReplayed, "true")
	}
}

func createdOrReplayed(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

func pageQuery(c *gin.Context) queries.Page {
	limit := defaultPageLimit
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	return queries.Page{After: c.Query("after"), Limit: limit}
}

// actor aborts with 401 when the route was mounted without RequireAuth.
func actor(c *gin.Context) (shared.Actor, bool) {
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "Unauthorized", nil)
		return shared.Actor{}, false
	}
	return a, true
}
