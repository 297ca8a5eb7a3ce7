package api

import (
	"log/slog"
	"net/http"

	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorRule struct {
	targets []error
	status  int
	msg     string
	// exposeCause replaces msg with the innermost error text.
	exposeCause bool
}

// Checked top to bottom; specific sentinels come before the generic
// conflict and validation marks they are often combined with.
var errorRules = []errorRule{
	{targets: []error{errs.ErrIdempotencyKeyRequired}, status: http.StatusBadRequest, msg: "Idempotency-Key header is required"},
	{targets: []error{queries.ErrInvalidStatusFilter}, status: http.StatusBadRequest, msg: "Invalid status filter"},
	{targets: []error{queries.ErrInvalidCursor}, status: http.StatusBadRequest, msg: "Invalid cursor"},
	{targets: []error{commands.ErrInvalidWebhook}, status: http.StatusBadRequest, msg: "Invalid webhook payload"},

	{targets: []error{commands.ErrInvalidCredentials, commands.ErrAuthenticationFailed}, status: http.StatusUnauthorized, msg: "Invalid email or password"},
	{targets: []error{commands.ErrTokenValidation}, status: http.StatusUnauthorized, msg: "Invalid or expired refresh token"},
	{targets: []error{commands.ErrInvalidSignature}, status: http.StatusUnauthorized, msg: "Invalid signature"},

	{targets: []error{commands.ErrUserInactive, queries.ErrUserInactive}, status: http.StatusForbidden, msg: "Account is inactive"},
	{targets: []error{errs.ErrForbidden}, status: http.StatusForbidden, msg: "Forbidden"},

	{targets: []error{commands.ErrUserNotFound, queries.ErrUserNotFound}, status: http.StatusNotFound, msg: "User not found"},
	{targets: []error{commands.ErrBookingNotFound, queries.ErrBookingNotFound}, status: http.StatusNotFound, msg: "Booking not found"},
	{targets: []error{commands.ErrListingNotFound, queries.ErrListingNotFound}, status: http.StatusNotFound, msg: "Listing not found"},
	{targets: []error{commands.ErrProductNotFound, queries.ErrProductNotFound}, status: http.StatusNotFound, msg: "Product not found"},
	{targets: []error{commands.ErrCartItemNotFound}, status: http.StatusNotFound, msg: "Cart item not found"},
	{targets: []error{commands.ErrOrderNotFound}, status: http.StatusNotFound, msg: "Order not found"},
	{targets: []error{commands.ErrServiceOrderNotFound}, status: http.StatusNotFound, msg: "Service order not found"},
	{targets: []error{commands.ErrServicePricingNotFound}, status: http.StatusNotFound, msg: "Service pricing not found"},
	{targets: []error{commands.ErrKYCSubmissionNotFound}, status: http.StatusNotFound, msg: "KYC submission not found"},
	{targets: []error{commands.ErrPaymentNotFound}, status: http.StatusNotFound, msg: "Payment not found"},

	{targets: []error{commands.ErrEmailTaken}, status: http.StatusConflict, msg: "Email already registered"},
	{targets: []error{errs.ErrIdempotencyKeyReused}, status: http.StatusConflict, msg: "Idempotency key was already used for a different request"},
	{targets: []error{errs.ErrIdempotencyInProgress}, status: http.StatusConflict, msg: "A request with this Idempotency-Key is still being processed"},
	{targets: []error{commands.ErrPaymentInProgress}, status: http.StatusConflict, msg: "Payment initiation already in progress"},
	{targets: []error{commands.ErrBookingOverlap}, status: http.StatusConflict, msg: "Listing is already booked for these dates"},
	{targets: []error{commands.ErrBookingStatusMismatch}, status: http.StatusConflict, msg: "Booking status changed since it was read"},
	{targets: []error{commands.ErrKYCAlreadyPending}, status: http.StatusConflict, msg: "A KYC submission is already pending review"},
	{targets: []error{errs.ErrStateConflict}, status: http.StatusConflict, exposeCause: true},

	{targets: []error{errs.ErrDomainValidation}, status: http.StatusUnprocessableEntity, exposeCause: true},

	{targets: []error{commands.ErrGatewayUnavailable}, status: http.StatusBadGateway, msg: "Payment gateway unavailable"},
}

// stackLogLines caps the stack excerpt attached to unexpected error logs.
const stackLogLines = 12

// respondError aborts with the status the use-case error maps to. Anything
// unmapped is logged and answered with a generic 500.
func respondError(c *gin.Context, err error, op string) {
	for _, r := range errorRules {
		if !errs.IsAny(err, r.targets...) {
			continue
		}
		msg := r.msg
		if r.exposeCause {
			msg = errs.Cause(err).Error()
		}
		httperr.AbortWithError(c, r.status, err, msg, nil)
		return
	}

	slog.Error(op+" failed", "error", err, "path", c.Request.URL.Path, "stack", errs.ExtractStackLines(err, stackLogLines))
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
