package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
)

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPageNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConfirmationRequired):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidDescriptors):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidPage), errors.Is(err, services.ErrUnknownIntent),
		errors.Is(err, services.ErrNullNode):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, services.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
