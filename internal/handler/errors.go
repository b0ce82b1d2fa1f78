package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
)

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrMissingFields),
		errors.Is(err, common.ErrEmptyComment):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrPostNotFound),
		errors.Is(err, common.ErrCommentNotFound),
		errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUserAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// handleError writes the error envelope for a service error
func handleError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		pkglogger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		common.ErrorResponse(c, status, "Internal server error", err)
		return
	}
	common.ErrorResponse(c, status, err.Error(), nil)
}
