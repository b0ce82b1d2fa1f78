package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/service"
	"github.com/pickboard/pickboard-backend/pkg/ginutil"
)

// ProfileHandler serves profile data
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// MyProfile handles GET /api/v1/me/profile (requires JWT)
func (h *ProfileHandler) MyProfile(c *gin.Context) {
	profile, err := h.service.MyProfile(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, profile)
}

// UserProfile handles GET /api/v1/users/:id/profile
func (h *ProfileHandler) UserProfile(c *gin.Context) {
	userID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	profile, err := h.service.UserProfile(c.Request.Context(), userID, middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, profile)
}
