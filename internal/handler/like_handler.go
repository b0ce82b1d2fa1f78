package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/service"
	"github.com/pickboard/pickboard-backend/pkg/ginutil"
)

// LikeHandler handles like toggles
type LikeHandler struct {
	service service.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

// TogglePostLike handles POST /api/v1/posts/:id/like
func (h *LikeHandler) TogglePostLike(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	result, err := h.service.TogglePostLike(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, result)
}

// ToggleCommentLike handles POST /api/v1/comments/:id/like
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid comment ID", err)
		return
	}

	result, err := h.service.ToggleCommentLike(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, result)
}
