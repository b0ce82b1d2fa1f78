package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/service"
	"github.com/pickboard/pickboard-backend/pkg/ginutil"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	service service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments handles GET /api/v1/posts/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), postID, middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.SuccessWithMeta(c, comments, &common.Meta{Total: int64(len(comments))})
}

// CreateComment handles POST /api/v1/posts/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	var req domain.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), middleware.GetActor(c), postID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Created(c, comment)
}

// UpdateComment handles PUT /api/v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid comment ID", err)
		return
	}

	var req domain.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	comment, err := h.service.UpdateComment(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, comment)
}

// DeleteComment handles DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid comment ID", err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
