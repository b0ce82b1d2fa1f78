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

// PostHandler handles post HTTP requests
type PostHandler struct {
	service service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// ListPosts handles GET /api/v1/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.SuccessWithMeta(c, posts, &common.Meta{Total: int64(len(posts))})
}

// ListUserPosts handles GET /api/v1/users/:id/posts
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	userID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	posts, err := h.service.ListUserPosts(c.Request.Context(), userID, middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.SuccessWithMeta(c, posts, &common.Meta{Total: int64(len(posts))})
}

// GetPost handles GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, post)
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Created(c, post)
}

// UpdatePost handles PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	var req domain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, post)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
