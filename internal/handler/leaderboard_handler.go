package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/service"
)

// LeaderboardHandler serves the top picks
type LeaderboardHandler struct {
	service service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(service service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// TopPicks handles GET /api/v1/top-picks
func (h *LeaderboardHandler) TopPicks(c *gin.Context) {
	result, err := h.service.TopPicks(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, result)
}
