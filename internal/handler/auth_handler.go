package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	cookies CookieSettings
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, cookies CookieSettings) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// RefreshRequest refresh token request. The refresh_token cookie is used when empty.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) refreshToken(c *gin.Context) string {
	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	return token
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	common.Created(c, result)
}

// SignIn handles POST /api/v1/auth/signin
// Tokens are returned in the body and also set as httpOnly cookies.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, session)
	common.Success(c, session)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshToken(c)
	if token == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Refresh token is required", nil)
		return
	}

	session, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			clearSessionCookies(c, h.cookies)
		}
		handleError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, session)
	common.Success(c, session)
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), h.refreshToken(c)); err != nil {
		handleError(c, err)
		return
	}
	clearSessionCookies(c, h.cookies)
	common.Success(c, gin.H{"message": "Signed out"})
}

// Me handles GET /api/v1/auth/me (requires JWT)
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	common.Success(c, user)
}
