package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/service"
)

// CookieSettings controls the session cookies set on sign-in
type CookieSettings struct {
	Secure        bool
	AccessMaxAge  int // seconds
	RefreshMaxAge int // seconds
}

func setSessionCookies(c *gin.Context, cs CookieSettings, session *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, session.AccessToken, cs.AccessMaxAge, "/", "", cs.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, session.RefreshToken, cs.RefreshMaxAge, "/", "", cs.Secure, true)
}

func clearSessionCookies(c *gin.Context, cs CookieSettings) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", cs.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", cs.Secure, true)
}
