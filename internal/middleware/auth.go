package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/pkg/jwt"
)

// Cookie names used by browser sessions
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

const actorKey = "actor"

// tokenFromRequest returns the Bearer token, falling back to the access token cookie
func tokenFromRequest(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", nil
}

func authenticate(c *gin.Context, jwtManager *jwt.Manager) (*domain.Actor, error) {
	tokenString, err := tokenFromRequest(c)
	if err != nil {
		return nil, err
	}
	if tokenString == "" {
		return nil, nil
	}

	claims, err := jwtManager.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || userID == 0 {
		return nil, jwt.ErrInvalidToken
	}
	return &domain.Actor{ID: userID, Email: claims.Email, Username: claims.Username}, nil
}

// JWTAuth requires a valid access token
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := authenticate(c, jwtManager)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}
		if actor == nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalJWTAuth stores the caller when a valid token is present.
// Requests without a token, or with a bad one, continue anonymously.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, err := authenticate(c, jwtManager); err == nil && actor != nil {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller, or nil
func GetActor(c *gin.Context) *domain.Actor {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, _ := v.(*domain.Actor)
	return actor
}

// GetUserID returns the caller's id, or 0 when anonymous
func GetUserID(c *gin.Context) uint64 {
	if actor := GetActor(c); actor != nil {
		return actor.ID
	}
	return 0
}

// SetActor stores the caller, used when a page restores a session from the refresh cookie
func SetActor(c *gin.Context, actor *domain.Actor) {
	c.Set(actorKey, actor)
}
