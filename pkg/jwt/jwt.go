package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the pickboard token payload
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
}

// Manager issues and verifies HMAC signed tokens
type Manager struct {
	secretKey  []byte
	expiresIn  time.Duration
	refreshIn  time.Duration
	now        func() time.Time
	issuerName string
}

// NewManager creates a Manager. expiresIn and refreshIn are seconds.
func NewManager(secret string, expiresIn, refreshIn int) *Manager {
	return &Manager{
		secretKey:  []byte(secret),
		expiresIn:  time.Duration(expiresIn) * time.Second,
		refreshIn:  time.Duration(refreshIn) * time.Second,
		now:        time.Now,
		issuerName: "pickboard",
	}
}

// AccessTTL returns the lifetime of access tokens
func (m *Manager) AccessTTL() time.Duration { return m.expiresIn }

// RefreshTTL returns the lifetime of refresh tokens
func (m *Manager) RefreshTTL() time.Duration { return m.refreshIn }

// GenerateAccessToken issues a short-lived token carrying the user's metadata
func (m *Manager) GenerateAccessToken(userID, email, username string) (string, error) {
	return m.sign(&Claims{
		UserID:    userID,
		Email:     email,
		Username:  username,
		TokenType: TokenTypeAccess,
	}, m.expiresIn)
}

// GenerateRefreshToken issues a long-lived token. Its ID (jti) is used for revocation.
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(&Claims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
	}, m.refreshIn)
}

func (m *Manager) sign(claims *Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    m.issuerName,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken parses and validates a token of any type
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyAccessToken verifies a token and requires it to be an access token
func (m *Manager) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken verifies a token and requires it to be a refresh token
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
