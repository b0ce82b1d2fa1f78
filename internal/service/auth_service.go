package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/repository"
	"github.com/pickboard/pickboard-backend/pkg/cache"
	"github.com/pickboard/pickboard-backend/pkg/jwt"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// SignUpMessage is shown after a successful registration
const SignUpMessage = "Check your email to confirm your account!"

// Session is the result of a successful sign-in or refresh
type Session struct {
	User         *domain.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
}

// SignUpResult is returned by SignUp
type SignUpResult struct {
	User    *domain.UserResponse `json:"user"`
	Message string               `json:"message"`
}

// AuthService authentication business logic
type AuthService interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*SignUpResult, error)
	SignIn(ctx context.Context, req *domain.SignInRequest) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, userID uint64) (*domain.UserResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	cache      cache.Service
	validate   *validator.Validate
}

// NewAuthService creates a new AuthService. cache may be nil.
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager, cacheService cache.Service) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cache:      cacheService,
		validate:   validator.New(),
	}
}

// SignUp registers a new account
func (s *authService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*SignUpResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if strings.TrimSpace(req.Password) == "" {
		return nil, common.NewValidationError("Please fill out all fields.")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, signUpValidationError(err)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	pkglogger.Info("user registered: id=%d", user.ID)
	return &SignUpResult{User: user.ToResponse(), Message: SignUpMessage}, nil
}

func signUpValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return common.ErrInvalidInput
	}

	fe := fieldErrs[0]
	switch {
	case fe.Tag() == "required":
		return common.NewValidationError("Please fill out all fields.")
	case fe.Field() == "Email":
		return common.NewValidationError("Unable to validate email address: invalid format")
	case fe.Field() == "Password":
		return common.NewValidationError("Password should be at least 6 characters.")
	case fe.Field() == "Username":
		return common.NewValidationError("Username should be at most 50 characters.")
	}
	return common.ErrInvalidInput
}

// SignIn checks credentials and issues a token pair
func (s *authService) SignIn(ctx context.Context, req *domain.SignInRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if strings.TrimSpace(req.Password) == "" {
		return nil, common.NewValidationError("Please fill out all fields.")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, common.NewValidationError("Please fill out all fields.")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh rotates the token pair. The presented refresh token is revoked.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}

	if s.cache != nil {
		revoked, err := s.cache.IsTokenRevoked(ctx, claims.ID)
		if err == nil && revoked {
			return nil, common.ErrInvalidToken
		}
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.revoke(ctx, claims)
	return s.issue(user)
}

// SignOut revokes the refresh token. Invalid tokens are ignored.
func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	s.revoke(ctx, claims)
	return nil
}

// CurrentUser returns the public profile of the caller
func (s *authService) CurrentUser(ctx context.Context, userID uint64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user.ToResponse(), nil
}

func (s *authService) issue(user *domain.User) (*Session, error) {
	id := strconv.FormatUint(user.ID, 10)

	accessToken, err := s.jwtManager.GenerateAccessToken(id, user.Email, user.Username)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &Session{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTTL().Seconds()),
	}, nil
}

// revoke is best effort: without redis a refresh token stays valid until it expires
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.cache == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.cache.RevokeToken(ctx, claims.ID, ttl); err != nil && !errors.Is(err, cache.ErrUnavailable) {
		pkglogger.Warn("revoke refresh token: %v", err)
	}
}
