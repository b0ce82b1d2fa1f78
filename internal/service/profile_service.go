package service

import (
	"context"
	"fmt"

	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/repository"
)

// ProfileService builds profile pages
type ProfileService interface {
	MyProfile(ctx context.Context, actor *domain.Actor) (*domain.Profile, error)
	UserProfile(ctx context.Context, userID, viewerID uint64) (*domain.UserProfile, error)
}

type profileService struct {
	userRepo repository.UserRepository
	posts    PostService
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repository.UserRepository, posts PostService) ProfileService {
	return &profileService{userRepo: userRepo, posts: posts}
}

// MyProfile returns the caller's account and own posts
func (s *profileService) MyProfile(ctx context.Context, actor *domain.Actor) (*domain.Profile, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	posts, err := s.posts.ListUserPosts(ctx, actor.ID, actor.ID)
	if err != nil {
		return nil, err
	}

	username := user.Username
	if username == "" {
		username = domain.UnknownUserName
	}
	return &domain.Profile{
		User:      user.ToResponse(),
		Username:  username,
		Posts:     posts,
		PostCount: len(posts),
	}, nil
}

// UserProfile returns another user's posts. The name comes from their newest post.
func (s *profileService) UserProfile(ctx context.Context, userID, viewerID uint64) (*domain.UserProfile, error) {
	if userID == 0 {
		return nil, common.ErrUserNotFound
	}

	posts, err := s.posts.ListUserPosts(ctx, userID, viewerID)
	if err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{UserID: userID, Posts: posts, Header: "User Profile"}
	if len(posts) > 0 {
		profile.Username = posts[0].AuthorName()
		profile.Header = profile.Username + "'s Profile"
	}
	return profile, nil
}
