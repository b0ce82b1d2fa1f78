package service

import (
	"context"
	"fmt"

	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/repository"
	"github.com/pickboard/pickboard-backend/pkg/cache"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
)

// LikeService toggles likes on posts and comments
type LikeService interface {
	TogglePostLike(ctx context.Context, actor *domain.Actor, postID uint64) (*domain.LikeResponse, error)
	ToggleCommentLike(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.LikeResponse, error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	cache       cache.Service
	events      EventPublisher
}

// NewLikeService creates a new LikeService
func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	cacheService cache.Service,
	events EventPublisher,
) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cache:       cacheService,
		events:      publisherOrNoop(events),
	}
}

// TogglePostLike likes the post, or removes the caller's existing like
func (s *likeService) TogglePostLike(ctx context.Context, actor *domain.Actor, postID uint64) (*domain.LikeResponse, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	liked, err := s.likeRepo.TogglePostLike(ctx, postID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle post like: %w", err)
	}
	counts, err := s.likeRepo.CountPostLikes(ctx, []uint64{postID})
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	resp := &domain.LikeResponse{Liked: liked, LikeCount: counts[postID]}

	if s.cache != nil {
		if err := s.cache.InvalidateTopPicks(ctx); err != nil {
			pkglogger.Warn("invalidate top picks: %v", err)
		}
	}
	s.events.Publish(domain.EventLikeUpdated, &domain.LikeUpdatedPayload{
		Target:    domain.LikeTargetPost,
		ID:        postID,
		PostID:    postID,
		LikeCount: resp.LikeCount,
	})
	return resp, nil
}

// ToggleCommentLike likes the comment, or removes the caller's existing like
func (s *likeService) ToggleCommentLike(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.LikeResponse, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}

	liked, err := s.likeRepo.ToggleCommentLike(ctx, commentID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle comment like: %w", err)
	}
	counts, err := s.likeRepo.CountCommentLikes(ctx, []uint64{commentID})
	if err != nil {
		return nil, fmt.Errorf("count comment likes: %w", err)
	}

	resp := &domain.LikeResponse{Liked: liked, LikeCount: counts[commentID]}
	s.events.Publish(domain.EventLikeUpdated, &domain.LikeUpdatedPayload{
		Target:    domain.LikeTargetComment,
		ID:        commentID,
		PostID:    comment.PostID,
		LikeCount: resp.LikeCount,
	})
	return resp, nil
}
