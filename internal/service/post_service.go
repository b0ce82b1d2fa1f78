package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/repository"
	"github.com/pickboard/pickboard-backend/pkg/cache"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
)

// PostService business logic for posts
type PostService interface {
	ListPosts(ctx context.Context, viewerID uint64) ([]*domain.PostView, error)
	ListUserPosts(ctx context.Context, userID, viewerID uint64) ([]*domain.PostView, error)
	GetPost(ctx context.Context, id, viewerID uint64) (*domain.PostView, error)
	CreatePost(ctx context.Context, actor *domain.Actor, req *domain.CreatePostRequest) (*domain.PostView, error)
	UpdatePost(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdatePostRequest) (*domain.PostView, error)
	DeletePost(ctx context.Context, actor *domain.Actor, id uint64) error
}

type postService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	cache       cache.Service
	events      EventPublisher
}

// NewPostService creates a new PostService. cacheService and events may be nil.
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	cacheService cache.Service,
	events EventPublisher,
) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		cache:       cacheService,
		events:      publisherOrNoop(events),
	}
}

// ListPosts returns the feed, newest first
func (s *postService) ListPosts(ctx context.Context, viewerID uint64) ([]*domain.PostView, error) {
	posts, err := s.postRepo.List(ctx, domain.PostListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.views(ctx, posts, viewerID)
}

// ListUserPosts returns one user's posts, newest first
func (s *postService) ListUserPosts(ctx context.Context, userID, viewerID uint64) ([]*domain.PostView, error) {
	posts, err := s.postRepo.List(ctx, domain.PostListOptions{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return s.views(ctx, posts, viewerID)
}

// GetPost returns a single post
func (s *postService) GetPost(ctx context.Context, id, viewerID uint64) (*domain.PostView, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*domain.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// CreatePost validates and stores a new pick. No write is issued when a field is missing.
func (s *postService) CreatePost(ctx context.Context, actor *domain.Actor, req *domain.CreatePostRequest) (*domain.PostView, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}

	post := &domain.Post{
		UserID:   actor.ID,
		Username: actor.DisplayName(),
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Sport:    strings.TrimSpace(req.Sport),
		Odds:     strings.TrimSpace(req.Odds),
	}
	if post.Title == "" || post.Content == "" || post.Sport == "" || post.Odds == "" {
		return nil, common.ErrMissingFields
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	view := &domain.PostView{Post: *post}
	s.invalidateTopPicks(ctx)
	s.events.Publish(domain.EventPostCreated, view)
	return view, nil
}

// UpdatePost replaces the non-empty fields of the caller's post
func (s *postService) UpdatePost(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdatePostRequest) (*domain.PostView, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor.ID {
		return nil, common.ErrForbidden
	}

	changed := false
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&post.Title, req.Title},
		{&post.Content, req.Content},
		{&post.Sport, req.Sport},
		{&post.Odds, req.Odds},
	} {
		if v := strings.TrimSpace(f.src); v != "" {
			*f.dst = v
			changed = true
		}
	}
	if !changed {
		return nil, common.ErrMissingFields
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.invalidateTopPicks(ctx)

	views, err := s.views(ctx, []*domain.Post{post}, actor.ID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// DeletePost removes the caller's post with its comments and likes
func (s *postService) DeletePost(ctx context.Context, actor *domain.Actor, id uint64) error {
	if actor == nil {
		return common.ErrUnauthorized
	}
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != actor.ID {
		return common.ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return common.ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.invalidateTopPicks(ctx)
	s.events.Publish(domain.EventPostDeleted, map[string]uint64{"post_id": id})
	return nil
}

func (s *postService) find(ctx context.Context, id uint64) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// views attaches like counts, comment counts and the viewer's like flag
func (s *postService) views(ctx context.Context, posts []*domain.Post, viewerID uint64) ([]*domain.PostView, error) {
	views := make([]*domain.PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likeCounts, err := s.likeRepo.CountPostLikes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	commentCounts, err := s.commentRepo.CountByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	liked, err := s.likeRepo.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("liked posts: %w", err)
	}

	for i, p := range posts {
		views[i] = &domain.PostView{
			Post:         *p,
			LikeCount:    likeCounts[p.ID],
			CommentCount: commentCounts[p.ID],
			LikedByMe:    liked[p.ID],
		}
	}
	return views, nil
}

func (s *postService) invalidateTopPicks(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTopPicks(ctx); err != nil {
		pkglogger.Warn("invalidate top picks: %v", err)
	}
}
