package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/repository"
)

// CommentService business logic for comments
type CommentService interface {
	ListComments(ctx context.Context, postID, viewerID uint64) ([]*domain.CommentView, error)
	CreateComment(ctx context.Context, actor *domain.Actor, postID uint64, req *domain.CommentRequest) (*domain.CommentView, error)
	UpdateComment(ctx context.Context, actor *domain.Actor, id uint64, req *domain.CommentRequest) (*domain.CommentView, error)
	DeleteComment(ctx context.Context, actor *domain.Actor, id uint64) error
	CountComments(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	events      EventPublisher
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	events EventPublisher,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		events:      publisherOrNoop(events),
	}
}

// ListComments returns a post's comments, oldest first
func (s *commentService) ListComments(ctx context.Context, postID, viewerID uint64) ([]*domain.CommentView, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(comments) == 0 {
		return []*domain.CommentView{}, nil
	}

	ids := make([]uint64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	counts, err := s.likeRepo.CountCommentLikes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comment likes: %w", err)
	}
	liked, err := s.likeRepo.LikedCommentIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("liked comments: %w", err)
	}

	views := make([]*domain.CommentView, len(comments))
	for i, c := range comments {
		views[i] = &domain.CommentView{Comment: *c, LikeCount: counts[c.ID], LikedByMe: liked[c.ID]}
	}
	return views, nil
}

// CreateComment adds a comment to an existing post
func (s *commentService) CreateComment(ctx context.Context, actor *domain.Actor, postID uint64, req *domain.CommentRequest) (*domain.CommentView, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrEmptyComment
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   postID,
		UserID:   actor.ID,
		Username: actor.DisplayName(),
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	view := &domain.CommentView{Comment: *comment}
	s.events.Publish(domain.EventCommentCreated, view)
	return view, nil
}

// UpdateComment replaces the content of the caller's comment
func (s *commentService) UpdateComment(ctx context.Context, actor *domain.Actor, id uint64, req *domain.CommentRequest) (*domain.CommentView, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrEmptyComment
	}

	comment, err := s.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	comment.Content = content

	counts, err := s.likeRepo.CountCommentLikes(ctx, []uint64{id})
	if err != nil {
		return nil, fmt.Errorf("count comment likes: %w", err)
	}
	liked, err := s.likeRepo.LikedCommentIDs(ctx, actor.ID, []uint64{id})
	if err != nil {
		return nil, fmt.Errorf("liked comments: %w", err)
	}
	return &domain.CommentView{Comment: *comment, LikeCount: counts[id], LikedByMe: liked[id]}, nil
}

// DeleteComment removes the caller's comment and its likes
func (s *commentService) DeleteComment(ctx context.Context, actor *domain.Actor, id uint64) error {
	if actor == nil {
		return common.ErrUnauthorized
	}
	if _, err := s.findOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return common.ErrCommentNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// CountComments re-derives the comment count of each post
func (s *commentService) CountComments(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts, err := s.commentRepo.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return counts, nil
}

func (s *commentService) ensurePost(ctx context.Context, postID uint64) error {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return common.ErrPostNotFound
		}
		return fmt.Errorf("find post: %w", err)
	}
	return nil
}

func (s *commentService) findOwned(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment.UserID != actor.ID {
		return nil, common.ErrForbidden
	}
	return comment, nil
}
