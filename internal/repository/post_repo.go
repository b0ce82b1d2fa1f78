package repository

import (
	"context"

	"github.com/pickboard/pickboard-backend/internal/domain"
	"gorm.io/gorm"
)

// PostRepository post data access
type PostRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Post, error)
	List(ctx context.Context, opts domain.PostListOptions) ([]*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	// Delete removes the post with its comments, comment likes and post likes
	Delete(ctx context.Context, id uint64) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) FindByID(ctx context.Context, id uint64) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, opts domain.PostListOptions) ([]*domain.Post, error) {
	query := r.db.WithContext(ctx).Model(&domain.Post{})
	if opts.UserID != nil {
		query = query.Where("user_id = ?", *opts.UserID)
	}
	if opts.OldestFirst {
		query = query.Order("id ASC")
	} else {
		query = query.Order("created_at DESC, id DESC")
	}

	var posts []*domain.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
			"sport":   post.Sport,
			"odds":    post.Odds,
		}).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&domain.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&domain.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.PostLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
