package repository

import (
	"context"

	"github.com/pickboard/pickboard-backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository comment data access
type CommentRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Comment, error)
	FindByPost(ctx context.Context, postID uint64) ([]*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) error
	UpdateContent(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error
	CountByPosts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPost(ctx context.Context, postID uint64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", id).
		Update("content", content).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&domain.CommentLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

type groupCount struct {
	ID    uint64
	Total int64
}

func (r *commentRepository) CountByPosts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("post_id AS id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Total
	}
	return counts, nil
}
