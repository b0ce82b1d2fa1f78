package repository

import (
	"context"

	"github.com/pickboard/pickboard-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository post and comment like data access
type LikeRepository interface {
	// TogglePostLike deletes the (post, user) like if present, otherwise inserts it.
	// Returns true when the like exists afterwards.
	TogglePostLike(ctx context.Context, postID, userID uint64) (bool, error)
	ToggleCommentLike(ctx context.Context, commentID, userID uint64) (bool, error)

	CountPostLikes(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	CountCommentLikes(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error)
	LikedPostIDs(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error)
	LikedCommentIDs(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error)

	// ListPostLikes returns every post like as (post_id, created_at)
	ListPostLikes(ctx context.Context) ([]domain.LikeRecord, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) TogglePostLike(ctx context.Context, postID, userID uint64) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.PostLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.PostLike{PostID: postID, UserID: userID}).Error
	})
	return liked, err
}

func (r *likeRepository) ToggleCommentLike(ctx context.Context, commentID, userID uint64) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&domain.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.CommentLike{CommentID: commentID, UserID: userID}).Error
	})
	return liked, err
}

func (r *likeRepository) CountPostLikes(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return r.countBy(ctx, &domain.PostLike{}, "post_id", postIDs)
}

func (r *likeRepository) CountCommentLikes(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error) {
	return r.countBy(ctx, &domain.CommentLike{}, "comment_id", commentIDs)
}

func (r *likeRepository) countBy(ctx context.Context, model interface{}, column string, ids []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []groupCount
	err := r.db.WithContext(ctx).Model(model).
		Select(column+" AS id, COUNT(*) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Total
	}
	return counts, nil
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	return r.likedBy(ctx, &domain.PostLike{}, "post_id", userID, postIDs)
}

func (r *likeRepository) LikedCommentIDs(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	return r.likedBy(ctx, &domain.CommentLike{}, "comment_id", userID, commentIDs)
}

func (r *likeRepository) likedBy(ctx context.Context, model interface{}, column string, userID uint64, ids []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool)
	if userID == 0 || len(ids) == 0 {
		return liked, nil
	}

	var found []uint64
	err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND "+column+" IN ?", userID, ids).
		Pluck(column, &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		liked[id] = true
	}
	return liked, nil
}

func (r *likeRepository) ListPostLikes(ctx context.Context) ([]domain.LikeRecord, error) {
	var records []domain.LikeRecord
	err := r.db.WithContext(ctx).Model(&domain.PostLike{}).
		Select("post_id, created_at").
		Order("id ASC").
		Scan(&records).Error
	return records, err
}
