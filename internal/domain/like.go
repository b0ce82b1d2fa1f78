package domain

import "time"

// PostLike is at most one per (post_id, user_id)
type PostLike struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PostID    uint64    `gorm:"column:post_id;not null;uniqueIndex:idx_post_likes_post_user" json:"post_id"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_post_likes_post_user" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;index;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM
func (PostLike) TableName() string { return "likes" }

// CommentLike is at most one per (comment_id, user_id)
type CommentLike struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CommentID uint64    `gorm:"column:comment_id;not null;uniqueIndex:idx_comment_likes_comment_user" json:"comment_id"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_comment_likes_comment_user" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM
func (CommentLike) TableName() string { return "comment_likes" }

// LikeRecord is the projection used by the leaderboard
type LikeRecord struct {
	PostID    uint64    `gorm:"column:post_id" json:"post_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// LikeResponse is returned by a toggle
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
