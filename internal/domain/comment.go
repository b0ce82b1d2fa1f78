package domain

import "time"

// Comment on a post
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    uint64    `gorm:"column:post_id;index;not null" json:"post_id"`
	UserID    uint64    `gorm:"column:user_id;index;not null" json:"user_id"`
	Username  string    `gorm:"column:username;type:varchar(50)" json:"username"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string { return "comments" }

// AuthorName returns the stored username or the anonymous fallback
func (c *Comment) AuthorName() string {
	if c.Username == "" {
		return AnonymousName
	}
	return c.Username
}

// CommentView is a comment decorated with its like aggregates
type CommentView struct {
	Comment
	LikeCount int64 `json:"like_count"`
	LikedByMe bool  `json:"liked_by_me"`
}

// CommentRequest create/edit form
type CommentRequest struct {
	Content string `json:"content" form:"content"`
}
