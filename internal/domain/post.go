package domain

import "time"

// Post is a sports pick
type Post struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;index;not null" json:"user_id"`
	Username  string    `gorm:"column:username;type:varchar(50)" json:"username"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Sport     string    `gorm:"column:sport;type:varchar(50);not null" json:"sport"`
	Odds      string    `gorm:"column:odds;type:varchar(50);not null" json:"odds"`
	CreatedAt time.Time `gorm:"column:created_at;index;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Post) TableName() string { return "posts" }

// AuthorName returns the stored username or the anonymous fallback
func (p *Post) AuthorName() string {
	if p.Username == "" {
		return AnonymousName
	}
	return p.Username
}

// PostView is a post decorated with its aggregates for the viewer
type PostView struct {
	Post
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	LikedByMe    bool  `json:"liked_by_me"`
}

// CreatePostRequest new pick form. All fields are required.
type CreatePostRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
	Sport   string `json:"sport" form:"sport"`
	Odds    string `json:"odds" form:"odds"`
}

// UpdatePostRequest edit form. Empty fields are left unchanged.
type UpdatePostRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
	Sport   string `json:"sport" form:"sport"`
	Odds    string `json:"odds" form:"odds"`
}

// PostListOptions selects posts by equality filter and creation order
type PostListOptions struct {
	UserID *uint64
	// OldestFirst orders by id ascending (store order) instead of newest first
	OldestFirst bool
}
