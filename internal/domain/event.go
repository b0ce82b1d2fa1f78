package domain

// Live feed event types
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventLikeUpdated    = "like_updated"
)

// LikeTarget kinds carried by like_updated
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// LikeUpdatedPayload is the body of a like_updated event
type LikeUpdatedPayload struct {
	Target    string `json:"target"`
	ID        uint64 `json:"id"`
	PostID    uint64 `json:"post_id"`
	LikeCount int64  `json:"like_count"`
}
