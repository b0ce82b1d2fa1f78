package domain

// UnknownUserName is shown on the own-profile page when no username is set
const UnknownUserName = "Unknown User"

// Profile is the signed-in user's own page
type Profile struct {
	User      *UserResponse `json:"user"`
	Username  string        `json:"username"`
	Posts     []*PostView   `json:"posts"`
	PostCount int           `json:"post_count"`
}

// UserProfile is the public page of another user, derived from their posts
type UserProfile struct {
	UserID   uint64      `json:"user_id"`
	Username string      `json:"username"`
	Header   string      `json:"header"`
	Posts    []*PostView `json:"posts"`
}
