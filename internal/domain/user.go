package domain

import "time"

// AnonymousName is shown when a record carries no username
const AnonymousName = "Anonymous"

// User is a registered account. Username is display metadata and may be empty.
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"column:username;type:varchar(50)" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (User) TableName() string { return "users" }

// ToResponse strips credentials
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor is the authenticated caller of a request, taken from the access token
type Actor struct {
	ID       uint64
	Email    string
	Username string
}

// DisplayName returns the username or the anonymous fallback
func (a *Actor) DisplayName() string {
	if a == nil || a.Username == "" {
		return AnonymousName
	}
	return a.Username
}

// SignUpRequest registration form
type SignUpRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Username string `json:"username" form:"username" validate:"max=50"`
}

// SignInRequest login form
type SignInRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}
