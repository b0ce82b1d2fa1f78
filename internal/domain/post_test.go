package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorName_Fallback(t *testing.T) {
	assert.Equal(t, "Anonymous", (&Post{}).AuthorName())
	assert.Equal(t, "bob", (&Post{Username: "bob"}).AuthorName())
	assert.Equal(t, "Anonymous", (&Comment{}).AuthorName())
}

func TestActorDisplayName(t *testing.T) {
	var nilActor *Actor
	assert.Equal(t, "Anonymous", nilActor.DisplayName())
	assert.Equal(t, "Anonymous", (&Actor{ID: 1}).DisplayName())
	assert.Equal(t, "amy", (&Actor{ID: 1, Username: "amy"}).DisplayName())
}

func TestUserToResponse_OmitsHash(t *testing.T) {
	u := &User{ID: 3, Email: "a@b.c", Username: "amy", PasswordHash: "secret"}
	resp := u.ToResponse()
	assert.Equal(t, uint64(3), resp.ID)
	assert.Equal(t, "a@b.c", resp.Email)
	assert.Equal(t, "amy", resp.Username)
}
