package service

import (
	"context"
	"testing"

	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentFixture() (*mockCommentRepo, *mockPostRepo, *mockLikeRepo, *recordingPublisher, CommentService) {
	comments := new(mockCommentRepo)
	posts := new(mockPostRepo)
	likes := new(mockLikeRepo)
	events := &recordingPublisher{}
	return comments, posts, likes, events, NewCommentService(comments, posts, likes, events)
}

func TestCreateComment_Empty(t *testing.T) {
	comments, posts, _, _, svc := newCommentFixture()

	_, err := svc.CreateComment(context.Background(), testActor, 1, &domain.CommentRequest{Content: "  "})

	assert.ErrorIs(t, err, common.ErrEmptyComment)
	assert.Equal(t, "Comment cannot be empty.", err.Error())
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	posts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCreateComment_PostMissing(t *testing.T) {
	comments, posts, _, _, svc := newCommentFixture()
	posts.On("FindByID", mock.Anything, uint64(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreateComment(context.Background(), testActor, 1, &domain.CommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, common.ErrPostNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_Success(t *testing.T) {
	comments, posts, _, events, svc := newCommentFixture()
	posts.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Post{ID: 1}, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Comment) bool {
		return c.PostID == 1 && c.UserID == 7 && c.Username == "amy" && c.Content == "hi"
	})).Return(nil)

	view, err := svc.CreateComment(context.Background(), testActor, 1, &domain.CommentRequest{Content: " hi "})
	require.NoError(t, err)
	assert.Equal(t, "hi", view.Content)
	assert.Equal(t, []string{domain.EventCommentCreated}, events.types())
}

func TestListComments(t *testing.T) {
	comments, posts, likes, _, svc := newCommentFixture()
	posts.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Post{ID: 1}, nil)
	comments.On("FindByPost", mock.Anything, uint64(1)).
		Return([]*domain.Comment{{ID: 3, PostID: 1}, {ID: 4, PostID: 1}}, nil)
	likes.On("CountCommentLikes", mock.Anything, []uint64{3, 4}).Return(map[uint64]int64{4: 2}, nil)
	likes.On("LikedCommentIDs", mock.Anything, uint64(7), []uint64{3, 4}).Return(map[uint64]bool{4: true}, nil)

	views, err := svc.ListComments(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint64(3), views[0].ID)
	assert.Equal(t, int64(2), views[1].LikeCount)
	assert.True(t, views[1].LikedByMe)
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	comments, _, _, _, svc := newCommentFixture()
	comments.On("FindByID", mock.Anything, uint64(3)).Return(&domain.Comment{ID: 3, UserID: 1}, nil)

	_, err := svc.UpdateComment(context.Background(), testActor, 3, &domain.CommentRequest{Content: "x"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	comments.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteComment(t *testing.T) {
	comments, _, _, _, svc := newCommentFixture()
	comments.On("FindByID", mock.Anything, uint64(3)).Return(&domain.Comment{ID: 3, UserID: 7}, nil)
	comments.On("Delete", mock.Anything, uint64(3)).Return(nil)
	comments.On("FindByID", mock.Anything, uint64(4)).Return(nil, gorm.ErrRecordNotFound)

	assert.NoError(t, svc.DeleteComment(context.Background(), testActor, 3))
	assert.ErrorIs(t, svc.DeleteComment(context.Background(), testActor, 4), common.ErrCommentNotFound)
}

func TestCountComments(t *testing.T) {
	comments, _, _, _, svc := newCommentFixture()
	comments.On("CountByPosts", mock.Anything, []uint64{1, 2}).Return(map[uint64]int64{1: 3}, nil)

	counts, err := svc.CountComments(context.Background(), []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[1])
	assert.Zero(t, counts[2])
}
