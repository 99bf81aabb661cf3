package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosts(f *fixture) *Posts {
	p := NewPosts(f.db, &fakeObjects{})
	p.now = f.clock.Now
	return p
}

func TestPostsCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	posts := newPosts(f)

	_, err := posts.Create(ctx, anon, PostInput{Content: "hi"})
	assertKind(t, err, apperr.Unauthorized)

	_, err = posts.Create(ctx, ana, PostInput{Content: "   "})
	assertKind(t, err, apperr.BadRequest)

	post, err := posts.Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, ana.UserID, post.UserID)
	assert.Equal(t, "Ana", post.User.Name)
	assert.Nil(t, post.Upload)

	content := "edited"
	_, err = posts.Update(ctx, bo, post.ID, &content)
	assertKind(t, err, apperr.Forbidden)

	updated, err := posts.Update(ctx, ana, post.ID, &content)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	err = posts.Delete(ctx, bo, post.ID)
	assertKind(t, err, apperr.Forbidden)

	err = posts.Delete(ctx, anon, post.ID)
	assertKind(t, err, apperr.Unauthorized)

	require.NoError(t, posts.Delete(ctx, ana, post.ID))

	_, err = posts.Get(ctx, anon, post.ID)
	assertKind(t, err, apperr.NotFound)

	err = posts.Delete(ctx, ana, post.ID)
	assertKind(t, err, apperr.NotFound)
}

func TestPostsList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	posts := newPosts(f)

	for i := range 3 {
		_, err := posts.Create(ctx, ana, PostInput{Content: fmt.Sprintf("ana %d", i)})
		require.NoError(t, err)
		f.clock.Advance(time.Second)
	}

	_, err := posts.Create(ctx, bo, PostInput{Content: "bo"})
	require.NoError(t, err)

	all, err := posts.List(ctx, anon, "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Pagination.Total)
	require.Len(t, all.Posts, 2)
	assert.Equal(t, "bo", all.Posts[0].Content, "newest first")
	assert.Equal(t, "ana 2", all.Posts[1].Content)

	page2, err := posts.List(ctx, anon, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 2)
	assert.Equal(t, "ana 0", page2.Posts[1].Content)

	mine, err := posts.List(ctx, anon, ana.UserID, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, mine.Pagination.Total)
	assert.Equal(t, 1, mine.Pagination.Page)
	assert.Equal(t, defaultPageSize, mine.Pagination.Limit)

	huge, err := posts.List(ctx, anon, "", 1, 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, huge.Pagination.Limit)
}

func TestPostWithUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	posts := newPosts(f)
	uploads := NewUploads(f.db, &fakeObjects{})

	up, err := uploads.Confirm(ctx, ana, ConfirmInput{
		Key:              "uploads/" + ana.UserID + "/01J000000000000000000000AA.png",
		OriginalFileName: "cat.png",
		MimeType:         "image/png",
		FileSize:         1024,
	})
	require.NoError(t, err)

	_, err = posts.Create(ctx, bo, PostInput{Content: "stolen", UploadID: &up.ID})
	assertKind(t, err, apperr.Forbidden)

	missing := "missing"
	_, err = posts.Create(ctx, ana, PostInput{Content: "x", UploadID: &missing})
	assertKind(t, err, apperr.NotFound)

	post, err := posts.Create(ctx, ana, PostInput{Content: "cat", UploadID: &up.ID})
	require.NoError(t, err)
	require.NotNil(t, post.Upload)
	assert.Equal(t, "https://bucket.test/get/"+up.Key, post.Upload.PublicURL)

	// Deleting the upload leaves the post in place
	_, err = uploads.Delete(ctx, ana, up.ID)
	require.NoError(t, err)

	got, err := posts.Get(ctx, anon, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UploadID)
	assert.Nil(t, got.Upload)
}

func TestPostDeleteRemovesThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	posts := newPosts(f)
	comments := NewComments(f.db)
	reactions := NewReactions(f.db)

	post, err := posts.Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)

	c, err := comments.Create(ctx, bo, CommentInput{Content: "hi", Target: PostTarget(post.ID)})
	require.NoError(t, err)

	reply, err := comments.Create(ctx, ana, CommentInput{Content: "hey", Target: CommentTarget(c.ID)})
	require.NoError(t, err)

	_, err = reactions.Create(ctx, bo, ReactionInput{Type: model.ReactionLike, Target: PostTarget(post.ID)})
	require.NoError(t, err)

	_, err = reactions.Create(ctx, bo, ReactionInput{Type: model.ReactionLove, Target: CommentTarget(reply.ID)})
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, ana, post.ID))

	var n int64
	require.NoError(t, f.db.Model(&model.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&model.Reaction{}).Count(&n).Error)
	assert.Zero(t, n)
}
