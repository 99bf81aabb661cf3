package service

import (
	"context"
	"testing"

	"linx/social-api/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	comments := NewComments(f.db)

	post, err := newPosts(f).Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = comments.Create(ctx, ana, CommentInput{Content: "x"})
	assertKind(t, err, apperr.BadRequest)

	_, err = comments.Create(ctx, ana, CommentInput{Content: "x", Target: Target{PostID: &post.ID, CommentID: &post.ID}})
	assertKind(t, err, apperr.BadRequest)

	_, err = comments.Create(ctx, ana, CommentInput{Content: "x", Target: PostTarget("missing")})
	assertKind(t, err, apperr.NotFound)

	_, err = comments.Create(ctx, ana, CommentInput{Content: "x", Target: CommentTarget("missing")})
	assertKind(t, err, apperr.NotFound)

	_, err = comments.Create(ctx, anon, CommentInput{Content: "x", Target: PostTarget(post.ID)})
	assertKind(t, err, apperr.Unauthorized)
}

func TestCommentThreads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	comments := NewComments(f.db)
	comments.now = f.clock.Now

	post, err := newPosts(f).Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)

	first, err := comments.Create(ctx, bo, CommentInput{Content: "first", Target: PostTarget(post.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Bo", first.User.Name)
	assert.Zero(t, first.ReplyCount)

	f.clock.Advance(1)
	_, err = comments.Create(ctx, ana, CommentInput{Content: "second", Target: PostTarget(post.ID)})
	require.NoError(t, err)

	for _, c := range []string{"r1", "r2"} {
		_, err = comments.Create(ctx, ana, CommentInput{Content: c, Target: CommentTarget(first.ID)})
		require.NoError(t, err)
	}

	top, err := comments.ForPost(ctx, anon, post.ID)
	require.NoError(t, err)
	require.Len(t, top.Comments, 2, "replies are not top level")
	assert.Equal(t, "first", top.Comments[0].Content)
	assert.EqualValues(t, 2, top.Comments[0].ReplyCount)

	got, err := comments.Get(ctx, anon, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ReplyCount)

	replies, err := comments.Replies(ctx, anon, first.ID)
	require.NoError(t, err)
	assert.Len(t, replies.Comments, 2)

	err = comments.Delete(ctx, ana, first.ID)
	assertKind(t, err, apperr.Forbidden)

	require.NoError(t, comments.Delete(ctx, bo, first.ID))

	_, err = comments.Get(ctx, anon, first.ID)
	assertKind(t, err, apperr.NotFound)

	replies, err = comments.Replies(ctx, anon, first.ID)
	require.NoError(t, err)
	assert.Empty(t, replies.Comments)
}
