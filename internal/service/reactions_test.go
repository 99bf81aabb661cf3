package service

import (
	"context"
	"testing"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	reactions := NewReactions(f.db)

	post, err := newPosts(f).Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = reactions.Create(ctx, bo, ReactionInput{Type: model.ReactionLike, Target: PostTarget(post.ID)})
	require.NoError(t, err)

	r, err := reactions.Create(ctx, bo, ReactionInput{Type: model.ReactionLaugh, Target: PostTarget(post.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Bo", r.User.Name)

	_, err = reactions.Create(ctx, ana, ReactionInput{Type: model.ReactionLaugh, Target: PostTarget(post.ID)})
	require.NoError(t, err)

	list, err := reactions.List(ctx, anon, PostTarget(post.ID))
	require.NoError(t, err)
	assert.Len(t, list.Reactions, 2)
	assert.Equal(t, 2, list.Summary[model.ReactionLaugh])
	assert.Equal(t, 0, list.Summary[model.ReactionLike])
	assert.Equal(t, 0, list.Summary[model.ReactionSad])
	assert.Equal(t, 2, list.Summary["total"])
}

func TestReactionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	reactions := NewReactions(f.db)

	post, err := newPosts(f).Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = reactions.Create(ctx, ana, ReactionInput{Type: "meh", Target: PostTarget(post.ID)})
	assertKind(t, err, apperr.BadRequest)

	_, err = reactions.Create(ctx, ana, ReactionInput{Type: model.ReactionLike})
	assertKind(t, err, apperr.BadRequest)

	_, err = reactions.Create(ctx, ana, ReactionInput{Type: model.ReactionLike, Target: CommentTarget("missing")})
	assertKind(t, err, apperr.NotFound)

	_, err = reactions.List(ctx, anon, PostTarget("missing"))
	assertKind(t, err, apperr.NotFound)
}

func TestReactionDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "Ana", "ana@x.com")
	bo := f.signup(t, "Bo", "bo@x.com")
	reactions := NewReactions(f.db)

	post, err := newPosts(f).Create(ctx, ana, PostInput{Content: "hello"})
	require.NoError(t, err)

	c, err := NewComments(f.db).Create(ctx, ana, CommentInput{Content: "hi", Target: PostTarget(post.ID)})
	require.NoError(t, err)

	r, err := reactions.Create(ctx, bo, ReactionInput{Type: model.ReactionSad, Target: PostTarget(post.ID)})
	require.NoError(t, err)

	assertKind(t, reactions.Delete(ctx, ana, r.ID), apperr.Forbidden)
	assertKind(t, reactions.Delete(ctx, anon, r.ID), apperr.Unauthorized)
	require.NoError(t, reactions.Delete(ctx, bo, r.ID))
	assertKind(t, reactions.Delete(ctx, bo, r.ID), apperr.NotFound)

	_, err = reactions.Create(ctx, bo, ReactionInput{Type: model.ReactionAngry, Target: CommentTarget(c.ID)})
	require.NoError(t, err)

	assertKind(t, reactions.DeleteMine(ctx, ana, CommentTarget(c.ID)), apperr.NotFound)
	require.NoError(t, reactions.DeleteMine(ctx, bo, CommentTarget(c.ID)))
	assertKind(t, reactions.DeleteMine(ctx, bo, CommentTarget(c.ID)), apperr.NotFound)
	assertKind(t, reactions.DeleteMine(ctx, bo, PostTarget(post.ID)), apperr.NotFound)
}
