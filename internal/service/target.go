package service

import (
	"context"
	"errors"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/model"

	"gorm.io/gorm"
)

// Target points a comment or reaction at exactly one post or comment
type Target struct {
	PostID    *string
	CommentID *string
}

func PostTarget(id string) Target    { return Target{PostID: &id} }
func CommentTarget(id string) Target { return Target{CommentID: &id} }

func set(s *string) bool {
	return s != nil && *s != ""
}

func (t Target) validate() error {
	switch {
	case !set(t.PostID) && !set(t.CommentID):
		return apperr.NewBadRequest("Must provide either postId or commentId")
	case set(t.PostID) && set(t.CommentID):
		return apperr.NewBadRequest("Cannot provide both postId and commentId")
	}

	return nil
}

// normalized drops empty IDs so they are stored as NULL
func (t Target) normalized() Target {
	var n Target
	if set(t.PostID) {
		n.PostID = t.PostID
	}

	if set(t.CommentID) {
		n.CommentID = t.CommentID
	}

	return n
}

// column and id of the target, for queries
func (t Target) where() (string, string) {
	if set(t.PostID) {
		return "post_id = ?", *t.PostID
	}

	return "comment_id = ?", *t.CommentID
}

// mustExist fails with NotFound unless the target row is present
func (t Target) mustExist(ctx context.Context, db *gorm.DB) error {
	var (
		err error
		msg string
	)

	if set(t.PostID) {
		msg = "Post not found"
		err = db.WithContext(ctx).Select("id").Where("id = ?", *t.PostID).Take(&model.Post{}).Error
	} else {
		msg = "Comment not found"
		err = db.WithContext(ctx).Select("id").Where("id = ?", *t.CommentID).Take(&model.Comment{}).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound(msg)
		}

		return apperr.Wrap(err, "failed to look up target")
	}

	return nil
}
