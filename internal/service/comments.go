package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/guard"
	"linx/social-api/internal/model"
	"linx/social-api/internal/reqctx"
	"linx/social-api/pkg/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const replyCountSelect = "comments.*, (SELECT COUNT(*) FROM comments AS r WHERE r.comment_id = comments.id) AS reply_count"

type Comments struct {
	db  *gorm.DB
	now func() time.Time
}

func NewComments(db *gorm.DB) *Comments {
	return &Comments{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type CommentInput struct {
	Content string
	Target
}

// Create adds a comment to a post, or a reply to another comment
func (s *Comments) Create(ctx context.Context, rc reqctx.RequestContext, in CommentInput) (*model.Comment, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	if err := in.Target.validate(); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.NewBadRequest("Content is required")
	}

	if err := in.Target.mustExist(ctx, s.db); err != nil {
		return nil, err
	}

	t := in.Target.normalized()
	comment := &model.Comment{
		ID:        util.NewID(),
		Content:   content,
		PostID:    t.PostID,
		CommentID: t.CommentID,
		UserID:    userID,
		CreatedAt: s.now(),
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to create comment")
	}

	return s.Get(ctx, rc, comment.ID)
}

func (s *Comments) Get(ctx context.Context, rc reqctx.RequestContext, id string) (*model.Comment, error) {
	var comment model.Comment

	err := s.query(ctx).
		Where("comments.id = ?", id).
		Take(&comment).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Comment not found")
		}

		return nil, apperr.Wrap(err, "failed to fetch comment")
	}

	return &comment, nil
}

// ForPost lists the top level comments of a post, oldest first
func (s *Comments) ForPost(ctx context.Context, rc reqctx.RequestContext, postID string) (*model.CommentsList, error) {
	return s.list(ctx, s.query(ctx).Where("comments.post_id = ? AND comments.comment_id IS NULL", postID))
}

// Replies lists the direct replies to a comment, oldest first
func (s *Comments) Replies(ctx context.Context, rc reqctx.RequestContext, commentID string) (*model.CommentsList, error) {
	return s.list(ctx, s.query(ctx).Where("comments.comment_id = ?", commentID))
}

// Delete removes a comment, its replies and every reaction on them
func (s *Comments) Delete(ctx context.Context, rc reqctx.RequestContext, id string) error {
	if _, err := guard.RequireIdentity(rc); err != nil {
		return err
	}

	var comment model.Comment

	err := s.db.WithContext(ctx).
		Select("id", "user_id").
		Where("id = ?", id).
		Take(&comment).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("Comment not found")
		}

		return apperr.Wrap(err, "failed to fetch comment")
	}

	if err := guard.Owns(rc, comment.UserID, "comments"); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteThreads(tx, []string{comment.ID})
	})
	if err != nil {
		return apperr.Wrap(err, "failed to delete comment")
	}

	return nil
}

func (s *Comments) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Select(replyCountSelect).
		Preload("User")
}

func (s *Comments) list(ctx context.Context, q *gorm.DB) (*model.CommentsList, error) {
	comments := []model.Comment{}

	err := q.
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Find(&comments).
		Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch comments")
	}

	return &model.CommentsList{Comments: comments}, nil
}

// deleteThreads deletes the given comments together with all replies
// below them and the reactions on any of those. Must run inside tx.
func deleteThreads(tx *gorm.DB, roots []string) error {
	all := append([]string(nil), roots...)

	for level := roots; len(level) > 0; {
		var next []string

		err := tx.Model(&model.Comment{}).
			Where("comment_id IN ?", level).
			Pluck("id", &next).
			Error
		if err != nil {
			return err
		}

		all = append(all, next...)
		level = next
	}

	if len(all) == 0 {
		return nil
	}

	if err := tx.Where("comment_id IN ?", all).Delete(&model.Reaction{}).Error; err != nil {
		return err
	}

	// Children first so the self reference never points at a missing row
	for i := len(all) - 1; i >= 0; i-- {
		if err := tx.Where("id = ?", all[i]).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
	}

	return nil
}
