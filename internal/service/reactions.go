package service

import (
	"context"
	"errors"
	"time"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/guard"
	"linx/social-api/internal/model"
	"linx/social-api/internal/reqctx"
	"linx/social-api/pkg/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Reactions struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReactions(db *gorm.DB) *Reactions {
	return &Reactions{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type ReactionInput struct {
	Type model.ReactionType
	Target
}

// Create sets the caller's reaction on a post or comment. A previous
// reaction by the same user on the same target is replaced.
func (s *Reactions) Create(ctx context.Context, rc reqctx.RequestContext, in ReactionInput) (*model.Reaction, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	if !in.Type.Valid() {
		return nil, apperr.NewBadRequest("Invalid reaction type")
	}

	if err := in.Target.validate(); err != nil {
		return nil, err
	}

	if err := in.Target.mustExist(ctx, s.db); err != nil {
		return nil, err
	}

	t := in.Target.normalized()
	reaction := &model.Reaction{
		ID:        util.NewID(),
		Type:      in.Type,
		PostID:    t.PostID,
		CommentID: t.CommentID,
		UserID:    userID,
		CreatedAt: s.now(),
	}

	where, id := t.where()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ?", userID).
			Where(where, id).
			Delete(&model.Reaction{}).
			Error
		if err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(reaction).Error
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to create reaction")
	}

	err = s.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", reaction.ID).
		Take(reaction).
		Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch reaction")
	}

	return reaction, nil
}

// List returns every reaction on the target, newest first, with a count
// per type
func (s *Reactions) List(ctx context.Context, rc reqctx.RequestContext, t Target) (*model.ReactionsList, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	if err := t.mustExist(ctx, s.db); err != nil {
		return nil, err
	}

	where, id := t.where()
	reactions := []model.Reaction{}

	err := s.db.WithContext(ctx).
		Preload("User").
		Where(where, id).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reactions).
		Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch reactions")
	}

	return &model.ReactionsList{
		Reactions: reactions,
		Summary:   model.Summarize(reactions),
	}, nil
}

func (s *Reactions) Delete(ctx context.Context, rc reqctx.RequestContext, id string) error {
	if _, err := guard.RequireIdentity(rc); err != nil {
		return err
	}

	var reaction model.Reaction

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&reaction).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("Reaction not found")
		}

		return apperr.Wrap(err, "failed to fetch reaction")
	}

	if err := guard.Owns(rc, reaction.UserID, "reactions"); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
		return apperr.Wrap(err, "failed to delete reaction")
	}

	return nil
}

// DeleteMine removes the caller's reaction from the target
func (s *Reactions) DeleteMine(ctx context.Context, rc reqctx.RequestContext, t Target) error {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return err
	}

	if err := t.validate(); err != nil {
		return err
	}

	where, id := t.where()

	r := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(where, id).
		Delete(&model.Reaction{})
	if r.Error != nil {
		return apperr.Wrap(r.Error, "failed to delete reaction")
	}

	if r.RowsAffected == 0 {
		if set(t.PostID) {
			return apperr.NewNotFound("No reaction found from this user on this post")
		}

		return apperr.NewNotFound("No reaction found from this user on this comment")
	}

	return nil
}
