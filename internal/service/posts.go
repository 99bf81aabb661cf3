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

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Posts struct {
	db      *gorm.DB
	objects ObjectStore
	now     func() time.Time
}

// NewPosts returns the posts service. objects may be nil, stored upload
// URLs are then returned as they are.
func NewPosts(db *gorm.DB, objects ObjectStore) *Posts {
	return &Posts{
		db:      db,
		objects: objects,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type PostInput struct {
	Content  string
	UploadID *string
}

func (p *Posts) Create(ctx context.Context, rc reqctx.RequestContext, in PostInput) (*model.Post, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.NewBadRequest("Content is required")
	}

	post := &model.Post{
		ID:        util.NewID(),
		Content:   content,
		UserID:    userID,
		CreatedAt: p.now(),
		UpdatedAt: p.now(),
	}

	if set(in.UploadID) {
		if err := p.attachable(ctx, rc, *in.UploadID); err != nil {
			return nil, err
		}

		post.UploadID = in.UploadID
	}

	if err := p.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to create post")
	}

	return p.Get(ctx, rc, post.ID)
}

func (p *Posts) Get(ctx context.Context, rc reqctx.RequestContext, id string) (*model.Post, error) {
	var post model.Post

	err := p.query(ctx).
		Where("posts.id = ?", id).
		First(&post).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Post not found")
		}

		return nil, apperr.Wrap(err, "failed to fetch post")
	}

	p.refresh(ctx, &post)
	return &post, nil
}

// List returns a page of posts, newest first. userID narrows it to one
// author when set.
func (p *Posts) List(ctx context.Context, rc reqctx.RequestContext, userID string, page, limit int) (*model.PostsList, error) {
	page, limit = clampPage(page, limit)

	base := p.db.WithContext(ctx).Model(&model.Post{})
	if userID != "" {
		base = base.Where("user_id = ?", userID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to count posts")
	}

	posts := []model.Post{}

	q := p.query(ctx)
	if userID != "" {
		q = q.Where("posts.user_id = ?", userID)
	}

	err := q.
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).
		Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch posts")
	}

	for i := range posts {
		p.refresh(ctx, &posts[i])
	}

	return &model.PostsList{
		Posts: posts,
		Pagination: model.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}, nil
}

// Update changes the content of a post. A nil content leaves the post as is.
func (p *Posts) Update(ctx context.Context, rc reqctx.RequestContext, id string, content *string) (*model.Post, error) {
	post, err := p.owned(ctx, rc, id)
	if err != nil {
		return nil, err
	}

	if content != nil {
		c := strings.TrimSpace(*content)
		if c == "" {
			return nil, apperr.NewBadRequest("Content can't be empty")
		}

		err = p.db.WithContext(ctx).
			Model(&model.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]any{
				"content":    c,
				"updated_at": p.now(),
			}).
			Error
		if err != nil {
			return nil, apperr.Wrap(err, "failed to update post")
		}
	}

	return p.Get(ctx, rc, id)
}

// Delete removes a post with its comments and reactions
func (p *Posts) Delete(ctx context.Context, rc reqctx.RequestContext, id string) error {
	post, err := p.owned(ctx, rc, id)
	if err != nil {
		return err
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var top []string
		err := tx.Model(&model.Comment{}).Where("post_id = ?", post.ID).Pluck("id", &top).Error
		if err != nil {
			return err
		}

		if err := deleteThreads(tx, top); err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", post.ID).Delete(&model.Post{}).Error
	})
	if err != nil {
		return apperr.Wrap(err, "failed to delete post")
	}

	return nil
}

func (p *Posts) query(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).
		Preload("User").
		Preload("Upload")
}

func (p *Posts) owned(ctx context.Context, rc reqctx.RequestContext, id string) (*model.Post, error) {
	if _, err := guard.RequireIdentity(rc); err != nil {
		return nil, err
	}

	var post model.Post

	err := p.db.WithContext(ctx).
		Where("id = ?", id).
		First(&post).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Post not found")
		}

		return nil, apperr.Wrap(err, "failed to fetch post")
	}

	if err := guard.Owns(rc, post.UserID, "posts"); err != nil {
		return nil, err
	}

	return &post, nil
}

// Only the uploader can put an upload on a post
func (p *Posts) attachable(ctx context.Context, rc reqctx.RequestContext, uploadID string) error {
	var upload model.Upload

	err := p.db.WithContext(ctx).
		Where("id = ?", uploadID).
		First(&upload).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("Upload not found")
		}

		return apperr.Wrap(err, "failed to fetch upload")
	}

	return guard.Owns(rc, upload.UserID, "uploads")
}

func (p *Posts) refresh(ctx context.Context, post *model.Post) {
	if post.Upload != nil && p.objects != nil {
		refreshURL(ctx, p.objects, post.Upload)
	}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = defaultPageSize
	}

	return page, min(limit, maxPageSize)
}
