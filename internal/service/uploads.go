package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/guard"
	"linx/social-api/internal/model"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/store"
	"linx/social-api/pkg/util"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxUploadSize = 10 << 20

	putURLTTL  = 5 * time.Minute
	viewURLTTL = time.Hour
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

// ObjectStore is implemented by *aws.S3Client
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// Uploads hands out presigned URLs. File bytes never pass through the
// server, clients PUT them straight to the bucket and confirm afterwards.
type Uploads struct {
	db      *gorm.DB
	objects ObjectStore
	now     func() time.Time
}

func NewUploads(db *gorm.DB, objects ObjectStore) *Uploads {
	return &Uploads{
		db:      db,
		objects: objects,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type PresignInput struct {
	FileName string
	FileType string
	FileSize int64
}

func (u *Uploads) PresignedURL(ctx context.Context, rc reqctx.RequestContext, in PresignInput) (*model.PresignedUpload, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.FileName) == "" {
		return nil, apperr.NewBadRequest("File name is required")
	}

	if in.FileSize <= 0 {
		return nil, apperr.NewBadRequest("File size must be positive")
	}

	if in.FileSize > maxUploadSize {
		return nil, apperr.NewBadRequest(fmt.Sprintf("File too large. Maximum size is %dMB", maxUploadSize>>20))
	}

	mime := normalizeImageType(in.FileType)
	if !slices.Contains(allowedImageTypes, mime) {
		return nil, apperr.NewBadRequest("File type not supported. Allowed types: " + strings.Join(allowedImageTypes, ", "))
	}

	key := UploadKey(userID, util.NewID(), fileExt(mime, in.FileName))

	uploadURL, err := u.objects.PresignPut(ctx, key, mime, in.FileSize, putURLTTL)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to presign upload")
	}

	viewURL, err := u.objects.PresignGet(ctx, key, viewURLTTL)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to presign view")
	}

	return &model.PresignedUpload{
		UploadURL: uploadURL,
		Key:       key,
		PublicURL: viewURL,
	}, nil
}

type ConfirmInput struct {
	Key              string
	OriginalFileName string
	MimeType         string
	FileSize         int64
}

// Confirm records an object the caller has uploaded under their own prefix
func (u *Uploads) Confirm(ctx context.Context, rc reqctx.RequestContext, in ConfirmInput) (*model.Upload, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	if !OwnsKey(in.Key, userID) {
		return nil, apperr.NewForbidden("Invalid upload key")
	}

	if strings.TrimSpace(in.OriginalFileName) == "" || in.MimeType == "" || in.FileSize <= 0 {
		return nil, apperr.NewBadRequest("Original file name, MIME type and a positive file size are required")
	}

	viewURL, err := u.objects.PresignGet(ctx, in.Key, viewURLTTL)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to presign view")
	}

	upload := &model.Upload{
		ID:               util.NewID(),
		Key:              in.Key,
		OriginalFileName: in.OriginalFileName,
		MimeType:         in.MimeType,
		FileSize:         in.FileSize,
		PublicURL:        viewURL,
		UserID:           userID,
		CreatedAt:        u.now(),
	}

	if err := u.db.WithContext(ctx).Omit(clause.Associations).Create(upload).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.NewConflict("Upload already confirmed")
		}

		return nil, apperr.Wrap(err, "failed to save upload")
	}

	err = u.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", upload.ID).
		Take(upload).
		Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch upload")
	}

	return upload, nil
}

// Mine lists the caller's uploads, newest first, with fresh view URLs
func (u *Uploads) Mine(ctx context.Context, rc reqctx.RequestContext) (*model.UploadsList, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	uploads := []model.Upload{}

	err = u.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&uploads).
		Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch uploads")
	}

	for i := range uploads {
		refreshURL(ctx, u.objects, &uploads[i])
	}

	return &model.UploadsList{Uploads: uploads}, nil
}

// Delete removes the object from the bucket, then the row. Posts showing
// the upload keep existing without it.
func (u *Uploads) Delete(ctx context.Context, rc reqctx.RequestContext, id string) (*MessageResult, error) {
	if _, err := guard.RequireIdentity(rc); err != nil {
		return nil, err
	}

	var upload model.Upload

	err := u.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&upload).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Upload not found")
		}

		return nil, apperr.Wrap(err, "failed to fetch upload")
	}

	if err := guard.Owns(rc, upload.UserID, "uploads"); err != nil {
		return nil, err
	}

	if err := u.objects.DeleteObject(ctx, upload.Key); err != nil {
		return nil, apperr.Wrap(err, "Failed to delete upload")
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Post{}).
			Where("upload_id = ?", upload.ID).
			Update("upload_id", nil).
			Error
		if err != nil {
			return err
		}

		r := tx.Where("id = ?", upload.ID).Delete(&model.Upload{})
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return store.ErrNotFound
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NewNotFound("Upload not found")
		}

		return nil, apperr.Wrap(err, "failed to delete upload")
	}

	return message("Upload deleted successfully"), nil
}

// UploadKey builds the object key for a new upload of userID
func UploadKey(userID, id, ext string) string {
	return "uploads/" + userID + "/" + id + ext
}

// OwnsKey reports whether key lives under userID's upload prefix
func OwnsKey(key, userID string) bool {
	if userID == "" || strings.Contains(key, "..") {
		return false
	}

	rest, ok := strings.CutPrefix(key, "uploads/"+userID+"/")
	return ok && rest != "" && !strings.Contains(rest, "/")
}

func normalizeImageType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "image/jpg" {
		return "image/jpeg"
	}

	return t
}

// fileExt prefers the extension registered for the MIME type and falls
// back to the one in the file name
func fileExt(mime, name string) string {
	if m := mimetype.Lookup(mime); m != nil && m.Extension() != "" {
		return m.Extension()
	}

	return strings.ToLower(path.Ext(name))
}

// refreshURL replaces the stored view URL, which may have expired
func refreshURL(ctx context.Context, objects ObjectStore, upload *model.Upload) {
	url, err := objects.PresignGet(ctx, upload.Key, viewURLTTL)
	if err != nil {
		zap.L().Warn("Failed to refresh upload URL", zap.String("upload_id", upload.ID), zap.Error(err))
		return
	}

	upload.PublicURL = url
}
