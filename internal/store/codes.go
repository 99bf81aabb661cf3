package store

import (
	"context"
	"time"

	"linx/social-api/internal/model"

	"gorm.io/gorm"
)

func (s *Store) CodeByValue(ctx context.Context, code string) (*model.VerificationCode, error) {
	var vc model.VerificationCode

	err := s.db.WithContext(ctx).
		Where("code = ?", code).
		First(&vc).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &vc, nil
}

// CodesFor lists the codes of one type held by a user
func (s *Store) CodesFor(ctx context.Context, userID string, t model.CodeType) ([]model.VerificationCode, error) {
	var codes []model.VerificationCode

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, t).
		Order("created_at").
		Find(&codes).
		Error

	return codes, translate(err)
}

// CodesByEmail lists every code issued to an email address
func (s *Store) CodesByEmail(ctx context.Context, email string) ([]model.VerificationCode, error) {
	var codes []model.VerificationCode

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Find(&codes).
		Error

	return codes, translate(err)
}

func (s *Store) DeleteCode(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.VerificationCode{}).
		Error)
}

// ReplaceCode deletes every code of vc's type held by vc's user and
// inserts vc, in one transaction. Afterwards vc is the only live code of
// its kind for that user.
func (s *Store) ReplaceCode(ctx context.Context, vc *model.VerificationCode) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND type = ?", vc.UserID, vc.Type).
			Delete(&model.VerificationCode{}).
			Error
		if err != nil {
			return err
		}

		return tx.Create(vc).Error
	}))
}

// ConsumeCode deletes vc and applies userFields to its owner in one
// transaction. If vc was already deleted by a concurrent request nothing
// is changed and ErrNotFound is returned, so a code works at most once.
func (s *Store) ConsumeCode(ctx context.Context, vc *model.VerificationCode, userFields map[string]any) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := tx.
			Where("id = ?", vc.ID).
			Delete(&model.VerificationCode{})
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return ErrNotFound
		}

		r = tx.
			Model(&model.User{}).
			Where("id = ?", vc.UserID).
			Updates(userFields)
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	}))
}

// DeleteExpiredCodes removes every code that expired before t
func (s *Store) DeleteExpiredCodes(ctx context.Context, t time.Time) (int64, error) {
	r := s.db.WithContext(ctx).
		Where("expires_at < ?", t).
		Delete(&model.VerificationCode{})

	return r.RowsAffected, translate(r.Error)
}
