package store

import (
	"context"

	"linx/social-api/internal/model"
)

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// CreateUser inserts u. A taken email is reported as ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

// UpdateUser sets fields on the user with the given id
func (s *Store) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if r.Error != nil {
		return translate(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
