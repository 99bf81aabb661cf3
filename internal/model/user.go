// Package model defines database models
package model

import "time"

type User struct {
	ID            string    `gorm:"primaryKey;size:26" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"not null" json:"-"` // Never leaves the server
	EmailVerified bool      `gorm:"default:false;not null" json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`

	VerificationCodes []VerificationCode `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Posts             []Post             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Uploads           []Upload           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PublicUser is the part of a user that is safe to return to clients
type PublicUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
