package model

import "time"

type CodeType string

const (
	CodePasswordReset     CodeType = "password_reset"
	CodeEmailVerification CodeType = "email_verification"
)

type VerificationCode struct {
	ID        string    `gorm:"primaryKey;size:26"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Type      CodeType  `gorm:"index:idx_codes_user_type;size:32;not null"`
	UserID    string    `gorm:"index:idx_codes_user_type;size:26;not null"`
	Email     string    `gorm:"not null"` // Copy of the user's email when the code was issued
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// Expired reports whether the code can no longer be used at now
func (v *VerificationCode) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
