package validators

import (
	"errors"
	"fmt"
)

var (
	ErrPasswordTooLong = errors.New("password is too long")
	ErrPasswordEmpty   = errors.New("no password provided")
)

const maxPasswordLength = 255

// PasswordValidator checks p against the configured minimum length
func PasswordValidator(p string, minLength int) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < minLength {
		return fmt.Errorf("password must be at least %d characters", minLength)
	}

	if len(p) > maxPasswordLength {
		return ErrPasswordTooLong
	}

	return nil
}
