package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("ana@x.com"))
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
	assert.ErrorIs(t, EmailValidator("Ana <ana@x.com>"), ErrEmailInvalid)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("secret", 6))
	assert.ErrorIs(t, PasswordValidator("", 6), ErrPasswordEmpty)
	assert.EqualError(t, PasswordValidator("short", 6), "password must be at least 6 characters")
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256), 6), ErrPasswordTooLong)
}
