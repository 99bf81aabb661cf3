package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Conflict, KindOf(NewConflict("taken")))
	assert.Equal(t, Forbidden, KindOf(fmt.Errorf("delete post: %w", NewForbidden("nope"))))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestMessageHidesInternal(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "failed to load user")

	assert.Equal(t, "Internal server error", Message(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Email already verified", Message(NewBadRequest("Email already verified")))
}
