// Package guard holds the authorization rules shared by every resource
package guard

import (
	"linx/social-api/internal/apperr"
	"linx/social-api/internal/reqctx"
)

// RequireIdentity fails unless rc carries a resolved user and returns
// that user's ID.
func RequireIdentity(rc reqctx.RequestContext) (string, error) {
	if !rc.HasUser() {
		return "", apperr.NewUnauthorized("User authentication required")
	}

	return rc.UserID, nil
}

// Owns fails unless the caller in rc is ownerID. what names the resource
// in the error message ("posts", "comments", ...).
func Owns(rc reqctx.RequestContext, ownerID, what string) error {
	userID, err := RequireIdentity(rc)
	if err != nil {
		return err
	}

	if ownerID != userID {
		return apperr.NewForbidden("You can only modify your own " + what)
	}

	return nil
}
