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
	"linx/social-api/internal/store"
	"linx/social-api/pkg/security"
	"linx/social-api/pkg/util"
	"linx/social-api/pkg/validators"

	"go.uber.org/zap"
)

const (
	resetCodeTTL  = 15 * time.Minute
	verifyCodeTTL = 30 * time.Minute

	msgInvalidCredentials = "Invalid email or password"
	msgResetRequested     = "If an account with that email exists, a password reset link has been sent"
	msgInvalidResetCode   = "Invalid or expired reset code"
	msgInvalidVerifyCode  = "Invalid or expired verification code"
	msgAlreadyVerified    = "Email already verified"
)

// CredentialStore is the user half of *store.Store
type CredentialStore interface {
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, id string, fields map[string]any) error
}

// CodeLedger is the verification code half of *store.Store
type CodeLedger interface {
	CodeByValue(ctx context.Context, code string) (*model.VerificationCode, error)
	DeleteCode(ctx context.Context, id string) error
	ReplaceCode(ctx context.Context, vc *model.VerificationCode) error
	ConsumeCode(ctx context.Context, vc *model.VerificationCode, userFields map[string]any) error
}

type PasswordHasher interface {
	Hash(p string) (string, error)
	Verify(p, encoded string) (bool, error)
}

type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

type AuthOpts struct {
	Users       CredentialStore
	Codes       CodeLedger
	Hasher      PasswordHasher
	Tokens      TokenIssuer
	Notifier    Notifier
	Clock       func() time.Time
	FrontendURL string
}

// Auth runs the account lifecycle: signup, login, password reset, email
// verification and credential changes. It keeps no state between calls.
type Auth struct {
	users       CredentialStore
	codes       CodeLedger
	hasher      PasswordHasher
	tokens      TokenIssuer
	notifier    Notifier
	now         func() time.Time
	frontendURL string
}

func NewAuth(o AuthOpts) *Auth {
	now := o.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Auth{
		users:       o.Users,
		codes:       o.Codes,
		hasher:      o.Hasher,
		tokens:      o.Tokens,
		notifier:    o.Notifier,
		now:         now,
		frontendURL: strings.TrimRight(o.FrontendURL, "/"),
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

type MessageResult struct {
	Message string `json:"message"`
}

func message(m string) *MessageResult {
	return &MessageResult{Message: m}
}

func (a *Auth) Signup(ctx context.Context, rc reqctx.RequestContext, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.NewBadRequest("Name is required")
	}

	if err := validators.EmailValidator(in.Email); err != nil {
		return nil, apperr.NewBadRequest("Invalid email address")
	}

	if in.Password == "" {
		return nil, apperr.NewBadRequest("Password is required")
	}

	_, err := a.users.UserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.NewConflict("User with this email already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Wrap(err, "failed to look up user")
	}

	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to hash password")
	}

	now := a.now()
	user := &model.User{
		ID:           util.NewID(),
		Name:         name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.users.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent signup with the same email
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.NewConflict("User with this email already exists")
		}

		return nil, apperr.Wrap(err, "failed to create user")
	}

	zap.L().Debug("User created", zap.String("request_id", rc.RequestID), zap.String("user_id", user.ID))

	return a.authResult(user)
}

func (a *Auth) Login(ctx context.Context, rc reqctx.RequestContext, email, password string) (*AuthResult, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NewUnauthorized(msgInvalidCredentials)
		}

		return nil, apperr.Wrap(err, "failed to look up user")
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to verify password")
	}

	if !ok {
		return nil, apperr.NewUnauthorized(msgInvalidCredentials)
	}

	return a.authResult(user)
}

// Me returns the caller. A valid token whose user no longer exists is an
// internal failure, not a client error.
func (a *Auth) Me(ctx context.Context, rc reqctx.RequestContext) (*model.PublicUser, error) {
	user, err := a.currentUser(ctx, rc)
	if err != nil {
		return nil, err
	}

	pub := user.Public()
	return &pub, nil
}

// ForgotPassword answers the same way whether or not the email is known
func (a *Auth) ForgotPassword(ctx context.Context, rc reqctx.RequestContext, email string) (*MessageResult, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return message(msgResetRequested), nil
		}

		return nil, apperr.Wrap(err, "failed to look up user")
	}

	vc, err := a.issueCode(ctx, user, model.CodePasswordReset, resetCodeTTL)
	if err != nil {
		return nil, err
	}

	link := a.link("/reset-password", vc.Code)
	if err := a.notifier.Send(ctx, user.Email, resetSubject, resetMail(user.Name, link)); err != nil {
		// The code stays valid, the user can ask again
		zap.L().Error("Failed to send password reset mail",
			zap.String("request_id", rc.RequestID),
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	return message(msgResetRequested), nil
}

func (a *Auth) ResetPassword(ctx context.Context, rc reqctx.RequestContext, code, newPassword string) (*MessageResult, error) {
	if newPassword == "" {
		return nil, apperr.NewBadRequest("Password is required")
	}

	vc, err := a.liveCode(ctx, rc, code, model.CodePasswordReset, msgInvalidResetCode)
	if err != nil {
		return nil, err
	}

	if _, err := a.users.UserByID(ctx, vc.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NewBadRequest("User not found")
		}

		return nil, apperr.Wrap(err, "failed to look up user")
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to hash password")
	}

	err = a.codes.ConsumeCode(ctx, vc, map[string]any{
		"password_hash": hash,
		"updated_at":    a.now(),
	})
	if err != nil {
		return nil, consumeErr(err, msgInvalidResetCode)
	}

	return message("Password reset successfully"), nil
}

// SendVerificationEmail reveals whether the email is registered, unlike
// ForgotPassword.
func (a *Auth) SendVerificationEmail(ctx context.Context, rc reqctx.RequestContext, email string) (*MessageResult, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NewNotFound("User not found")
		}

		return nil, apperr.Wrap(err, "failed to look up user")
	}

	if user.EmailVerified {
		return nil, apperr.NewBadRequest(msgAlreadyVerified)
	}

	vc, err := a.issueCode(ctx, user, model.CodeEmailVerification, verifyCodeTTL)
	if err != nil {
		return nil, err
	}

	link := a.link("/verify-email", vc.Code)
	if err := a.notifier.Send(ctx, user.Email, verifySubject, verifyMail(user.Name, link)); err != nil {
		return nil, apperr.Wrap(err, "Failed to send verification email")
	}

	return message("Verification email sent successfully"), nil
}

func (a *Auth) VerifyEmail(ctx context.Context, rc reqctx.RequestContext, code string) (*MessageResult, error) {
	vc, err := a.liveCode(ctx, rc, code, model.CodeEmailVerification, msgInvalidVerifyCode)
	if err != nil {
		return nil, err
	}

	user, err := a.users.UserByID(ctx, vc.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NewBadRequest("User not found")
		}

		return nil, apperr.Wrap(err, "failed to look up user")
	}

	if user.EmailVerified {
		return nil, apperr.NewBadRequest(msgAlreadyVerified)
	}

	// Issued for an address the user has since changed away from
	if vc.Email != user.Email {
		a.dropCode(ctx, rc, vc)
		return nil, apperr.NewBadRequest(msgInvalidVerifyCode)
	}

	err = a.codes.ConsumeCode(ctx, vc, map[string]any{
		"email_verified": true,
		"updated_at":     a.now(),
	})
	if err != nil {
		return nil, consumeErr(err, msgInvalidVerifyCode)
	}

	return message("Email verified successfully"), nil
}

func (a *Auth) UpdateEmail(ctx context.Context, rc reqctx.RequestContext, newEmail string) (*MessageResult, error) {
	user, err := a.currentUser(ctx, rc)
	if err != nil {
		return nil, err
	}

	if err := validators.EmailValidator(newEmail); err != nil {
		return nil, apperr.NewBadRequest("Invalid email address")
	}

	owner, err := a.users.UserByEmail(ctx, newEmail)
	switch {
	case err == nil && owner.ID != user.ID:
		return nil, apperr.NewConflict("Email already in use")
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Wrap(err, "failed to look up user")
	}

	err = a.users.UpdateUser(ctx, user.ID, map[string]any{
		"email":          newEmail,
		"email_verified": false,
		"updated_at":     a.now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.NewConflict("Email already in use")
		}

		return nil, apperr.Wrap(err, "failed to update email")
	}

	return message("Email updated successfully. Please verify your new email address."), nil
}

func (a *Auth) UpdatePassword(ctx context.Context, rc reqctx.RequestContext, currentPassword, newPassword string) (*MessageResult, error) {
	user, err := a.currentUser(ctx, rc)
	if err != nil {
		return nil, err
	}

	if newPassword == "" {
		return nil, apperr.NewBadRequest("Password is required")
	}

	ok, err := a.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to verify password")
	}

	if !ok {
		return nil, apperr.NewBadRequest("Current password is incorrect")
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to hash password")
	}

	err = a.users.UpdateUser(ctx, user.ID, map[string]any{
		"password_hash": hash,
		"updated_at":    a.now(),
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to update password")
	}

	return message("Password updated successfully"), nil
}

func (a *Auth) authResult(u *model.User) (*AuthResult, error) {
	token, err := a.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to issue token")
	}

	return &AuthResult{User: u.Public(), Token: token}, nil
}

func (a *Auth) currentUser(ctx context.Context, rc reqctx.RequestContext) (*model.User, error) {
	userID, err := guard.RequireIdentity(rc)
	if err != nil {
		return nil, err
	}

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "User not found")
	}

	return user, nil
}

// issueCode makes a fresh code for user and replaces any previous code of
// the same type
func (a *Auth) issueCode(ctx context.Context, user *model.User, t model.CodeType, ttl time.Duration) (*model.VerificationCode, error) {
	vc, err := security.MakeVerificationCode(&security.VerificationCodeOpts{
		UserID: user.ID,
		Email:  user.Email,
		Type:   t,
		TTL:    ttl,
		Now:    a.now(),
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to generate code")
	}

	if err := a.codes.ReplaceCode(ctx, vc); err != nil {
		return nil, apperr.Wrap(err, "failed to store code")
	}

	return vc, nil
}

// liveCode looks up a code of type t. Unknown, mistyped and expired codes
// all fail with invalidMsg; expired ones are deleted on the way out.
func (a *Auth) liveCode(ctx context.Context, rc reqctx.RequestContext, code string, t model.CodeType, invalidMsg string) (*model.VerificationCode, error) {
	if code == "" {
		return nil, apperr.NewBadRequest(invalidMsg)
	}

	vc, err := a.codes.CodeByValue(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NewBadRequest(invalidMsg)
		}

		return nil, apperr.Wrap(err, "failed to look up code")
	}

	if vc.Type != t {
		return nil, apperr.NewBadRequest(invalidMsg)
	}

	if vc.Expired(a.now()) {
		a.dropCode(ctx, rc, vc)
		return nil, apperr.NewBadRequest(invalidMsg)
	}

	return vc, nil
}

func (a *Auth) dropCode(ctx context.Context, rc reqctx.RequestContext, vc *model.VerificationCode) {
	if err := a.codes.DeleteCode(ctx, vc.ID); err != nil {
		zap.L().Error("Failed to delete verification code",
			zap.String("request_id", rc.RequestID),
			zap.String("code_id", vc.ID),
			zap.Error(err),
		)
	}
}

func (a *Auth) link(path, code string) string {
	return a.frontendURL + path + "?code=" + code
}

// A code consumed between lookup and consume is reported like any other
// invalid code
func consumeErr(err error, invalidMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NewBadRequest(invalidMsg)
	}

	return apperr.Wrap(err, "failed to consume code")
}
