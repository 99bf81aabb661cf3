package security

import (
	"strings"
	"testing"
	"time"

	"linx/social-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters so the suite stays fast
func testHasher() *ArgonHash {
	return &ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestArgonRoundTrip(t *testing.T) {
	a := testHasher()

	for _, p := range []string{"secret123", "x", "pässwörd with spaces"} {
		enc, err := a.Hash(p)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(enc, "$argon2id$v=19$"))

		ok, err := a.Verify(p, enc)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", p)

		ok, err = a.Verify(p+"!", enc)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestArgonSaltsDiffer(t *testing.T) {
	a := testHasher()

	h1, err := a.Hash("same")
	require.NoError(t, err)
	h2, err := a.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestArgonVerifyMalformed(t *testing.T) {
	a := testHasher()

	_, err := a.Verify("p", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = a.Verify("p", "$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestMakeVerificationCode(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	c, err := MakeVerificationCode(&VerificationCodeOpts{
		UserID: "u1",
		Email:  "ana@x.com",
		Type:   model.CodePasswordReset,
		TTL:    15 * time.Minute,
		Now:    now,
	})
	require.NoError(t, err)

	assert.Len(t, c.Code, 64)
	assert.Equal(t, now.Add(15*time.Minute), c.ExpiresAt)
	assert.False(t, c.Expired(now.Add(15*time.Minute)))
	assert.True(t, c.Expired(now.Add(15*time.Minute+time.Second)))

	_, err = MakeVerificationCode(&VerificationCodeOpts{UserID: "u1", Type: model.CodePasswordReset})
	assert.Error(t, err)

	_, err = MakeVerificationCode(nil)
	assert.Error(t, err)
}

func TestTokenIssueAndValidate(t *testing.T) {
	now := time.Now()
	issuer := NewTokenIssuer("super-secret", 7*24*time.Hour, func() time.Time { return now })

	tok, err := issuer.Issue(&model.User{ID: "01HUSER", Email: "ana@x.com"})
	require.NoError(t, err)

	claims, err := issuer.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "01HUSER", claims.Subject)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	clock := now

	issuer := NewTokenIssuer("s", time.Hour, func() time.Time { return clock })
	tok, err := issuer.Issue(&model.User{ID: "u"})
	require.NoError(t, err)

	clock = now.Add(2 * time.Hour)

	_, err = issuer.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecretAndGarbage(t *testing.T) {
	tok, err := NewTokenIssuer("right", time.Hour, nil).Issue(&model.User{ID: "u"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong", time.Hour, nil).Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("right", time.Hour, nil).Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
