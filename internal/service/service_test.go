package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/store"
	"linx/social-api/internal/testutil"
	"linx/social-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

var codeRe = regexp.MustCompile(`\?code=([0-9a-f]+)`)

// lastCode pulls the code out of the link in the newest mail
func (f *fakeNotifier) lastCode(t *testing.T) string {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.sent, "no mail was sent")

	m := codeRe.FindStringSubmatch(f.sent[len(f.sent)-1].HTML)
	require.Len(t, m, 2, "mail has no code link")

	return m[1]
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type fakeObjects struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeObjects) PresignPut(_ context.Context, key, _ string, _ int64, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return "https://bucket.test/put/" + key, nil
}

func (f *fakeObjects) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return "https://bucket.test/get/" + key, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.deleted = append(f.deleted, key)
	return nil
}

type fixture struct {
	db     *gorm.DB
	store  *store.Store
	mail   *fakeNotifier
	clock  *fakeClock
	tokens *security.TokenIssuer
	auth   *Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:    db,
		store: store.New(db),
		mail:  &fakeNotifier{},
		clock: newClock(),
	}

	f.tokens = security.NewTokenIssuer("test-secret", time.Hour, f.clock.Now)
	f.auth = NewAuth(AuthOpts{
		Users:       f.store,
		Codes:       f.store,
		Hasher:      &security.ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		Tokens:      f.tokens,
		Notifier:    f.mail,
		Clock:       f.clock.Now,
		FrontendURL: "https://linx.test/",
	})

	return f
}

// signup creates a user and returns a request context acting as them
func (f *fixture) signup(t *testing.T, name, email string) reqctx.RequestContext {
	t.Helper()

	res, err := f.auth.Signup(context.Background(), reqctx.RequestContext{}, SignupInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)

	return reqctx.New("req", res.User.ID)
}

func assertKind(t *testing.T, err error, k apperr.Kind) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, k, apperr.KindOf(err), "unexpected error: %v", err)
}

var errBoom = errors.New("boom")
