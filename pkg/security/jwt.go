package security

import (
	"errors"
	"time"

	"linx/social-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and checks HS256 bearer tokens. It holds no state
// besides the secret, so there is nothing to revoke.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}

	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue returns a token whose subject is u.ID
func (t *TokenIssuer) Issue(u *model.User) (string, error) {
	now := t.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})

	return token.SignedString(t.secret)
}

// Validate checks the signature and expiry of tokenStr. Every failure is
// reported as ErrInvalidToken.
func (t *TokenIssuer) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
