package security

import (
	"errors"
	"time"

	"linx/social-api/internal/model"
	"linx/social-api/pkg/util"
)

const codeSize = 32

type VerificationCodeOpts struct {
	UserID string
	Email  string
	Type   model.CodeType
	TTL    time.Duration
	Now    time.Time
}

// MakeVerificationCode returns a new single-use code. The code value is
// 256 bits from crypto/rand so it can't be guessed from its neighbours.
func MakeVerificationCode(o *VerificationCodeOpts) (*model.VerificationCode, error) {
	if o == nil {
		return nil, errors.New("no code options provided")
	}

	if o.UserID == "" {
		return nil, errors.New("no user ID provided")
	}

	if o.Type == "" {
		return nil, errors.New("no code type provided")
	}

	if o.TTL <= 0 {
		return nil, errors.New("no expiry provided")
	}

	code, err := util.GenerateToken(codeSize)
	if err != nil {
		return nil, err
	}

	return &model.VerificationCode{
		ID:        util.NewID(),
		Code:      code,
		Type:      o.Type,
		UserID:    o.UserID,
		Email:     o.Email,
		ExpiresAt: o.Now.Add(o.TTL),
		CreatedAt: o.Now,
	}, nil
}
