package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredCodeSweeper is implemented by *store.Store
type ExpiredCodeSweeper interface {
	DeleteExpiredCodes(ctx context.Context, t time.Time) (int64, error)
}

// CodeCleanup periodically removes verification codes that expired.
// Codes are also dropped when someone tries to use them after expiry, this
// catches the ones nobody came back for. Returns when ctx is done.
func CodeCleanup(ctx context.Context, t time.Duration, s ExpiredCodeSweeper) {
	ticker := time.NewTicker(t)
	defer ticker.Stop()

	zap.L().Debug("Code cleanup attached", zap.Duration("tick_every", t))

	for {
		select {
		case <-ctx.Done():
			zap.L().Debug("Code cleanup stopped")
			return
		case <-ticker.C:
			SweepCodes(ctx, s, time.Now().UTC())
		}
	}
}

// SweepCodes runs one cleanup pass
func SweepCodes(ctx context.Context, s ExpiredCodeSweeper, now time.Time) int64 {
	n, err := s.DeleteExpiredCodes(ctx, now)
	if err != nil {
		zap.L().Error("Failed to cleanup expired codes", zap.Error(err))
		return 0
	}

	if n > 0 {
		zap.L().Debug("Cleaned up expired codes", zap.Int64("count", n))
	}

	return n
}
