package service

import (
	"campusswap/market-api/internal/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenCleanup periodically deletes verification tokens that are past
// their cleanup timestamp. Expired but uncollected tokens are kept for
// a while so resend flows can tell "expired" apart from "never existed".
func TokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			sweepTokens(db)
		}
	}()
}

func sweepTokens(db *gorm.DB) {
	res := db.
		Where("cleanup_at IS NOT NULL AND cleanup_at < ?", time.Now()).
		Delete(&model.VerificationToken{})
	if res.Error != nil {
		zap.L().Error("Failed to cleanup verification tokens", zap.Error(res.Error))
		return
	}

	if res.RowsAffected > 0 {
		zap.L().Debug("Cleaned up dead verification tokens", zap.Int64("count", res.RowsAffected))
	}
}
