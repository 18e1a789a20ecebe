package service

import (
	"campusswap/market-api/internal/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountCleanup deletes accounts that never verified their email
// within the registration grace period, together with everything that
// hangs off them.
func AccountCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			sweepAccounts(db)
		}
	}()
}

func sweepAccounts(db *gorm.DB) {
	var toClean []string

	err := db.
		Model(model.User{}).
		Where("verified = ? AND expires_at IS NOT NULL AND expires_at < ?", false, time.Now()).
		Pluck("id", &toClean).
		Error
	if err != nil {
		zap.L().Error("Failed to query db for users to clean", zap.Error(err))
		return
	}

	if len(toClean) == 0 {
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", toClean).Delete(&model.VerificationToken{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id IN ?", toClean).Delete(&model.ResendRequest{}).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_id IN ?", toClean).Delete(&model.Item{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", toClean).Delete(&model.User{}).Error
	})
	if err != nil {
		zap.L().Error("Failed to delete expired accounts", zap.Error(err))
		return
	}

	zap.L().Debug("Account cleanup finished", zap.Int("deleted", len(toClean)))
}
