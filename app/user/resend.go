package user

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/pkg/security"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resendCooldown = time.Minute

type resendBody struct {
	Email string `json:"email"`
}

func UserResendVerification(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Email field can't be empty",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := d.DB.Where("email = ?", strings.ToLower(data.Email)).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "No account found with this email",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.Verified {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "This email is already verified. You can log in now",
		})
		return
	}

	// Throttle per user, the relay won't appreciate a retry loop
	var resend model.ResendRequest

	err = d.DB.Where("user_id = ?", user.ID).First(&resend).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up resend record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err == nil && (resend.Blocked || time.Now().Before(resend.Cooldown)) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success":   false,
			"error":     "Please wait before requesting another verification email",
			"requestID": requestID,
		})
		return
	}

	expireAt := time.Now().Add(time.Hour * 24)
	cleanAt := time.Now().Add(time.Hour * 24 * 60)

	verifToken, err := security.MakeVerificationToken(&security.VerificationTokenOpts{
		UserID:    user.ID,
		Purpose:   "email_verify",
		ExpiresAt: &expireAt,
		CleanupAt: &cleanAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Mail.SendVerification(verifToken, user.Email, user.Name, user.IsOrganization); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Error sending verification email",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(verifToken).Error; err != nil {
			return err
		}

		record := model.ResendRequest{
			UserID:     user.ID,
			LastResend: time.Now(),
			Cooldown:   time.Now().Add(resendCooldown),
		}

		if resend.ID != 0 {
			record.ID = resend.ID
			return tx.Save(&record).Error
		}

		return tx.Create(&record).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store new verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification email sent. Please check your inbox",
	})
}
