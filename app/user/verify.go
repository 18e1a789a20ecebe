package user

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const failPage = `<html>
	<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
		<h1>Verification Failed</h1>
		<p>This verification link is invalid or has expired.</p>
		<p>Please request a new verification email.</p>
	</body>
</html>`

const successPage = `<html>
	<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
		<h1>Email Verified Successfully!</h1>
		<p>Your account has been verified.</p>
		<p>You can now close this window and log in to your account.</p>
		<a href="%v/login" style="display: inline-block; margin-top: 20px; padding: 10px 20px;">Go to Login</a>
	</body>
</html>`

const errorPage = `<html>
	<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
		<h1>Error</h1>
		<p>An error occurred while verifying your email.</p>
	</body>
</html>`

// UserVerify consumes a verification link from the mail. It responds
// with HTML because the link is opened in a browser, not by the SPA.
func UserVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.Param("token")
	if token == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(failPage))
		return
	}

	var verifRecord model.VerificationToken

	err := d.DB.
		Where("token = ? AND purpose = ?", token, "email_verify").
		First(&verifRecord).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(failPage))
			return
		}

		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(errorPage))

		zap.L().Error("Failed to get verification token record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if verifRecord.Used || verifRecord.ExpiresAt.Before(time.Now()) {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(failPage))
		return
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.VerificationToken{}).
			Where("id = ?", verifRecord.ID).
			Updates(map[string]any{
				"used":    true,
				"used_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", verifRecord.UserID).
			Updates(map[string]any{
				"verified":   true,
				"expires_at": nil,
			}).Error
	})
	if err != nil {
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(errorPage))

		zap.L().Error("Failed to update user and token in transaction", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	page := fmt.Sprintf(successPage, viper.GetString("host.frontend_url"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
