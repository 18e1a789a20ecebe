package user

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/pkg/validators"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type profileUpdateBody struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func ProfileUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data profileUpdateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || strings.TrimSpace(data.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Email and name are required",
			"requestID": requestID,
		})
		return
	}

	updates := map[string]any{
		"name": strings.TrimSpace(data.Name),
	}

	// Only touch the password when a new one was supplied
	if strings.TrimSpace(data.Password) != "" {
		if err := validators.PasswordValidator(data.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":   false,
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		hash, err := d.Argon.GenerateFromPassword(data.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		updates["password_hash"] = hash
	}

	res := d.DB.
		Model(&model.User{}).
		Where("email = ?", strings.ToLower(data.Email)).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update profile", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success":   false,
			"error":     "User not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user": gin.H{
			"name":  updates["name"],
			"email": strings.ToLower(data.Email),
		},
	})
}

func ProfileFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	email := strings.ToLower(c.Param("email"))

	var user model.User

	err := d.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"name":          user.Name,
			"email":         user.Email,
			"isVerified":    user.Verified,
			"averageRating": user.AverageRating,
			"ratingCount":   user.RatingCount,
			"createdAt":     user.CreatedAt,
		},
	})
}
