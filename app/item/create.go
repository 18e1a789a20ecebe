package item

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/pkg/validators"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func ItemCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	ownerEmail := strings.ToLower(c.PostForm("ownerEmail"))

	if name == "" || description == "" || ownerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Name, description and ownerEmail are required",
			"requestID": requestID,
		})
		return
	}

	hourlyRate, err := strconv.ParseFloat(c.PostForm("hourlyRate"), 64)
	if err != nil || hourlyRate < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid hourly rate provided",
			"requestID": requestID,
		})
		return
	}

	startDate, okStart := parseDate(c.PostForm("startDate"))
	endDate, okEnd := parseDate(c.PostForm("endDate"))
	if !okStart || !okEnd {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Start date and end date are required",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed multipart form",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	files := form.File["images"]

	maxImages := viper.GetInt("upload.max_images")
	if len(files) > maxImages {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     validators.ErrTooManyImages.Error(),
			"requestID": requestID,
		})
		return
	}

	images := make(model.ImageList, 0, len(files))

	for _, fh := range files {
		code, img, err := validators.ImageValidator(fh)
		if err != nil {
			c.JSON(code, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		images = append(images, img)
	}

	var owner model.User

	err = d.DB.Where("email = ?", ownerEmail).First(&owner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up listing owner", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	itemID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate item ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	newItem := model.Item{
		ID:          itemID,
		Name:        name,
		Description: description,
		HourlyRate:  hourlyRate,
		Images:      images,
		StartDate:   startDate,
		EndDate:     endDate,
		OwnerID:     owner.ID,
		OwnerEmail:  owner.Email,
		OwnerName:   owner.Name,
	}

	if err := d.DB.Create(&newItem).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to create item listing",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save listing", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    newItem,
	})
}
