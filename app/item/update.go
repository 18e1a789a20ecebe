package item

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/pkg/validators"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ItemUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	itemID := c.Param("id")
	ownerEmail := strings.ToLower(c.PostForm("ownerEmail"))

	if ownerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "ownerEmail is required",
			"requestID": requestID,
		})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))

	if name == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Name and description are required",
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

	var current model.Item

	err = d.DB.Where("id = ?", itemID).First(&current).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Item not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch listing", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if current.OwnerEmail != ownerEmail {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Not authorized to edit this item",
			"requestID": requestID,
		})
		return
	}

	// The client sends back the subset of stored images it wants to
	// keep. Only images that actually belong to this item are accepted,
	// a client can't smuggle in arbitrary data URIs through the
	// keep-list
	images := model.ImageList{}

	if existing := c.PostForm("existingImages"); existing != "" {
		var keep model.ImageList
		if err := json.Unmarshal([]byte(existing), &keep); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Malformed existingImages list",
				"requestID": requestID,
			})
			return
		}

		stored := make(map[string]model.Image, len(current.Images))
		for _, img := range current.Images {
			stored[img.URL] = img
		}

		for _, img := range keep {
			kept, ok := stored[img.URL]
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "existingImages contains an image that does not belong to this item",
					"requestID": requestID,
				})
				return
			}

			images = append(images, kept)
		}
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

	// The cap applies to kept plus new images combined
	maxImages := viper.GetInt("upload.max_images")
	if len(images)+len(files) > maxImages {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     validators.ErrTooManyImages.Error(),
			"requestID": requestID,
		})
		return
	}

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

	// Conditional write keyed on the owner so the ownership check and
	// the mutation are one atomic statement
	res := d.DB.
		Model(&model.Item{}).
		Where("id = ? AND owner_email = ?", itemID, ownerEmail).
		Updates(map[string]any{
			"name":        name,
			"description": description,
			"hourly_rate": hourlyRate,
			"images":      images,
			"start_date":  startDate,
			"end_date":    endDate,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to update item",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update listing", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		// The item was deleted or changed hands between the read and
		// the write
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Item not found",
			"requestID": requestID,
		})
		return
	}

	var updated model.Item
	if err := d.DB.Where("id = ?", itemID).First(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to update item",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload listing after update", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    updated,
	})
}
