package item

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ItemFetchAll(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var items []model.Item

	err := d.DB.
		Order("created_at desc").
		Find(&items).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch items",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch listings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out, err := attachOwners(d.DB, items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch items",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch listing owners", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, out)
}

func ItemFetchByUser(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	email := strings.ToLower(c.Param("email"))

	var items []model.Item

	err := d.DB.
		Where("owner_email = ?", email).
		Order("created_at desc").
		Find(&items).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch user items",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user listings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, items)
}

func ItemFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	itemID := c.Param("id")

	var it model.Item

	err := d.DB.Where("id = ?", itemID).First(&it).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Item not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch item",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch listing", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out, err := attachOwners(d.DB, []model.Item{it})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch item",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch listing owner", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, out[0])
}
