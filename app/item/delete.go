package item

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deleteBody struct {
	OwnerEmail string `json:"ownerEmail"`
}

func ItemDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	itemID := c.Param("id")

	var data deleteBody
	if err := c.ShouldBind(&data); err != nil || data.OwnerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "ownerEmail is required",
			"requestID": requestID,
		})
		return
	}

	ownerEmail := strings.ToLower(data.OwnerEmail)

	// Delete-where-owner-matches, the check and the mutation are one
	// statement
	res := d.DB.
		Where("id = ? AND owner_email = ?", itemID, ownerEmail).
		Delete(&model.Item{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to delete item",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete listing", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		// Tell ownership failures apart from missing items for the
		// client's sake
		var exists bool
		err := d.DB.
			Model(model.Item{}).
			Select("count(*) > 0").
			Where("id = ?", itemID).
			Find(&exists).
			Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Failed to delete item",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if listing exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Not authorized to delete this item",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Item not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item deleted successfully!",
	})
}
