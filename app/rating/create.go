// Package rating contains the review endpoints and aggregate upkeep
package rating

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type createBody struct {
	ListingID string `json:"listingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type aggregate struct {
	Count int
	Total int
}

// RatingCreate files a review against a listing's owner. The insert
// and the reviewee's aggregate recompute run in one transaction so
// concurrent reviews can't leave the denormalized fields behind the
// ratings table.
func RatingCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	reviewerID := c.MustGet("userID").(string)

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Rating < 1 || data.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Rating must be between 1 and 5",
			"requestID": requestID,
		})
		return
	}

	var listing model.Item

	err := d.DB.Where("id = ?", data.ListingID).First(&listing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Listing not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up listing", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	revieweeID := listing.OwnerID

	if revieweeID == reviewerID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "You cannot rate your own listing",
			"requestID": requestID,
		})
		return
	}

	ratingID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate rating ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	newRating := model.Rating{
		ID:         ratingID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		ListingID:  listing.ID,
		Rating:     data.Rating,
		Comment:    data.Comment,
	}

	var agg aggregate

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRating).Error; err != nil {
			return err
		}

		// Full recompute over the reviewee's ratings. Cheap at this
		// scale and immune to drift, unlike an incremental mean
		err := tx.
			Model(&model.Rating{}).
			Where("reviewee_id = ?", revieweeID).
			Select("count(*) as count, coalesce(sum(rating), 0) as total").
			Scan(&agg).
			Error
		if err != nil {
			return err
		}

		average := 0.0
		if agg.Count > 0 {
			average = float64(agg.Total) / float64(agg.Count)
		}

		return tx.
			Model(&model.User{}).
			Where("id = ?", revieweeID).
			Updates(map[string]any{
				"average_rating": average,
				"rating_count":   agg.Count,
			}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save rating", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"rating": newRating,
		"newStats": gin.H{
			"averageRating": float64(agg.Total) / float64(agg.Count),
			"ratingCount":   agg.Count,
		},
	})
}
