package rating

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ratingResponse struct {
	model.Rating
	ReviewerName string `json:"reviewerName"`
	ListingName  string `json:"listingName,omitempty"`
}

// populate joins reviewer and listing names onto a set of ratings.
// Ratings outlive listings, so a deleted listing just leaves the name
// blank.
func populate(db *gorm.DB, ratings []model.Rating) ([]ratingResponse, error) {
	reviewerIDs := make([]string, 0, len(ratings))
	listingIDs := make([]string, 0, len(ratings))

	for _, r := range ratings {
		reviewerIDs = append(reviewerIDs, r.ReviewerID)
		listingIDs = append(listingIDs, r.ListingID)
	}

	names := make(map[string]string)

	if len(reviewerIDs) > 0 {
		var users []model.User
		if err := db.Where("id IN ?", reviewerIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	listingNames := make(map[string]string)

	if len(listingIDs) > 0 {
		var items []model.Item
		if err := db.Where("id IN ?", listingIDs).Find(&items).Error; err != nil {
			return nil, err
		}
		for _, it := range items {
			listingNames[it.ID] = it.Name
		}
	}

	out := make([]ratingResponse, len(ratings))
	for i, r := range ratings {
		out[i] = ratingResponse{
			Rating:       r,
			ReviewerName: names[r.ReviewerID],
			ListingName:  listingNames[r.ListingID],
		}
	}

	return out, nil
}

// RatingsForUser lists the reviews a user has received, newest first.
func RatingsForUser(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	userID := c.Param("userId")

	var ratings []model.Rating

	err := d.DB.
		Where("reviewee_id = ?", userID).
		Order("created_at desc").
		Find(&ratings).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user ratings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out, err := populate(d.DB, ratings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to populate ratings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, out)
}

// RatingsForListing lists the reviews filed against one listing,
// newest first.
func RatingsForListing(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	listingID := c.Param("listingId")

	var ratings []model.Rating

	err := d.DB.
		Where("listing_id = ?", listingID).
		Order("created_at desc").
		Find(&ratings).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch listing ratings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out, err := populate(d.DB, ratings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to populate ratings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, out)
}

// UserInfo returns a user's public record, aggregates included.
func UserInfo(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	userID := c.Param("userId")

	var user model.User

	err := d.DB.Where("id = ?", userID).First(&user).Error
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

		zap.L().Error("Failed to fetch user info", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, user)
}
