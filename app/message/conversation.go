package message

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConversationFetch returns a thread oldest first. Reading a thread
// marks everything addressed to the requester as read in the same
// request, the client never has to remember a separate call.
func ConversationFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	conversationID := c.Param("conversationId")
	userEmail := strings.ToLower(c.Query("userEmail"))

	var msgs []model.Message

	err := d.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Find(&msgs).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to fetch messages",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch conversation", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if userEmail != "" {
		err = markRead(d.DB, conversationID, userEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Failed to fetch messages",
				"requestID": requestID,
			})

			zap.L().Error("Failed to mark conversation as read", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": msgs,
	})
}

// markRead flips the read flag on all and only the messages where the
// given user is the receiver. Messages the user sent are untouched.
func markRead(db *gorm.DB, conversationID, userEmail string) error {
	return db.
		Model(&model.Message{}).
		Where("conversation_id = ? AND receiver_email = ? AND read = ?", conversationID, userEmail, false).
		Update("read", true).
		Error
}
