package message

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConversationExists lets the client probe whether two users have
// history before opening a chat window. A missing thread is a normal
// answer, not an error, so starting a fresh conversation renders an
// empty message list.
func ConversationExists(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	user1Email := c.Query("user1Email")
	user2Email := c.Query("user2Email")

	if user1Email == "" || user2Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Both user emails are required",
			"requestID": requestID,
		})
		return
	}

	conversationID := service.ConversationID(user1Email, user2Email)

	var msgs []model.Message

	err := d.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Find(&msgs).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to check conversation",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check conversation", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"exists":         len(msgs) > 0,
		"conversationId": conversationID,
		"messages":       msgs,
	})
}
