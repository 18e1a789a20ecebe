package message

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConversationDelete removes every message in a thread for both
// participants. There is no per-user soft delete.
func ConversationDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	conversationID := c.Param("conversationId")

	res := d.DB.
		Where("conversation_id = ?", conversationID).
		Delete(&model.Message{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to delete conversation",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete conversation", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Deleted %d messages", res.RowsAffected),
	})
}
