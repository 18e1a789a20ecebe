package message

import (
	"campusswap/market-api/internal"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type markReadBody struct {
	UserEmail string `json:"userEmail"`
}

func ConversationMarkRead(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	conversationID := c.Param("conversationId")

	var data markReadBody
	if err := c.ShouldBind(&data); err != nil || data.UserEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "userEmail is required",
			"requestID": requestID,
		})
		return
	}

	err := markRead(d.DB, conversationID, strings.ToLower(data.UserEmail))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to mark messages as read",
			"requestID": requestID,
		})

		zap.L().Error("Failed to mark conversation as read", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
