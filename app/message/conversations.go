// Package message contains the direct-messaging endpoints. Threads are
// keyed by a conversation ID derived from the two participant emails,
// there is no separate conversation table.
package message

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type conversation struct {
	ConversationID string        `json:"conversationId"`
	LastMessage    model.Message `json:"lastMessage"`
	UnreadCount    int           `json:"unreadCount"`
}

// ConversationList groups a user's messages into threads: the most
// recent message represents each thread, unread counts only messages
// addressed to the user. Ordered by last activity, newest first.
func ConversationList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	userEmail := strings.ToLower(c.Param("userEmail"))

	var msgs []model.Message

	err := d.DB.
		Where("sender_email = ? OR receiver_email = ?", userEmail, userEmail).
		Order("created_at desc").
		Find(&msgs).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to fetch conversations",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch messages", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Messages arrive newest first, so the first message seen per
	// thread is its representative and threads come out already sorted
	// by last activity
	conversations := []conversation{}
	index := make(map[string]int)

	for _, m := range msgs {
		i, ok := index[m.ConversationID]
		if !ok {
			index[m.ConversationID] = len(conversations)
			conversations = append(conversations, conversation{
				ConversationID: m.ConversationID,
				LastMessage:    m,
			})
			i = len(conversations) - 1
		}

		if m.ReceiverEmail == userEmail && !m.Read {
			conversations[i].UnreadCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"conversations": conversations,
	})
}
