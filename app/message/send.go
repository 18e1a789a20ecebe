package message

import (
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type sendBody struct {
	SenderEmail   string `json:"senderEmail"`
	ReceiverEmail string `json:"receiverEmail"`
	ItemID        string `json:"itemId"`
	Content       string `json:"content"`
}

func MessageSend(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data sendBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.SenderEmail == "" || data.ReceiverEmail == "" || strings.TrimSpace(data.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Sender email, receiver email, and content are required",
			"requestID": requestID,
		})
		return
	}

	var sender model.User

	err := d.DB.Where("email = ?", strings.ToLower(data.SenderEmail)).First(&sender).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Sender not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to send message",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up sender", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var receiver model.User

	err = d.DB.Where("email = ?", strings.ToLower(data.ReceiverEmail)).First(&receiver).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Receiver not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to send message",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up receiver", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	messageID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to send message",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate message ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	msg := model.Message{
		ID:             messageID,
		ConversationID: service.ConversationID(sender.Email, receiver.Email),
		SenderID:       sender.ID,
		SenderEmail:    sender.Email,
		SenderName:     sender.Name,
		ReceiverID:     receiver.ID,
		ReceiverEmail:  receiver.Email,
		ReceiverName:   receiver.Name,
		Content:        strings.TrimSpace(data.Content),
		Read:           false,
	}

	// Item context is best effort, a dangling item ID just sends the
	// message without it
	if data.ItemID != "" {
		var it model.Item
		if err := d.DB.Where("id = ?", data.ItemID).First(&it).Error; err == nil {
			msg.ItemID = &it.ID
			msg.ItemName = it.Name
		}
	}

	if err := d.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Failed to send message",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save message", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
	})
}
