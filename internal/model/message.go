package model

import "time"

type Message struct {
	ID string `gorm:"primaryKey" json:"id"`

	// Derived from the two participant emails, never stored on its own.
	// See service.ConversationID
	ConversationID string `gorm:"index:idx_conversation,priority:1;not null" json:"conversationId"`

	SenderID    string `gorm:"not null" json:"senderId"`
	SenderEmail string `gorm:"index;not null" json:"senderEmail"`
	SenderName  string `gorm:"not null" json:"senderName"`

	ReceiverID    string `gorm:"not null" json:"receiverId"`
	ReceiverEmail string `gorm:"index;not null" json:"receiverEmail"`
	ReceiverName  string `gorm:"not null" json:"receiverName"`

	// Optional context about which item was being discussed
	ItemID   *string `json:"itemId,omitempty"`
	ItemName string  `json:"itemName,omitempty"`

	Content   string    `gorm:"not null" json:"content"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"index:idx_conversation,priority:2" json:"createdAt"`
}
