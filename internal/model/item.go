package model

import "time"

type Item struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"not null" json:"description"`
	HourlyRate  float64 `gorm:"not null" json:"hourlyRate"`

	// Stored inline as base64 data URIs, capped at the configured
	// image count. No external object storage
	Images ImageList `json:"images"`

	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`

	OwnerID    string `gorm:"index;not null" json:"ownerId"`
	OwnerEmail string `gorm:"index;not null" json:"ownerEmail"`
	OwnerName  string `gorm:"not null" json:"ownerName"`

	CreatedAt time.Time `json:"createdAt"`
}
