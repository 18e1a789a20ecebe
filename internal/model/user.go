// Package model defines database models
package model

import "time"

type User struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"not null" json:"name"`
	Email          string `gorm:"unique;not null" json:"email"`
	PasswordHash   string `gorm:"not null" json:"-"`
	Verified       bool   `gorm:"default:false" json:"isVerified"`
	IsOrganization bool   `gorm:"default:false" json:"isOrganization"`

	// Derived from the ratings table on every new rating. Kept on the
	// user row so listing pages don't have to aggregate on read
	AverageRating float64 `gorm:"default:0" json:"averageRating"`
	RatingCount   int     `gorm:"default:0" json:"ratingCount"`

	// Unverified accounts expire and get cleaned up
	ExpiresAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`

	VerificationTokens []VerificationToken `gorm:"foreignKey:UserID" json:"-"`
	Items              []Item              `gorm:"foreignKey:OwnerID" json:"-"`
	ResendRequests     ResendRequest       `gorm:"foreignKey:UserID" json:"-"`
}
