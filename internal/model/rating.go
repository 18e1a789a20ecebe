package model

import "time"

// Ratings are immutable once written. There is no update or delete
// path anywhere in the app
type Rating struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	ReviewerID string    `gorm:"index;not null" json:"reviewerId"`
	RevieweeID string    `gorm:"index;not null" json:"revieweeId"`
	ListingID  string    `gorm:"index;not null" json:"listingId"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}
