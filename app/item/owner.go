// Package item contains the listing endpoints
package item

import (
	"campusswap/market-api/internal/model"
	"time"

	"gorm.io/gorm"
)

// ownerInfo is the slice of the owner's user record that listing pages
// need. averageRating/ratingCount live denormalized on the user row so
// this stays a plain lookup.
type ownerInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
}

type itemResponse struct {
	model.Item
	Owner *ownerInfo `json:"owner,omitempty"`
}

// attachOwners joins the owners' public fields onto a set of items
// with a single query.
func attachOwners(db *gorm.DB, items []model.Item) ([]itemResponse, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, it := range items {
		if !seen[it.OwnerID] {
			seen[it.OwnerID] = true
			ids = append(ids, it.OwnerID)
		}
	}

	owners := make(map[string]ownerInfo, len(ids))

	if len(ids) > 0 {
		var users []model.User
		if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}

		for _, u := range users {
			owners[u.ID] = ownerInfo{
				ID:            u.ID,
				Name:          u.Name,
				AverageRating: u.AverageRating,
				RatingCount:   u.RatingCount,
			}
		}
	}

	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemResponse{Item: it}
		if o, ok := owners[it.OwnerID]; ok {
			out[i].Owner = &o
		}
	}

	return out, nil
}

// Listing dates come from an HTML date input or a JS Date serializer
// depending on the client form
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
