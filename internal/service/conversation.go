// Package service holds logic shared between handlers and background jobs
package service

import (
	"sort"
	"strings"
)

// ConversationID derives the stable conversation key for two users.
// Both emails are lowercased and sorted so the same pair always maps
// to the same conversation no matter who initiates. Conversations are
// therefore limited to exactly two participants.
func ConversationID(user1Email, user2Email string) string {
	emails := []string{strings.ToLower(user1Email), strings.ToLower(user2Email)}
	sort.Strings(emails)
	return emails[0] + "_" + emails[1]
}
