package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDCommutative(t *testing.T) {
	a := ConversationID("alice@ufl.edu", "bob@ufl.edu")
	b := ConversationID("bob@ufl.edu", "alice@ufl.edu")

	assert.Equal(t, a, b)
	assert.Equal(t, "alice@ufl.edu_bob@ufl.edu", a)
}

func TestConversationIDCaseInsensitive(t *testing.T) {
	a := ConversationID("Alice@UFL.edu", "BOB@ufl.edu")
	b := ConversationID("alice@ufl.edu", "bob@ufl.edu")

	assert.Equal(t, b, a)
}

func TestConversationIDDistinctPairs(t *testing.T) {
	pairs := [][2]string{
		{"alice@ufl.edu", "bob@ufl.edu"},
		{"alice@ufl.edu", "carol@ufl.edu"},
		{"bob@ufl.edu", "carol@ufl.edu"},
	}

	seen := make(map[string]bool)
	for _, p := range pairs {
		id := ConversationID(p[0], p[1])
		assert.False(t, seen[id], "conversation ID collision for %v", p)
		seen[id] = true
	}
}
