package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendVerificationCooldown(t *testing.T) {
	d, mail := newTestDeps(t)
	r := newTestRouter(d)

	w, _ := doJSON(t, r, "POST", "/register", gin.H{
		"name":     "Albert Gator",
		"email":    "albert@ufl.edu",
		"password": "swampwater",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mail.tokens, 1)

	// First resend goes through and issues a fresh token
	w, _ = doJSON(t, r, "POST", "/resend-verification", gin.H{"email": "albert@ufl.edu"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mail.tokens, 2)
	assert.NotEqual(t, mail.tokens[0], mail.tokens[1])

	// An immediate retry hits the cooldown
	w, _ = doJSON(t, r, "POST", "/resend-verification", gin.H{"email": "albert@ufl.edu"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Len(t, mail.tokens, 2)

	// Both issued tokens stay valid, either one verifies the account
	req := httptest.NewRequest("GET", "/verify/"+mail.tokens[1], nil)
	vw := httptest.NewRecorder()
	r.ServeHTTP(vw, req)
	assert.Equal(t, http.StatusOK, vw.Code)
}

func TestResendVerificationUnknownOrVerified(t *testing.T) {
	d, mail := newTestDeps(t)
	r := newTestRouter(d)

	w, _ := doJSON(t, r, "POST", "/resend-verification", gin.H{"email": "ghost@ufl.edu"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, _ = doJSON(t, r, "POST", "/register", gin.H{
		"name":     "Albert Gator",
		"email":    "albert@ufl.edu",
		"password": "swampwater",
	})

	req := httptest.NewRequest("GET", "/verify/"+mail.tokens[0], nil)
	vw := httptest.NewRecorder()
	r.ServeHTTP(vw, req)
	require.Equal(t, http.StatusOK, vw.Code)

	// A verified account gets a friendly no-op instead of another mail
	w, body := doJSON(t, r, "POST", "/resend-verification", gin.H{"email": "albert@ufl.edu"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, mail.tokens, 1)
}
