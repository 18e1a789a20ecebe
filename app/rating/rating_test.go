package rating

import (
	"bytes"
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/pkg/middleware"
	"campusswap/market-api/pkg/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDeps(t *testing.T) *internal.Deps {
	t.Helper()

	conn, err := gorm.Open(
		sqlite.Open("file:"+util.RandStr(8)+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		model.User{},
		model.Item{},
		model.Rating{},
	))

	return &internal.Deps{DB: conn}
}

// asUser stands in for the JWT middleware and pins the authenticated
// user for the request
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newTestRouter(d *internal.Deps, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	r.POST("/ratings", asUser(userID), func(c *gin.Context) { RatingCreate(c, d) })
	r.GET("/ratings/user/:userId", func(c *gin.Context) { RatingsForUser(c, d) })
	r.GET("/ratings/listing/:listingId", func(c *gin.Context) { RatingsForListing(c, d) })
	r.GET("/ratings/user-info/:userId", func(c *gin.Context) { UserInfo(c, d) })

	return r
}

func seedUser(t *testing.T, d *internal.Deps, id, name, email string) model.User {
	t.Helper()

	u := model.User{ID: id, Name: name, Email: email, PasswordHash: "secret-hash", Verified: true}
	require.NoError(t, d.DB.Create(&u).Error)

	return u
}

func seedListing(t *testing.T, d *internal.Deps, owner model.User, id string) model.Item {
	t.Helper()

	it := model.Item{
		ID: id, Name: "Kayak", Description: "x", HourlyRate: 5,
		OwnerID: owner.ID, OwnerEmail: owner.Email, OwnerName: owner.Name,
	}
	require.NoError(t, d.DB.Create(&it).Error)

	return it
}

func postRating(t *testing.T, r *gin.Engine, listingID string, score int, comment string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(gin.H{"listingId": listingID, "rating": score, "comment": comment})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/ratings", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))

	return w, parsed
}

func TestRatingAggregates(t *testing.T) {
	d := newTestDeps(t)
	owner := seedUser(t, d, "ownerAAAA", "Albert Gator", "albert@ufl.edu")
	seedUser(t, d, "raterBBBB", "Alberta Gator", "alberta@ufl.edu")
	listing := seedListing(t, d, owner, "itemAAAA")

	r := newTestRouter(d, "raterBBBB")

	scores := []int{5, 3, 4}
	var last map[string]any
	for _, s := range scores {
		w, body := postRating(t, r, listing.ID, s, "fine")
		require.Equal(t, http.StatusCreated, w.Code)
		last = body
	}

	stats := last["newStats"].(map[string]any)
	assert.Equal(t, 4.0, stats["averageRating"])
	assert.EqualValues(t, 3, stats["ratingCount"])

	// The denormalized fields on the user row must agree with the table
	var reviewee model.User
	require.NoError(t, d.DB.Where("id = ?", owner.ID).First(&reviewee).Error)
	assert.Equal(t, 4.0, reviewee.AverageRating)
	assert.Equal(t, 3, reviewee.RatingCount)

	var count int64
	require.NoError(t, d.DB.Model(model.Rating{}).Where("reviewee_id = ?", owner.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestRatingRejectsSelfReview(t *testing.T) {
	d := newTestDeps(t)
	owner := seedUser(t, d, "ownerAAAA", "Albert Gator", "albert@ufl.edu")
	listing := seedListing(t, d, owner, "itemAAAA")

	r := newTestRouter(d, owner.ID)

	w, _ := postRating(t, r, listing.ID, 5, "i am great")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing may be written on the rejected path
	var count int64
	require.NoError(t, d.DB.Model(model.Rating{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	var after model.User
	require.NoError(t, d.DB.Where("id = ?", owner.ID).First(&after).Error)
	assert.Zero(t, after.RatingCount)
	assert.Zero(t, after.AverageRating)
}

func TestRatingValidation(t *testing.T) {
	d := newTestDeps(t)
	owner := seedUser(t, d, "ownerAAAA", "Albert Gator", "albert@ufl.edu")
	seedUser(t, d, "raterBBBB", "Alberta Gator", "alberta@ufl.edu")
	listing := seedListing(t, d, owner, "itemAAAA")

	r := newTestRouter(d, "raterBBBB")

	for _, score := range []int{0, 6, -1} {
		w, _ := postRating(t, r, listing.ID, score, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "score %d must be rejected", score)
	}

	w, _ := postRating(t, r, "no-such-listing", 4, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRatingsForUserPopulated(t *testing.T) {
	d := newTestDeps(t)
	owner := seedUser(t, d, "ownerAAAA", "Albert Gator", "albert@ufl.edu")
	rater := seedUser(t, d, "raterBBBB", "Alberta Gator", "alberta@ufl.edu")
	listing := seedListing(t, d, owner, "itemAAAA")

	r := newTestRouter(d, rater.ID)

	w, _ := postRating(t, r, listing.ID, 5, "great kayak")
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ratings/user/"+owner.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []ratingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, rater.Name, out[0].ReviewerName)
	assert.Equal(t, listing.Name, out[0].ListingName)
	assert.Equal(t, 5, out[0].Rating.Rating)
}

func TestUserInfoHidesPasswordHash(t *testing.T) {
	d := newTestDeps(t)
	owner := seedUser(t, d, "ownerAAAA", "Albert Gator", "albert@ufl.edu")

	r := newTestRouter(d, "whoever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ratings/user-info/"+owner.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotContains(t, w.Body.String(), "secret-hash")

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, owner.Name, body["name"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ratings/user-info/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
