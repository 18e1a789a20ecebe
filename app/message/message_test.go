package message

import (
	"bytes"
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/model"
	"campusswap/market-api/internal/service"
	"campusswap/market-api/pkg/middleware"
	"campusswap/market-api/pkg/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
		model.Message{},
	))

	return &internal.Deps{DB: conn}
}

func newTestRouter(d *internal.Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	r.GET("/messages/conversations/:userEmail", func(c *gin.Context) { ConversationList(c, d) })
	r.GET("/messages/conversation-exists", func(c *gin.Context) { ConversationExists(c, d) })
	r.GET("/messages/conversation/:conversationId", func(c *gin.Context) { ConversationFetch(c, d) })
	r.POST("/messages/send", func(c *gin.Context) { MessageSend(c, d) })
	r.PUT("/messages/mark-read/:conversationId", func(c *gin.Context) { ConversationMarkRead(c, d) })
	r.DELETE("/messages/conversation/:conversationId", func(c *gin.Context) { ConversationDelete(c, d) })

	return r
}

func seedUser(t *testing.T, d *internal.Deps, id, name, email string) model.User {
	t.Helper()

	u := model.User{ID: id, Name: name, Email: email, PasswordHash: "x", Verified: true}
	require.NoError(t, d.DB.Create(&u).Error)

	return u
}

func seedMessage(t *testing.T, d *internal.Deps, id string, from, to model.User, content string, at time.Time) model.Message {
	t.Helper()

	m := model.Message{
		ID:             id,
		ConversationID: service.ConversationID(from.Email, to.Email),
		SenderID:       from.ID,
		SenderEmail:    from.Email,
		SenderName:     from.Name,
		ReceiverID:     to.ID,
		ReceiverEmail:  to.Email,
		ReceiverName:   to.Name,
		Content:        content,
		CreatedAt:      at,
	}
	require.NoError(t, d.DB.Create(&m).Error)

	return m
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))

	return w, parsed
}

func getJSON(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))

	return w, parsed
}

func TestSendAndConversationExists(t *testing.T) {
	d := newTestDeps(t)
	r := newTestRouter(d)
	alice := seedUser(t, d, "aliceAAAA", "Alice", "alice@ufl.edu")
	bob := seedUser(t, d, "bobBBBBBB", "Bob", "bob@ufl.edu")

	// Before any message the probe answers false with an empty list
	w, body := getJSON(t, r, "/messages/conversation-exists?user1Email=alice@ufl.edu&user2Email=bob@ufl.edu")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["exists"])
	assert.Equal(t, "alice@ufl.edu_bob@ufl.edu", body["conversationId"])
	assert.Empty(t, body["messages"])

	w, body = doJSON(t, r, "POST", "/messages/send", gin.H{
		"senderEmail":   "Alice@UFL.edu",
		"receiverEmail": "bob@ufl.edu",
		"content":       "  Is the kayak still free?  ",
	})
	require.Equal(t, http.StatusOK, w.Code)

	sent := body["message"].(map[string]any)
	assert.Equal(t, "alice@ufl.edu_bob@ufl.edu", sent["conversationId"])
	assert.Equal(t, alice.ID, sent["senderId"])
	assert.Equal(t, bob.ID, sent["receiverId"])
	assert.Equal(t, "Is the kayak still free?", sent["content"])
	assert.Equal(t, false, sent["read"])

	// The probe is symmetric in the two emails
	w, body = getJSON(t, r, "/messages/conversation-exists?user1Email=BOB@ufl.edu&user2Email=alice@ufl.edu")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["exists"])
	assert.Len(t, body["messages"], 1)
}

func TestSendUnknownParticipants(t *testing.T) {
	d := newTestDeps(t)
	r := newTestRouter(d)
	seedUser(t, d, "aliceAAAA", "Alice", "alice@ufl.edu")

	w, _ := doJSON(t, r, "POST", "/messages/send", gin.H{
		"senderEmail":   "ghost@ufl.edu",
		"receiverEmail": "alice@ufl.edu",
		"content":       "boo",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, "POST", "/messages/send", gin.H{
		"senderEmail":   "alice@ufl.edu",
		"receiverEmail": "ghost@ufl.edu",
		"content":       "boo",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendAttachesItemContext(t *testing.T) {
	d := newTestDeps(t)
	r := newTestRouter(d)
	alice := seedUser(t, d, "aliceAAAA", "Alice", "alice@ufl.edu")
	seedUser(t, d, "bobBBBBBB", "Bob", "bob@ufl.edu")

	it := model.Item{
		ID: "itemAAAA", Name: "Kayak", Description: "x", HourlyRate: 5,
		OwnerID: alice.ID, OwnerEmail: alice.Email, OwnerName: alice.Name,
	}
	require.NoError(t, d.DB.Create(&it).Error)

	w, body := doJSON(t, r, "POST", "/messages/send", gin.H{
		"senderEmail":   "bob@ufl.edu",
		"receiverEmail": "alice@ufl.edu",
		"itemId":        "itemAAAA",
		"content":       "About the kayak",
	})
	require.Equal(t, http.StatusOK, w.Code)

	sent := body["message"].(map[string]any)
	assert.Equal(t, "itemAAAA", sent["itemId"])
	assert.Equal(t, "Kayak", sent["itemName"])

	// A dangling item ID still sends, just without the context
	w, body = doJSON(t, r, "POST", "/messages/send", gin.H{
		"senderEmail":   "bob@ufl.edu",
		"receiverEmail": "alice@ufl.edu",
		"itemId":        "goneAAAA",
		"content":       "About nothing",
	})
	require.Equal(t, http.StatusOK, w.Code)

	sent = body["message"].(map[string]any)
	assert.Nil(t, sent["itemId"])
}

func TestConversationFetchMarksOnlyReceiverRead(t *testing.T) {
	d := newTestDeps(t)
	r := newTestRouter(d)
	alice := seedUser(t, d, "aliceAAAA", "Alice", "alice@ufl.edu")
	bob := seedUser(t, d, "bobBBBBBB", "Bob", "bob@ufl.edu")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, d, "msgAAAA", alice, bob, "hi bob", base)
	seedMessage(t, d, "msgBBBB", bob, alice, "hi alice", base.Add(time.Minute))
	seedMessage(t, d, "msgCCCC", alice, bob, "still there?", base.Add(2*time.Minute))

	convID := service.ConversationID(alice.Email, bob.Email)

	// Bob opens the thread: oldest first, and only his incoming messages
	// flip to read
	w, body := getJSON(t, r, "/messages/conversation/"+convID+"?userEmail=bob@ufl.edu")
	require.Equal(t, http.StatusOK, w.Code)

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 3)
	assert.Equal(t, "hi bob", msgs[0].(map[string]any)["content"])
	assert.Equal(t, "still there?", msgs[2].(map[string]any)["content"])

	var unreadToAlice, unreadToBob int64
	require.NoError(t, d.DB.Model(model.Message{}).
		Where("receiver_email = ? AND read = ?", alice.Email, false).
		Count(&unreadToAlice).Error)
	require.NoError(t, d.DB.Model(model.Message{}).
		Where("receiver_email = ? AND read = ?", bob.Email, false).
		Count(&unreadToBob).Error)

	assert.EqualValues(t, 1, unreadToAlice, "alice's unread message must not be touched by bob's fetch")
	assert.EqualValues(t, 0, unreadToBob)
}

func TestConversationListGroupsAndCounts(t *testing.T) {
	d := newTestDeps(t)
	r := newTestRouter(d)
	alice := seedUser(t, d, "aliceAAAA", "Alice", "alice@ufl.edu")
	bob := seedUser(t, d, "bobBBBBBB", "Bob", "bob@ufl.edu")
	carol := seedUser(t, d, "carolCCCC", "Carol", "carol@ufl.edu")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, d, "msgAAAA", bob, alice, "old thread", base)
	seedMessage(t, d, "msgBBBB", bob, alice, "second unread", base.Add(time.Minute))
	seedMessage(t, d, "msgCCCC", carol, alice, "newer thread", base.Add(2*time.Minute))
	seedMessage(t, d, "msgDDDD", alice, carol, "reply", base.Add(3*time.Minute))

	w, body := getJSON(t, r, "/messages/conversations/alice@ufl.edu")
	require.Equal(t, http.StatusOK, w.Code)

	convs := body["conversations"].([]any)
	require.Len(t, convs, 2)

	// Newest activity first: the carol thread ends latest
	first := convs[0].(map[string]any)
	second := convs[1].(map[string]any)

	assert.Equal(t, service.ConversationID(alice.Email, carol.Email), first["conversationId"])
	assert.Equal(t, "reply", first["lastMessage"].(map[string]any)["content"])
	assert.EqualValues(t, 1, first["unreadCount"])

	assert.Equal(t, service.ConversationID(alice.Email, bob.Email), second["conversationId"])
	assert.Equal(t, "second unread", second["lastMessage"].(map[string]any)["content"])
	assert.EqualValues(t, 2, second["unreadCount"])
}

func TestMarkReadAndDelete(t *testing.T) {
	d := newTestDeps(t)
	r := newTestRouter(d)
	alice := seedUser(t, d, "aliceAAAA", "Alice", "alice@ufl.edu")
	bob := seedUser(t, d, "bobBBBBBB", "Bob", "bob@ufl.edu")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, d, "msgAAAA", alice, bob, "one", base)
	seedMessage(t, d, "msgBBBB", alice, bob, "two", base.Add(time.Minute))

	convID := service.ConversationID(alice.Email, bob.Email)

	w, _ := doJSON(t, r, "PUT", "/messages/mark-read/"+convID, gin.H{"userEmail": "Bob@UFL.edu"})
	require.Equal(t, http.StatusOK, w.Code)

	var unread int64
	require.NoError(t, d.DB.Model(model.Message{}).
		Where("conversation_id = ? AND read = ?", convID, false).
		Count(&unread).Error)
	assert.EqualValues(t, 0, unread)

	w, body := doJSON(t, r, "DELETE", "/messages/conversation/"+convID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted 2 messages", body["message"])

	var left int64
	require.NoError(t, d.DB.Model(model.Message{}).Count(&left).Error)
	assert.EqualValues(t, 0, left)
}
