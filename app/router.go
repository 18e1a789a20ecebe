// Package app wires the endpoints, middleware and shared dependencies
// into the gin engine
package app

import (
	"campusswap/market-api/app/item"
	"campusswap/market-api/app/message"
	"campusswap/market-api/app/rating"
	"campusswap/market-api/app/root"
	"campusswap/market-api/app/user"
	"campusswap/market-api/db"
	"campusswap/market-api/internal"
	"campusswap/market-api/internal/service"
	"campusswap/market-api/pkg/middleware"
	"campusswap/market-api/pkg/security"
	"fmt"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{
		Argon: security.New(),
		Mail:  service.NewSMTPMailer(),
	}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = conn

	makeLogger()

	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(conn)
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})

	// Listing uploads carry multiple images
	maxImageSize := viper.GetInt64("upload.max_size")
	maxUploadSize := maxImageSize * int64(viper.GetInt("upload.max_images"))
	smallBody := middleware.BodySizeLimiter(1 << 20)

	router.Use(rateLimiter)

	auth := router.Group("", smallBody)
	{
		// POST /register 		-> Creates a new unverified account
		auth.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /login 			-> Logs in a user and returns a JWT cookie
		auth.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// GET /verify/:token		-> Consumes a verification link (HTML)
		auth.GET("/verify/:token", func(c *gin.Context) { user.UserVerify(c, d) })

		// POST /resend-verification	-> Reissues a verification token
		auth.POST("/resend-verification", func(c *gin.Context) { user.UserResendVerification(c, d) })
	}

	profile := router.Group("/profile", smallBody)
	{
		// PUT /profile/update		-> Edits name and optionally password
		profile.PUT("/update", func(c *gin.Context) { user.ProfileUpdate(c, d) })

		// GET /profile/:email		-> Returns a user's public profile
		profile.GET("/:email", func(c *gin.Context) { user.ProfileFetch(c, d) })
	}

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		m.GET("/validate", jwt, root.Validate)
	}

	items := m.Group("/items")
	{
		// POST /api/items/create	-> Creates a listing with up to 10 images
		items.POST("/create", middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { item.ItemCreate(c, d) })

		// GET /api/items/all		-> Returns all listings, newest first
		items.GET("/all", cacheFor(15), func(c *gin.Context) { item.ItemFetchAll(c, d) })

		// GET /api/items/user/:email	-> Returns one user's listings
		items.GET("/user/:email", func(c *gin.Context) { item.ItemFetchByUser(c, d) })

		// GET /api/items/:id		-> Returns a single listing
		items.GET("/:id", func(c *gin.Context) { item.ItemFetch(c, d) })

		// PUT /api/items/:id		-> Updates a listing, owner-checked
		items.PUT("/:id", middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { item.ItemUpdate(c, d) })

		// DELETE /api/items/:id	-> Deletes a listing, owner-checked
		items.DELETE("/:id", smallBody, func(c *gin.Context) { item.ItemDelete(c, d) })
	}

	messages := m.Group("/messages", smallBody)
	{
		// GET /api/messages/conversations/:userEmail		-> Lists a user's threads
		messages.GET("/conversations/:userEmail", func(c *gin.Context) { message.ConversationList(c, d) })

		// GET /api/messages/conversation-exists		-> Probes a thread between two users
		messages.GET("/conversation-exists", func(c *gin.Context) { message.ConversationExists(c, d) })

		// GET /api/messages/conversation/:conversationId	-> Fetches a thread and marks it read
		messages.GET("/conversation/:conversationId", func(c *gin.Context) { message.ConversationFetch(c, d) })

		// POST /api/messages/send				-> Sends a message
		messages.POST("/send", func(c *gin.Context) { message.MessageSend(c, d) })

		// PUT /api/messages/mark-read/:conversationId		-> Marks a thread as read
		messages.PUT("/mark-read/:conversationId", func(c *gin.Context) { message.ConversationMarkRead(c, d) })

		// DELETE /api/messages/conversation/:conversationId	-> Deletes a thread
		messages.DELETE("/conversation/:conversationId", func(c *gin.Context) { message.ConversationDelete(c, d) })
	}

	ratings := m.Group("/ratings", smallBody)
	{
		// POST /api/ratings			-> Files a review, auth required
		ratings.POST("", jwt, func(c *gin.Context) { rating.RatingCreate(c, d) })

		// GET /api/ratings/user/:userId	-> Lists reviews a user received
		ratings.GET("/user/:userId", func(c *gin.Context) { rating.RatingsForUser(c, d) })

		// GET /api/ratings/listing/:listingId	-> Lists reviews for a listing
		ratings.GET("/listing/:listingId", func(c *gin.Context) { rating.RatingsForListing(c, d) })

		// GET /api/ratings/user-info/:userId	-> Returns a user's public record
		ratings.GET("/user-info/:userId", func(c *gin.Context) { rating.UserInfo(c, d) })
	}

	// Check for useless tokens every day because they expire rarely
	service.TokenCleanup(time.Hour*24, conn)

	// Check for expired accounts rarely because they have a week to verify
	service.AccountCleanup(time.Hour*24, conn)

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if level, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
