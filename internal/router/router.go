package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/handler"
	"github.com/stemsi/folio-backend/internal/middleware"
	"github.com/stemsi/folio-backend/internal/response"
)

// catalogMaxAge is how long clients may cache read-only catalog responses.
const catalogMaxAge = 300

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Library      *handler.LibraryHandler
	Dashboard    *handler.DashboardHandler
	Reader       *handler.ReaderHandler
	Preferences  *handler.PreferencesHandler
	Quiz         *handler.QuizHandler
	Conversation *handler.ConversationHandler
	WS           *handler.WSHandler
	System       *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// chatLimiter throttles message posts per client IP.
func SetupRouter(
	handlers *Handlers,
	chatLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.System.Health)

	api := router.Group("/api/v1")

	// ─── 1. Catalog (cacheable) ────────────────────────────────────────
	catalog := api.Group("")
	catalog.Use(middleware.CacheControl(catalogMaxAge))
	{
		catalog.GET("/library/books", handlers.Library.ListBooks)
		catalog.GET("/library/categories", handlers.Library.ListCategories)
		catalog.GET("/library/books/:id", handlers.Library.GetBook)
		catalog.GET("/reader/books/:id", handlers.Reader.OpenBook)
		catalog.GET("/reader/settings/default", handlers.Reader.DefaultSettings)
		catalog.GET("/settings/default", handlers.Preferences.Defaults)
		catalog.GET("/quizzes", handlers.Quiz.ListQuizzes)
	}

	// ─── 2. Live state (never cached) ──────────────────────────────────
	live := api.Group("")
	live.Use(middleware.NoStore())
	{
		live.GET("/dashboard", handlers.Dashboard.GetDashboard)
		live.GET("/system/status", handlers.System.Status)
		live.POST("/reader/settings", handlers.Reader.ApplyCommand)
		live.POST("/settings", handlers.Preferences.ApplyCommand)

		live.POST("/quizzes/:quiz_id/sessions", handlers.Quiz.StartSession)
		sessions := live.Group("/quiz-sessions/:id")
		{
			sessions.GET("", handlers.Quiz.GetSession)
			sessions.DELETE("", handlers.Quiz.DiscardSession)
			sessions.POST("/select", handlers.Quiz.SelectOption)
			sessions.POST("/submit", handlers.Quiz.Submit)
			sessions.POST("/advance", handlers.Quiz.Advance)
			sessions.POST("/restart", handlers.Quiz.Restart)
		}

		live.POST("/conversations", handlers.Conversation.CreateConversation)
		conversations := live.Group("/conversations/:id")
		{
			conversations.GET("", handlers.Conversation.GetConversation)
			conversations.DELETE("", handlers.Conversation.CloseConversation)
			conversations.POST("/messages", chatLimiter.Middleware(), handlers.Conversation.PostMessage)
		}
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/conversations/:id/stream", handlers.WS.ConversationStream)
	}

	return router
}
