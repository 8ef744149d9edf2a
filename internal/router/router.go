package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gatesim/gatesim-backend/internal/config"
	"github.com/gatesim/gatesim-backend/internal/handler"
	"github.com/gatesim/gatesim-backend/internal/middleware"
	"github.com/gatesim/gatesim-backend/internal/response"
	"github.com/gatesim/gatesim-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Question   *handler.QuestionHandler
	ExamConfig *handler.ExamConfigHandler
	Session    *handler.SessionHandler
	Upload     *handler.UploadHandler
	AI         *handler.AIHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Public Group (No Auth) ─────────────────────────────────────
	// Share links resolve without an account.
	router.GET("/api/shared/:token", handlers.Question.ResolveShared)

	// ─── 3. User Group (JWT + Active Session) ──────────────────────────
	userAPI := router.Group("/api")
	userAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		userAPI.GET("/exams", handlers.ExamConfig.List)

		userAPI.POST("/exam/start/:configId", handlers.Session.Start)
		userAPI.GET("/exam/session/:sessionId", handlers.Session.Get)
		userAPI.GET("/exam/question/:sessionId/:index", handlers.Session.GetQuestion)
		userAPI.POST("/exam/answer/:sessionId", handlers.Session.RecordAnswer)
		userAPI.POST("/exam/submit/:sessionId", handlers.Session.Submit)
		userAPI.GET("/results/:sessionId", handlers.Session.GetResult)

		userAPI.GET("/questions", handlers.Question.List)
		userAPI.GET("/questions/:id", handlers.Question.Get)
		userAPI.PUT("/questions/:id", handlers.Question.Update)
		userAPI.POST("/questions/:id/share", handlers.Question.Share)
		userAPI.POST("/questions/:id/share-link", handlers.Question.CreateShareLink)

		userAPI.POST("/ai/explain", handlers.AI.Explain)
		userAPI.POST("/ai/categorize", handlers.AI.Categorize)
		userAPI.POST("/ai/enhance", handlers.AI.Enhance)
		userAPI.POST("/ai/ask", handlers.AI.Ask)
		userAPI.POST("/ai/generate", handlers.AI.Generate)
		userAPI.POST("/ai/analyze", handlers.AI.Analyze)
	}

	// ─── 4. Admin Group (JWT + Admin Role) ─────────────────────────────
	adminAPI := router.Group("/api/admin")
	adminAPI.Use(middleware.RequireAdmin(authService))
	{
		adminAPI.GET("/exams", handlers.ExamConfig.List)
		adminAPI.POST("/exams", handlers.ExamConfig.Create)
		adminAPI.DELETE("/exams/:id", handlers.ExamConfig.Delete)

		adminAPI.GET("/questions", handlers.Question.List)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.DELETE("/questions/:id", handlers.Question.Delete)

		adminAPI.POST("/upload/csv", handlers.Upload.ImportCSV)
		adminAPI.POST("/upload/preview-csv", handlers.Upload.PreviewCSV)
		adminAPI.POST("/upload/pdf", handlers.Upload.ExtractPDF)
	}

	return router
}
