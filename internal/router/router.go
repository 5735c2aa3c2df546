package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/handler"
	"github.com/inquizitor/inquizitor-backend/internal/middleware"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Material     *handler.MaterialHandler
	Test         *handler.TestHandler
	Question     *handler.QuestionHandler
	Job          *handler.JobHandler
	File         *handler.FileHandler
	Notification *handler.NotificationHandler
	Support      *handler.SupportHandler
	System       *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	turnstileService *service.TurnstileService,
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
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Turnstile-Token"}
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

	// Rate limiter for sensitive public routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	turnstile := middleware.RequireTurnstile(turnstileService)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", turnstile, handlers.Auth.Register)
		auth.POST("/verify-email", handlers.Auth.VerifyEmail)
		auth.POST("/login", turnstile, handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.POST("/forgot-password", turnstile, handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/change-password", middleware.RequireJWT(authService), handlers.Auth.ChangePassword)
	}

	// ─── 2. Support (Public, Rate Limited + Turnstile) ─────────────────
	support := router.Group("/api/v1/support")
	support.Use(authLimiter.Middleware())
	{
		support.POST("/contact", turnstile, handlers.Support.Contact)
	}

	// ─── 3. App Group (JWT) ────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		// Materials
		api.POST("/materials", handlers.Material.Upload)
		api.GET("/materials", handlers.Material.List)
		api.GET("/materials/:id", handlers.Material.Get)
		api.POST("/materials/:id/analyze", handlers.Material.Analyze)
		api.DELETE("/materials/:id", handlers.Material.Delete)

		// Tests
		api.POST("/tests/generate", turnstile, handlers.Test.Generate)
		api.POST("/tests", handlers.Test.Create)
		api.GET("/tests", handlers.Test.List)
		api.GET("/tests/:id", handlers.Test.Get)
		api.PATCH("/tests/:id", handlers.Test.Rename)
		api.DELETE("/tests/:id", handlers.Test.Delete)
		api.POST("/tests/:id/shuffle", handlers.Test.Shuffle)
		api.POST("/tests/:id/export/pdf", handlers.Test.ExportPdf)
		api.GET("/tests/:id/export/moodle", handlers.Test.ExportMoodleXML)

		// Questions
		api.POST("/tests/:id/questions", handlers.Question.Create)
		api.PATCH("/tests/:id/questions", handlers.Question.BulkUpdate)
		api.DELETE("/tests/:id/questions", handlers.Question.BulkDelete)
		api.PATCH("/tests/:id/questions/:questionId", handlers.Question.Update)
		api.DELETE("/tests/:id/questions/:questionId", handlers.Question.Delete)
		api.POST("/tests/:id/questions/regenerate", turnstile, handlers.Question.Regenerate)
		api.POST("/tests/:id/questions/convert", turnstile, handlers.Question.Convert)

		// Jobs
		api.GET("/jobs", handlers.Job.List)
		api.GET("/jobs/:id", handlers.Job.Get)
		api.GET("/jobs/:id/download", middleware.CacheControl(3600), handlers.File.DownloadExport)

		// Notifications
		api.GET("/notifications", handlers.Notification.List)
		api.POST("/notifications/:id/read", handlers.Notification.MarkRead)

		// System Monitoring
		api.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	return router
}
