package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booktracker/booktracker/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Auth endpoints
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
		authController.RegisterRoutes(router)
	}

	// Shelf endpoints
	booksController := NewBooksController(cfg.BookStore, cfg.Auditor)
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.SaveBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.GET("/api/books/:id/content", booksController.GetBookContent)

	// Catalog search proxy, throttled per user
	if cfg.Catalog != nil {
		searchController := NewSearchController(cfg.Catalog)
		limiter := NewSearchLimiter(cfg.SearchLimit.MaxRequests, cfg.SearchLimit.Window)
		router.GET("/api/search", limiter.Middleware(), searchController.Search)
	}

	// Dashboard aggregates
	statsController := NewStatsController(cfg.BookStore)
	router.GET("/api/stats", statsController.GetStats)
	router.GET("/api/analytics", statsController.GetAnalytics)

	// Sharing
	if cfg.SharedBookStore != nil && cfg.RecommendationStore != nil {
		shareController := NewShareController(cfg.SharedBookStore, cfg.RecommendationStore, cfg.Users, cfg.Auditor)
		router.POST("/api/share/recommendation", shareController.SaveRecommendation)
		router.GET("/api/shared/book/:id", shareController.GetSharedBook)
	}

	return router
}
