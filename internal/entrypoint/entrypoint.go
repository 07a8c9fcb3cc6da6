package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booktracker/booktracker/internal/audit"
	"github.com/booktracker/booktracker/internal/auth"
	"github.com/booktracker/booktracker/internal/catalog"
	"github.com/booktracker/booktracker/internal/config"
	"github.com/booktracker/booktracker/internal/database"
	auditrepo "github.com/booktracker/booktracker/internal/database/audit"
	"github.com/booktracker/booktracker/internal/database/books"
	"github.com/booktracker/booktracker/internal/database/recommendations"
	http_controllers "github.com/booktracker/booktracker/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop schedulers)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting BookTracker v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	recommendationRepo := recommendations.NewRepository(db.DB)

	// Catalog client for the search proxy
	if cfg.Catalog.APIKey == "" {
		log.Printf("WARNING: Catalog API key is not set. Search runs against the public quota. Set 'CATALOG_API_KEY' to raise it.")
	}
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey)

	// Audit trail with scheduled retention cleanup
	var auditor *audit.Service
	if cfg.Audit.Enabled {
		retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
		auditor = audit.NewService(auditrepo.NewRepository(db.DB), retention)
		if err := auditor.StartCleanup(cfg.Audit.CleanupSchedule); err != nil {
			log.Fatalf("Failed to start audit cleanup: %v", err)
		}
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, err = hex.DecodeString(secret)
			if err != nil {
				log.Fatalf("Failed to decode generated CSRF secret: %v", err)
			}
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. Run 'booktracker create-user' to create an account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:            db,
		BookStore:           bookRepo,
		SharedBookStore:     bookRepo,
		RecommendationStore: recommendationRepo,
		Users:               db,
		Catalog:             catalogClient,
		Auditor:             auditor,
		AuthService:         authService,
		SessionManager:      sessionManager,
		AuthMiddleware:      authMiddleware,
		CSRFSecret:          csrfSecret,
		SecureCookies:       cfg.Auth.SecureCookies,
		SearchLimit:         cfg.Search,
		Version:             version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if auditor != nil {
			auditor.StopCleanup()
		}
		if authService != nil {
			authService.Close()
		}
	}

	Serve(router, cfg, onShutdown)
}
