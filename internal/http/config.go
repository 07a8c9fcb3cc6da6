package http

import (
	"github.com/booktracker/booktracker/internal/audit"
	"github.com/booktracker/booktracker/internal/auth"
	"github.com/booktracker/booktracker/internal/config"
	"github.com/booktracker/booktracker/internal/database"
)

// RouterConfig carries all router dependencies. Optional fields may be
// nil; the router skips the routes they back.
type RouterConfig struct {
	// Core dependencies
	Database            *database.Database
	BookStore           BookStore
	SharedBookStore     SharedBookStore
	RecommendationStore RecommendationStore
	Users               UserLookup
	Catalog             CatalogSearcher
	Auditor             *audit.Service

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Search throttling
	SearchLimit config.Search

	// Application info
	Version string
}
