// Package interfaces holds compile-time interface implementation checks.
// These catch missing methods at build time rather than at wiring time in
// the entrypoint.
package interfaces

import (
	"github.com/booktracker/booktracker/internal/catalog"
	"github.com/booktracker/booktracker/internal/database"
	"github.com/booktracker/booktracker/internal/database/books"
	"github.com/booktracker/booktracker/internal/database/recommendations"
	"github.com/booktracker/booktracker/internal/http"
)

// Data access layer
var _ http.BookStore = (*books.Repository)(nil)
var _ http.SharedBookStore = (*books.Repository)(nil)
var _ http.RecommendationStore = (*recommendations.Repository)(nil)
var _ http.UserLookup = (*database.Database)(nil)

// External services
var _ http.CatalogSearcher = (*catalog.Client)(nil)
