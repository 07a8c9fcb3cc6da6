package config

const (
	// DefaultDatabasePath is the default path for the application database.
	DefaultDatabasePath = "./booktracker.db"

	// DefaultCatalogBaseURL is the Google Books volumes API endpoint.
	DefaultCatalogBaseURL = "https://www.googleapis.com/books/v1"
)
