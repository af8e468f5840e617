// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to congregate lives: the
// MongoDB connection, the admin API key, and seeding behavior.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key for the admin API. All /api/* routes require this key as
	// a Bearer token.
	APIKey string

	// Base URL of this deployment (e.g., "https://admin.gracefellowship.org").
	// Reported by the status endpoint; useful behind reverse proxies.
	BaseURL string

	// SeedDefaults controls whether EnsureSchema seeds the default
	// tenant settings and home page on first boot.
	SeedDefaults bool

	// LedgerEnabled controls API request error logging to the
	// api_ledger collection.
	LedgerEnabled bool
}
