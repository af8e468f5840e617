// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	apilogapifeature "github.com/dalemusser/congregate/internal/app/features/apilogapi"
	contactsfeature "github.com/dalemusser/congregate/internal/app/features/contacts"
	contentapifeature "github.com/dalemusser/congregate/internal/app/features/contentapi"
	groupsfeature "github.com/dalemusser/congregate/internal/app/features/groups"
	healthfeature "github.com/dalemusser/congregate/internal/app/features/health"
	mediafeature "github.com/dalemusser/congregate/internal/app/features/media"
	pagesfeature "github.com/dalemusser/congregate/internal/app/features/pages"
	prayerfeature "github.com/dalemusser/congregate/internal/app/features/prayer"
	reportsfeature "github.com/dalemusser/congregate/internal/app/features/reports"
	settingsapifeature "github.com/dalemusser/congregate/internal/app/features/settingsapi"
	statusfeature "github.com/dalemusser/congregate/internal/app/features/status"
	visitsfeature "github.com/dalemusser/congregate/internal/app/features/visits"
	apilogstore "github.com/dalemusser/congregate/internal/app/store/apilog"
	contactstore "github.com/dalemusser/congregate/internal/app/store/contacts"
	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	groupstore "github.com/dalemusser/congregate/internal/app/store/groups"
	mediastore "github.com/dalemusser/congregate/internal/app/store/media"
	prayerstore "github.com/dalemusser/congregate/internal/app/store/prayer"
	settingsstore "github.com/dalemusser/congregate/internal/app/store/settings"
	visitstore "github.com/dalemusser/congregate/internal/app/store/visits"
	"github.com/dalemusser/congregate/internal/app/system/apilog"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// The surface splits in two:
//   - /api/*: the admin API, Bearer API key auth, permissive CORS. Failed
//     requests are recorded in the api_ledger collection when enabled.
//   - /pages and the health endpoints: public, no auth.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	contentStore := contentstore.New(deps.MongoDatabase, logger)
	contactStore := contactstore.New(deps.MongoDatabase)
	groupStore := groupstore.New(deps.MongoDatabase)
	prayerStore := prayerstore.New(deps.MongoDatabase)
	visitStore := visitstore.New(deps.MongoDatabase)
	settingsStore := settingsstore.New(deps.MongoDatabase)
	mediaStore := mediastore.New(deps.MongoDatabase)
	ledgerStore := apilogstore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Admin API. Every route under /api requires the configured API key;
	// the per-feature routers apply auth and API CORS themselves.
	r.Route("/api", func(api chi.Router) {
		if appCfg.LedgerEnabled {
			api.Use(apilog.Middleware(apilog.DefaultConfig(ledgerStore, logger)))
		}

		contentHandler := contentapifeature.NewHandler(contentStore, logger)
		api.Mount("/content", contentapifeature.Routes(contentHandler, appCfg.APIKey, logger))

		contactsHandler := contactsfeature.NewHandler(contactStore, groupStore, logger)
		api.Mount("/contacts", contactsfeature.Routes(contactsHandler, appCfg.APIKey, logger))

		groupsHandler := groupsfeature.NewHandler(groupStore, contactStore, logger)
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, appCfg.APIKey, logger))

		prayerHandler := prayerfeature.NewHandler(prayerStore, logger)
		api.Mount("/prayer", prayerfeature.Routes(prayerHandler, appCfg.APIKey, logger))

		visitsHandler := visitsfeature.NewHandler(visitStore, logger)
		api.Mount("/visits", visitsfeature.Routes(visitsHandler, appCfg.APIKey, logger))

		settingsHandler := settingsapifeature.NewHandler(settingsStore, logger)
		api.Mount("/settings", settingsapifeature.Routes(settingsHandler, appCfg.APIKey, logger))

		mediaHandler := mediafeature.NewHandler(mediaStore, logger)
		api.Mount("/media", mediafeature.Routes(mediaHandler, appCfg.APIKey, logger))

		reportsHandler := reportsfeature.NewHandler(contactStore, groupStore, prayerStore, visitStore, contentStore, logger)
		api.Mount("/reports", reportsfeature.Routes(reportsHandler, appCfg.APIKey, logger))

		ledgerHandler := apilogapifeature.NewHandler(ledgerStore, logger)
		api.Mount("/ledger", apilogapifeature.Routes(ledgerHandler, appCfg.APIKey, logger))

		statusHandler := statusfeature.NewHandler(deps.MongoClient, appCfg.MongoDatabase, appCfg.BaseURL, logger)
		api.Mount("/status", statusfeature.Routes(statusHandler, appCfg.APIKey, logger))
	})

	// Public read surface: published pages rendered for site frontends.
	publicPagesHandler := pagesfeature.NewHandler(contentStore, logger)
	r.Mount("/pages", pagesfeature.Routes(publicPagesHandler))

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/healthz", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	return r, nil
}
