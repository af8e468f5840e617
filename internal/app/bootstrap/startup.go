// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	settingsstore "github.com/dalemusser/congregate/internal/app/store/settings"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are
// complete, but before the HTTP handler is built and requests are
// served.
//
// Unlike ConnectDB and EnsureSchema which focus on infrastructure,
// Startup is for application-level initialization. Congregate uses it
// to log which tenant this deployment serves, which doubles as a
// connectivity check through the settings store.
//
// Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	settings, err := settingsstore.New(deps.MongoDatabase).Get(ctx)
	if err != nil {
		logger.Error("failed to load tenant settings", zap.Error(err))
		return err
	}

	logger.Info("congregate ready",
		zap.String("tenant", settings.Name),
		zap.String("time_zone", settings.TimeZone),
		zap.String("base_url", appCfg.BaseURL),
	)
	return nil
}
