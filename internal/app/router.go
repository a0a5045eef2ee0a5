package app

import (
	"github.com/yungbote/methodgraph-backend/internal/http"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	var serviceName string
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                  log,
		Metrics:              metrics,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.CORSOrigins,
		HealthHandler:        handlers.Health,
		MethodHandler:        handlers.Method,
		ConfigurationHandler: handlers.Configuration,
		ItemHandler:          handlers.Item,
		QuoteHandler:         handlers.Quote,
	})
}
