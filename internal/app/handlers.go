package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/methodgraph-backend/internal/http/handlers"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type Handlers struct {
	Health        *httpH.HealthHandler
	Method        *httpH.MethodHandler
	Configuration *httpH.ConfigurationHandler
	Item          *httpH.ItemHandler
	Quote         *httpH.QuoteHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, svc Services) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health: httpH.NewHealthHandler(ping),
		Method: httpH.NewMethodHandlerWithDeps(httpH.MethodHandlerDeps{
			Log:         log,
			Graphs:      svc.MethodGraph,
			Trees:       svc.MethodTree,
			MakeMethods: svc.MakeMethods,
		}),
		Configuration: httpH.NewConfigurationHandler(svc.Configuration),
		Item:          httpH.NewItemHandler(svc.Items),
		Quote:         httpH.NewQuoteHandler(svc.Quotes),
	}
}
