package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/realtime/bus"
	"github.com/yungbote/methodgraph-backend/internal/services"
)

type Services struct {
	Events        services.EventPublisher
	MakeMethods   services.MakeMethodService
	MethodGraph   services.MethodGraphService
	MethodTree    services.MethodTreeService
	Configuration services.ConfigurationService
	Items         services.ItemService
	Quotes        services.QuoteService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	set repos.Set,
	aggs Aggregates,
	eventBus bus.Bus,
	metrics *observability.Metrics,
	evaluator configrule.Evaluator,
) Services {
	log.Info("Wiring services...")
	events := services.NewEventPublisher(eventBus, log, metrics)
	return Services{
		Events:        events,
		MakeMethods:   services.NewMakeMethodService(log, set.MakeMethods, aggs.MakeMethods, aggs.MethodGraph, events),
		MethodGraph:   services.NewMethodGraphService(log, aggs.MethodGraph, events, metrics),
		MethodTree:    services.NewMethodTreeService(log, set.MakeMethods, set.Materials, metrics, cfg.MethodGraphMaxDepth),
		Configuration: services.NewConfigurationService(db, log, set.Items, set.ParameterGroups, set.Parameters, set.Rules, evaluator),
		Items:         services.NewItemService(db, log, set.Items),
		Quotes:        services.NewQuoteService(log, set.Items, set.Quotes, set.QuoteMakeMethods),
	}
}
