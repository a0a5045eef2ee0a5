package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type Aggregates struct {
	MakeMethods domainagg.MakeMethodAggregate
	MethodGraph domainagg.MethodGraphAggregate
}

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Set {
	log.Info("Wiring repos...")
	return repos.NewSet(db, log)
}

func wireAggregates(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, metrics *observability.Metrics, evaluator configrule.Evaluator) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}
	return Aggregates{
		MakeMethods: aggregates.NewMakeMethodAggregate(aggregates.MakeMethodAggregateDeps{
			Base:        base,
			Items:       set.Items,
			MakeMethods: set.MakeMethods,
		}),
		MethodGraph: aggregates.NewMethodGraphAggregate(aggregates.MethodGraphAggregateDeps{
			Base:             base,
			Items:            set.Items,
			MakeMethods:      set.MakeMethods,
			Materials:        set.Materials,
			Operations:       set.Operations,
			Parameters:       set.Parameters,
			Rules:            set.Rules,
			Quotes:           set.Quotes,
			QuoteMakeMethods: set.QuoteMakeMethods,
			Evaluator:        evaluator,
			MaxDepth:         cfg.MethodGraphMaxDepth,
		}),
	}
}
