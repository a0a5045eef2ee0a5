package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	repotest "github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type spyPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Name string
	Data map[string]any
}

func (p *spyPublisher) Publish(_ context.Context, name string, data map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Name: name, Data: data})
}

func (p *spyPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}

type harness struct {
	db      *gorm.DB
	log     *logger.Logger
	set     repos.Set
	events  *spyPublisher
	metrics *observability.Metrics

	makeMethods   MakeMethodService
	graphs        MethodGraphService
	trees         MethodTreeService
	configuration ConfigurationService
	items         ItemService
	quotes        QuoteService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	h := &harness{db: db, log: log, set: set, events: &spyPublisher{}, metrics: observability.New()}

	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(h.metrics)}
	versions := aggregates.NewMakeMethodAggregate(aggregates.MakeMethodAggregateDeps{
		Base:        base,
		Items:       set.Items,
		MakeMethods: set.MakeMethods,
	})
	graphs := aggregates.NewMethodGraphAggregate(aggregates.MethodGraphAggregateDeps{
		Base:             base,
		Items:            set.Items,
		MakeMethods:      set.MakeMethods,
		Materials:        set.Materials,
		Operations:       set.Operations,
		Parameters:       set.Parameters,
		Rules:            set.Rules,
		Quotes:           set.Quotes,
		QuoteMakeMethods: set.QuoteMakeMethods,
	})

	h.makeMethods = NewMakeMethodService(log, set.MakeMethods, versions, graphs, h.events)
	h.graphs = NewMethodGraphService(log, graphs, h.events, h.metrics)
	h.trees = NewMethodTreeService(log, set.MakeMethods, set.Materials, h.metrics, 0)
	h.configuration = NewConfigurationService(db, log, set.Items, set.ParameterGroups, set.Parameters, set.Rules, configrule.NewExprEvaluator(0))
	h.items = NewItemService(db, log, set.Items)
	h.quotes = NewQuoteService(log, set.Items, set.Quotes, set.QuoteMakeMethods)
	return h
}
