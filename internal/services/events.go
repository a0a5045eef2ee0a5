package services

import (
	"context"

	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/ctxutil"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/realtime"
	"github.com/yungbote/methodgraph-backend/internal/realtime/bus"
)

// EventPublisher announces committed changes. Publishing never fails the
// caller; errors are logged and counted.
type EventPublisher interface {
	Publish(ctx context.Context, name string, data map[string]any)
}

type busPublisher struct {
	bus     bus.Bus
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewEventPublisher(b bus.Bus, baseLog *logger.Logger, metrics *observability.Metrics) EventPublisher {
	return &busPublisher{bus: b, log: baseLog.With("service", "EventPublisher"), metrics: metrics}
}

func (p *busPublisher) Publish(ctx context.Context, name string, data map[string]any) {
	if p == nil || p.bus == nil {
		return
	}
	err := p.bus.Publish(context.WithoutCancel(ctx), realtime.NewEvent(name, data))
	p.metrics.IncEvent(name, err == nil)
	if err != nil {
		kv := append([]interface{}{"event", name, "error", err}, ctxutil.LogFields(ctx)...)
		p.log.Warn("event publish failed", kv...)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, map[string]any) {}
