package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/methodgraph-backend/internal/observability"
)

// Hooks receives the outcome of every aggregate write.
// Names are aggregate operation names such as "Manufacturing.MakeMethod.Activate".
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type metricsHooks struct {
	m *observability.Metrics
}

// NewObservabilityHooks reports aggregate writes to the methodgraph_aggregate_* metrics.
// A nil registry yields hooks that drop everything.
func NewObservabilityHooks(m *observability.Metrics) Hooks {
	if m == nil {
		return noopHooks{}
	}
	return metricsHooks{m: m}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	status = strings.TrimSpace(status)
	if status == "" {
		status = "failure"
	}
	h.m.ObserveAggregateOperation(opName(name), status, dur)
}

func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(opName(name)) }
func (h metricsHooks) IncRetry(name string)    { h.m.IncAggregateRetry(opName(name)) }

// opName keeps empty names out of the label set.
func opName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "unknown"
	}
	return name
}
