package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/realtime"
)

type MethodGraphService interface {
	// GetMethod copies the graph named by a transfer such as
	// "itemToQuoteLine" from SourceID onto TargetID.
	GetMethod(ctx context.Context, in GetMethodRequest) (GetMethodResult, error)
}

type GetMethodRequest struct {
	Type          string         `json:"type"`
	SourceID      uuid.UUID      `json:"sourceId"`
	TargetID      uuid.UUID      `json:"targetId"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

type GetMethodResult struct {
	Type               string    `json:"type"`
	SourceMakeMethodID uuid.UUID `json:"source_make_method_id"`
	TargetMakeMethodID uuid.UUID `json:"target_make_method_id"`
	Materials          int       `json:"materials"`
	Operations         int       `json:"operations"`
	SubMethods         int       `json:"sub_methods"`
}

type methodGraphService struct {
	log     *logger.Logger
	graphs  domainagg.MethodGraphAggregate
	events  EventPublisher
	metrics *observability.Metrics
}

func NewMethodGraphService(baseLog *logger.Logger, graphs domainagg.MethodGraphAggregate, events EventPublisher, metrics *observability.Metrics) MethodGraphService {
	if events == nil {
		events = nopPublisher{}
	}
	return &methodGraphService{
		log:     baseLog.With("service", "MethodGraphService"),
		graphs:  graphs,
		events:  events,
		metrics: metrics,
	}
}

func (s *methodGraphService) GetMethod(ctx context.Context, in GetMethodRequest) (GetMethodResult, error) {
	const op = "Manufacturing.MethodGraph.GetMethod"
	var out GetMethodResult
	src, dst, err := types.ParseTransfer(in.Type)
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	name := types.TransferName(src, dst)

	start := time.Now()
	res, err := s.graphs.Clone(ctx, domainagg.CloneMethodGraphInput{
		Source:        types.Owner{Kind: src, ID: in.SourceID},
		Target:        types.Owner{Kind: dst, ID: in.TargetID},
		Configuration: in.Configuration,
	})
	if err != nil {
		return out, err
	}
	s.metrics.ObserveClone(name, res.Materials, res.Operations, res.SubMethods)
	s.log.Info("method copied",
		"type", name,
		"source_id", in.SourceID,
		"target_id", in.TargetID,
		"configured", len(in.Configuration) > 0,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out = GetMethodResult{
		Type:               name,
		SourceMakeMethodID: res.SourceMakeMethodID,
		TargetMakeMethodID: res.TargetMakeMethodID,
		Materials:          res.Materials,
		Operations:         res.Operations,
		SubMethods:         res.SubMethods,
	}
	s.events.Publish(ctx, realtime.EventMethodGraphCloned, map[string]any{
		"type":                  name,
		"source_id":             in.SourceID.String(),
		"target_id":             in.TargetID.String(),
		"target_make_method_id": res.TargetMakeMethodID.String(),
		"materials":             res.Materials,
		"operations":            res.Operations,
	})
	return out, nil
}
