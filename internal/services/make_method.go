package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/realtime"
)

type MakeMethodService interface {
	EnsureForItem(ctx context.Context, itemID uuid.UUID) (domainagg.EnsureMakeMethodResult, error)
	ListVersions(dbc dbctx.Context, itemID uuid.UUID) (ItemVersions, error)
	// CreateVersion adds a Draft version and copies the source version's
	// graph into it.
	CreateVersion(ctx context.Context, in CreateVersionRequest) (CreateVersionResult, error)
	Activate(ctx context.Context, makeMethodID uuid.UUID) (domainagg.ActivateMakeMethodResult, error)
}

type ItemVersions struct {
	Versions          []*types.MakeMethod `json:"versions"`
	EffectiveActiveID *uuid.UUID          `json:"effective_active_id,omitempty"`
}

type CreateVersionRequest struct {
	CopyFromID          uuid.UUID `json:"copy_from_id"`
	Version             int       `json:"version"`
	ActivateImmediately bool      `json:"activate_immediately"`
}

type CreateVersionResult struct {
	MakeMethod       *types.MakeMethod `json:"make_method"`
	PreviousActiveID *uuid.UUID        `json:"previous_active_id,omitempty"`
	Materials        int               `json:"materials"`
	Operations       int               `json:"operations"`
	// Warning is set when the previous version could not be moved back to Draft.
	Warning string `json:"warning,omitempty"`
}

type makeMethodService struct {
	log         *logger.Logger
	makeMethods repos.MakeMethodRepo
	versions    domainagg.MakeMethodAggregate
	graphs      domainagg.MethodGraphAggregate
	events      EventPublisher
}

func NewMakeMethodService(
	baseLog *logger.Logger,
	makeMethods repos.MakeMethodRepo,
	versions domainagg.MakeMethodAggregate,
	graphs domainagg.MethodGraphAggregate,
	events EventPublisher,
) MakeMethodService {
	if events == nil {
		events = nopPublisher{}
	}
	return &makeMethodService{
		log:         baseLog.With("service", "MakeMethodService"),
		makeMethods: makeMethods,
		versions:    versions,
		graphs:      graphs,
		events:      events,
	}
}

func (s *makeMethodService) EnsureForItem(ctx context.Context, itemID uuid.UUID) (domainagg.EnsureMakeMethodResult, error) {
	return s.versions.EnsureForItem(ctx, itemID)
}

func (s *makeMethodService) ListVersions(dbc dbctx.Context, itemID uuid.UUID) (ItemVersions, error) {
	var out ItemVersions
	if itemID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, "Manufacturing.MakeMethod.ListVersions", "missing item_id", nil)
	}
	versions, err := s.makeMethods.ListByItem(dbc, itemID)
	if err != nil {
		return out, fmt.Errorf("list make methods: %w", err)
	}
	out.Versions = versions
	if eff := types.EffectiveActive(versions); eff != nil {
		id := eff.ID
		out.EffectiveActiveID = &id
	}
	return out, nil
}

func (s *makeMethodService) CreateVersion(ctx context.Context, in CreateVersionRequest) (CreateVersionResult, error) {
	const op = "Manufacturing.MakeMethod.CreateVersionWithGraph"
	var out CreateVersionResult

	created, err := s.versions.CreateVersion(ctx, domainagg.CreateMakeMethodVersionInput{
		CopyFromID:          in.CopyFromID,
		Version:             in.Version,
		ActivateImmediately: in.ActivateImmediately,
	})
	if err != nil {
		return out, err
	}
	out.MakeMethod = created.MakeMethod
	out.PreviousActiveID = created.PreviousActiveID
	if created.DeactivationErr != nil {
		out.Warning = "previous active version was not moved back to Draft: " + created.DeactivationErr.Error()
	}

	cloned, err := s.graphs.Clone(ctx, domainagg.CloneMethodGraphInput{
		Source: types.Owner{Kind: types.OwnerMakeMethod, ID: in.CopyFromID},
		Target: types.Owner{Kind: types.OwnerMakeMethod, ID: created.MakeMethod.ID},
	})
	if err != nil {
		s.log.Error("new make method version left without a graph",
			"make_method_id", created.MakeMethod.ID,
			"copy_from_id", in.CopyFromID,
			"error", err,
		)
		return out, domainagg.NewPartialFailure(op, []string{"create_version"}, "copy_graph", err)
	}
	out.Materials = cloned.Materials
	out.Operations = cloned.Operations

	data := map[string]any{
		"item_id":        created.MakeMethod.ItemID.String(),
		"make_method_id": created.MakeMethod.ID.String(),
		"version":        created.MakeMethod.Version,
		"copy_from_id":   in.CopyFromID.String(),
	}
	if created.PreviousActiveID != nil {
		data["previous_active_id"] = created.PreviousActiveID.String()
	}
	s.events.Publish(ctx, realtime.EventMakeMethodVersionCreated, data)
	return out, nil
}

func (s *makeMethodService) Activate(ctx context.Context, makeMethodID uuid.UUID) (domainagg.ActivateMakeMethodResult, error) {
	res, err := s.versions.Activate(ctx, makeMethodID)
	if err != nil {
		return res, err
	}
	deactivated := make([]string, 0, len(res.Deactivated))
	for _, id := range res.Deactivated {
		deactivated = append(deactivated, id.String())
	}
	s.events.Publish(ctx, realtime.EventMakeMethodActivated, map[string]any{
		"item_id":        res.MakeMethod.ItemID.String(),
		"make_method_id": res.MakeMethod.ID.String(),
		"deactivated":    deactivated,
	})
	return res, nil
}
