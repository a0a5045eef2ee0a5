package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type ItemService interface {
	Create(ctx context.Context, in CreateItemRequest) (*types.Item, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Item, error)
	ListRevisions(dbc dbctx.Context, readableID string) ([]*types.Item, error)
	SetDefaultRevision(ctx context.Context, id uuid.UUID) (*types.Item, error)
}

type CreateItemRequest struct {
	ReadableID          string                    `json:"readable_id"`
	Revision            string                    `json:"revision"`
	Name                string                    `json:"name"`
	Type                types.ItemType            `json:"type"`
	ReplenishmentSystem types.ReplenishmentSystem `json:"replenishment_system"`
	DefaultMethodType   types.MethodType          `json:"default_method_type"`
	TrackingType        types.TrackingType        `json:"tracking_type"`
	UnitOfMeasureCode   string                    `json:"unit_of_measure_code"`
}

type itemService struct {
	db    *gorm.DB
	log   *logger.Logger
	items repos.ItemRepo
}

func NewItemService(db *gorm.DB, baseLog *logger.Logger, items repos.ItemRepo) ItemService {
	return &itemService{db: db, log: baseLog.With("service", "ItemService"), items: items}
}

func (s *itemService) Create(ctx context.Context, in CreateItemRequest) (*types.Item, error) {
	const op = "Manufacturing.Item.Create"
	invalid := func(msg string) error { return domainagg.NewError(domainagg.CodeValidation, op, msg, nil) }

	in.ReadableID = strings.TrimSpace(in.ReadableID)
	if in.ReadableID == "" {
		return nil, invalid("readable_id is required")
	}
	if strings.TrimSpace(in.Revision) == "" {
		in.Revision = "0"
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = in.ReadableID
	}
	if !in.Type.Valid() {
		return nil, invalid(fmt.Sprintf("unknown item type %q", in.Type))
	}
	if !in.ReplenishmentSystem.Valid() {
		return nil, invalid(fmt.Sprintf("unknown replenishment system %q", in.ReplenishmentSystem))
	}
	if in.DefaultMethodType == "" {
		in.DefaultMethodType = types.MethodTypeBuy
		if in.ReplenishmentSystem.CanMake() {
			in.DefaultMethodType = types.MethodTypeMake
		}
	}
	if !in.DefaultMethodType.Valid() {
		return nil, invalid(fmt.Sprintf("unknown method type %q", in.DefaultMethodType))
	}
	if in.DefaultMethodType == types.MethodTypeMake && !in.ReplenishmentSystem.CanMake() {
		return nil, invalid("items that cannot be made cannot default to Make")
	}
	if in.TrackingType == "" {
		in.TrackingType = types.TrackingInventory
	}
	if !in.TrackingType.Valid() {
		return nil, invalid(fmt.Sprintf("unknown tracking type %q", in.TrackingType))
	}

	var out *types.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.items.ListRevisions(dbc, in.ReadableID)
		if err != nil {
			return err
		}
		for _, it := range existing {
			if it.Revision == in.Revision {
				return domainagg.NewError(domainagg.CodeConflict, op, fmt.Sprintf("%s revision %s already exists", in.ReadableID, in.Revision), nil)
			}
		}
		item := &types.Item{
			ReadableID:          in.ReadableID,
			Revision:            in.Revision,
			Name:                strings.TrimSpace(in.Name),
			Type:                in.Type,
			ReplenishmentSystem: in.ReplenishmentSystem,
			DefaultMethodType:   in.DefaultMethodType,
			TrackingType:        in.TrackingType,
			UnitOfMeasureCode:   strings.TrimSpace(in.UnitOfMeasureCode),
			// the first revision becomes the default one
			IsDefaultRevision: len(existing) == 0,
		}
		if err := s.items.Create(dbc, item); err != nil {
			return err
		}
		out = item
		return nil
	})
	return out, err
}

func (s *itemService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Item, error) {
	item, err := s.items.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "Manufacturing.Item.Get", fmt.Sprintf("item not found: %s", id), nil)
	}
	return item, nil
}

func (s *itemService) ListRevisions(dbc dbctx.Context, readableID string) ([]*types.Item, error) {
	readableID = strings.TrimSpace(readableID)
	if readableID == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Manufacturing.Item.ListRevisions", "readable_id is required", nil)
	}
	return s.items.ListRevisions(dbc, readableID)
}

func (s *itemService) SetDefaultRevision(ctx context.Context, id uuid.UUID) (*types.Item, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.Get(dbc, id); err != nil {
		return nil, err
	}
	if err := s.items.SetDefaultRevision(dbc, id); err != nil {
		return nil, err
	}
	return s.Get(dbc, id)
}
