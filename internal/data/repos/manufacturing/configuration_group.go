package manufacturing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type ConfigurationParameterGroupRepo interface {
	Create(dbc dbctx.Context, g *types.ConfigurationParameterGroup) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ConfigurationParameterGroup, error)
	ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameterGroup, error)
	// FindOrCreateUngrouped is the only place the ungrouped group is created.
	FindOrCreateUngrouped(dbc dbctx.Context, itemID uuid.UUID) (*types.ConfigurationParameterGroup, error)
	MaxSortOrder(dbc dbctx.Context, itemID uuid.UUID) (int, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type configurationParameterGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConfigurationParameterGroupRepo(db *gorm.DB, baseLog *logger.Logger) ConfigurationParameterGroupRepo {
	return &configurationParameterGroupRepo{db: db, log: baseLog.With("repo", "ConfigurationParameterGroupRepo")}
}

func (r *configurationParameterGroupRepo) Create(dbc dbctx.Context, g *types.ConfigurationParameterGroup) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if g == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(g).Error
}

func (r *configurationParameterGroupRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ConfigurationParameterGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.ConfigurationParameterGroup
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *configurationParameterGroupRepo) ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameterGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ConfigurationParameterGroup
	if err := t.WithContext(dbc.Ctx).
		Where("item_id = ?", itemID).
		Order("sort_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *configurationParameterGroupRepo) FindOrCreateUngrouped(dbc dbctx.Context, itemID uuid.UUID) (*types.ConfigurationParameterGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out *types.ConfigurationParameterGroup
	err := t.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var existing types.ConfigurationParameterGroup
		err := tx.Where("item_id = ? AND is_ungrouped = ?", itemID, true).
			Order("created_at ASC").
			Take(&existing).Error
		if err == nil {
			out = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		max, err := maxGroupSortOrder(tx, itemID)
		if err != nil {
			return err
		}
		g := &types.ConfigurationParameterGroup{
			ItemID:      itemID,
			Name:        types.UngroupedGroupName,
			IsUngrouped: true,
			SortOrder:   max + 1,
		}
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

func (r *configurationParameterGroupRepo) MaxSortOrder(dbc dbctx.Context, itemID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return maxGroupSortOrder(t.WithContext(dbc.Ctx), itemID)
}

func maxGroupSortOrder(db *gorm.DB, itemID uuid.UUID) (int, error) {
	var max int
	err := db.Model(&types.ConfigurationParameterGroup{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *configurationParameterGroupRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.ConfigurationParameterGroup{}).Error
}
