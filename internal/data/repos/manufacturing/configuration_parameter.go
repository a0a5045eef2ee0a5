package manufacturing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type ConfigurationParameterRepo interface {
	Create(dbc dbctx.Context, p *types.ConfigurationParameter) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ConfigurationParameter, error)
	ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameter, error)
	MaxSortOrder(dbc dbctx.Context, itemID uuid.UUID) (int, error)
	// MoveToGroup reassigns every parameter of fromGroup to toGroup.
	MoveToGroup(dbc dbctx.Context, fromGroup, toGroup uuid.UUID) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type configurationParameterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConfigurationParameterRepo(db *gorm.DB, baseLog *logger.Logger) ConfigurationParameterRepo {
	return &configurationParameterRepo{db: db, log: baseLog.With("repo", "ConfigurationParameterRepo")}
}

func (r *configurationParameterRepo) Create(dbc dbctx.Context, p *types.ConfigurationParameter) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if p == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(p).Error
}

func (r *configurationParameterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ConfigurationParameter, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.ConfigurationParameter
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *configurationParameterRepo) ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameter, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ConfigurationParameter
	if err := t.WithContext(dbc.Ctx).
		Where("item_id = ?", itemID).
		Order("sort_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *configurationParameterRepo) MaxSortOrder(dbc dbctx.Context, itemID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max int
	err := t.WithContext(dbc.Ctx).
		Model(&types.ConfigurationParameter{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *configurationParameterRepo) MoveToGroup(dbc dbctx.Context, fromGroup, toGroup uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.ConfigurationParameter{}).
		Where("configuration_parameter_group_id = ?", fromGroup).
		Updates(map[string]any{"configuration_parameter_group_id": toGroup, "updated_at": time.Now().UTC()}).Error
}

func (r *configurationParameterRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.ConfigurationParameter{}).Error
}
