package manufacturing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type QuoteMakeMethodRepo interface {
	Create(dbc dbctx.Context, rows []*types.QuoteMakeMethod) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuoteMakeMethod, error)
	GetRootByLine(dbc dbctx.Context, quoteLineID uuid.UUID) (*types.QuoteMakeMethod, error)
	ListByParentMaterials(dbc dbctx.Context, materialIDs []uuid.UUID) ([]*types.QuoteMakeMethod, error)
	DeleteByMakeMethodIDs(dbc dbctx.Context, makeMethodIDs []uuid.UUID) error
}

type quoteMakeMethodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteMakeMethodRepo(db *gorm.DB, baseLog *logger.Logger) QuoteMakeMethodRepo {
	return &quoteMakeMethodRepo{db: db, log: baseLog.With("repo", "QuoteMakeMethodRepo")}
}

func (r *quoteMakeMethodRepo) Create(dbc dbctx.Context, rows []*types.QuoteMakeMethod) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(&rows).Error
}

func (r *quoteMakeMethodRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuoteMakeMethod, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.QuoteMakeMethod
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *quoteMakeMethodRepo) GetRootByLine(dbc dbctx.Context, quoteLineID uuid.UUID) (*types.QuoteMakeMethod, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.QuoteMakeMethod
	err := t.WithContext(dbc.Ctx).
		Where("quote_line_id = ? AND parent_material_id IS NULL", quoteLineID).
		Order("created_at ASC").
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *quoteMakeMethodRepo) ListByParentMaterials(dbc dbctx.Context, materialIDs []uuid.UUID) ([]*types.QuoteMakeMethod, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuoteMakeMethod
	if len(materialIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("parent_material_id IN ?", materialIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quoteMakeMethodRepo) DeleteByMakeMethodIDs(dbc dbctx.Context, makeMethodIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(makeMethodIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("make_method_id IN ?", makeMethodIDs).
		Delete(&types.QuoteMakeMethod{}).Error
}
