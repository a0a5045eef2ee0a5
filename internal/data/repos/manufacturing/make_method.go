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

type MakeMethodRepo interface {
	Create(dbc dbctx.Context, m *types.MakeMethod) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MakeMethod, error)
	// ListByItem returns the item's versioned methods, oldest version first.
	ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.MakeMethod, error)
	ListByItems(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*types.MakeMethod, error)
	MaxVersion(dbc dbctx.Context, itemID uuid.UUID) (int, error)
	// DeactivateOthers moves every Active version of the item except keep to Draft.
	DeactivateOthers(dbc dbctx.Context, itemID, keep uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type makeMethodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMakeMethodRepo(db *gorm.DB, baseLog *logger.Logger) MakeMethodRepo {
	return &makeMethodRepo{db: db, log: baseLog.With("repo", "MakeMethodRepo")}
}

func (r *makeMethodRepo) Create(dbc dbctx.Context, m *types.MakeMethod) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if m == nil {
		return nil
	}
	if m.Scope == "" {
		m.Scope = types.ScopeItem
	}
	if m.Status == "" {
		m.Status = types.MakeMethodDraft
	}
	return t.WithContext(dbc.Ctx).Create(m).Error
}

func (r *makeMethodRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MakeMethod, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.MakeMethod
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *makeMethodRepo) ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.MakeMethod, error) {
	return r.ListByItems(dbc, []uuid.UUID{itemID})
}

func (r *makeMethodRepo) ListByItems(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*types.MakeMethod, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MakeMethod
	if len(itemIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("item_id IN ? AND scope = ?", itemIDs, types.ScopeItem).
		Order("item_id, version ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *makeMethodRepo) MaxVersion(dbc dbctx.Context, itemID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max int
	if err := t.WithContext(dbc.Ctx).
		Model(&types.MakeMethod{}).
		Where("item_id = ? AND scope = ?", itemID, types.ScopeItem).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *makeMethodRepo) DeactivateOthers(dbc dbctx.Context, itemID, keep uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.MakeMethod{}).
		Where("item_id = ? AND scope = ? AND status = ? AND id <> ?", itemID, types.ScopeItem, types.MakeMethodActive, keep).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.MakeMethod{}).
		Where("id IN ? AND status = ?", ids, types.MakeMethodActive).
		Updates(map[string]any{"status": types.MakeMethodDraft, "updated_at": time.Now().UTC()}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *makeMethodRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.MakeMethod{}).Error
}
