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

type ItemRepo interface {
	Create(dbc dbctx.Context, item *types.Item) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Item, error)
	ListRevisions(dbc dbctx.Context, readableID string) ([]*types.Item, error)
	SetDefaultRevision(dbc dbctx.Context, id uuid.UUID) error
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return &itemRepo{db: db, log: baseLog.With("repo", "ItemRepo")}
}

func (r *itemRepo) Create(dbc dbctx.Context, item *types.Item) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if item == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(item).Error
}

// GetByID returns nil without error when the item does not exist.
func (r *itemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Item, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.Item
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *itemRepo) ListRevisions(dbc dbctx.Context, readableID string) ([]*types.Item, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Item
	if err := t.WithContext(dbc.Ctx).
		Where("readable_id = ?", readableID).
		Order("created_at ASC, revision ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetDefaultRevision makes id the only default revision among items sharing
// its readable id.
func (r *itemRepo) SetDefaultRevision(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var item types.Item
		if err := tx.Where("id = ?", id).Take(&item).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&types.Item{}).
			Where("readable_id = ? AND id <> ?", item.ReadableID, id).
			Updates(map[string]any{"is_default_revision": false, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&types.Item{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_default_revision": true, "updated_at": now}).Error
	})
}
