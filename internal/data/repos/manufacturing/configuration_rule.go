package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type ConfigurationRuleRepo interface {
	// Upsert writes the rule for (item_id, field), replacing existing code.
	Upsert(dbc dbctx.Context, rule *types.ConfigurationRule) error
	ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationRule, error)
	Delete(dbc dbctx.Context, itemID uuid.UUID, field string) (bool, error)
}

type configurationRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConfigurationRuleRepo(db *gorm.DB, baseLog *logger.Logger) ConfigurationRuleRepo {
	return &configurationRuleRepo{db: db, log: baseLog.With("repo", "ConfigurationRuleRepo")}
}

func (r *configurationRuleRepo) Upsert(dbc dbctx.Context, rule *types.ConfigurationRule) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if rule == nil {
		return nil
	}
	now := time.Now().UTC()
	rule.UpdatedAt = now
	db := t.WithContext(dbc.Ctx)
	if err := db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}, {Name: "field"}},
			DoUpdates: clause.Assignments(map[string]any{
				"code":       rule.Code,
				"updated_at": now,
			}),
		}).
		Create(rule).Error; err != nil {
		return err
	}
	// on conflict the generated id was discarded
	var stored types.ConfigurationRule
	if err := db.Where("item_id = ? AND field = ?", rule.ItemID, rule.Field).Take(&stored).Error; err != nil {
		return err
	}
	*rule = stored
	return nil
}

func (r *configurationRuleRepo) ListByItem(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationRule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ConfigurationRule
	if err := t.WithContext(dbc.Ctx).
		Where("item_id = ?", itemID).
		Order("field ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *configurationRuleRepo) Delete(dbc dbctx.Context, itemID uuid.UUID, field string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("item_id = ? AND field = ?", itemID, field).
		Delete(&types.ConfigurationRule{})
	return res.RowsAffected > 0, res.Error
}
