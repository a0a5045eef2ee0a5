package manufacturing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type QuoteRepo interface {
	Create(dbc dbctx.Context, q *types.Quote) error
	CreateLine(dbc dbctx.Context, line *types.QuoteLine) error
	GetLine(dbc dbctx.Context, id uuid.UUID) (*types.QuoteLine, error)
	SetLineConfiguration(dbc dbctx.Context, id uuid.UUID, configuration datatypes.JSON) error
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return &quoteRepo{db: db, log: baseLog.With("repo", "QuoteRepo")}
}

func (r *quoteRepo) Create(dbc dbctx.Context, q *types.Quote) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if q == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(q).Error
}

func (r *quoteRepo) CreateLine(dbc dbctx.Context, line *types.QuoteLine) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if line == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(line).Error
}

func (r *quoteRepo) GetLine(dbc dbctx.Context, id uuid.UUID) (*types.QuoteLine, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.QuoteLine
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *quoteRepo) SetLineConfiguration(dbc dbctx.Context, id uuid.UUID, configuration datatypes.JSON) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.QuoteLine{}).
		Where("id = ?", id).
		Updates(map[string]any{"configuration": configuration, "updated_at": time.Now().UTC()}).Error
}
