package manufacturing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type MethodOperationRepo interface {
	// Create inserts operations and their steps, parameters and tools.
	Create(dbc dbctx.Context, ops []*types.MethodOperation) error
	// ListByMakeMethod returns operations with children preloaded in sort order.
	ListByMakeMethod(dbc dbctx.Context, makeMethodID uuid.UUID) ([]*types.MethodOperation, error)
	ListByMakeMethods(dbc dbctx.Context, makeMethodIDs []uuid.UUID) ([]*types.MethodOperation, error)
	DeleteByMakeMethodIDs(dbc dbctx.Context, makeMethodIDs []uuid.UUID) error
}

type methodOperationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMethodOperationRepo(db *gorm.DB, baseLog *logger.Logger) MethodOperationRepo {
	return &methodOperationRepo{db: db, log: baseLog.With("repo", "MethodOperationRepo")}
}

func (r *methodOperationRepo) Create(dbc dbctx.Context, ops []*types.MethodOperation) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ops) == 0 {
		return nil
	}
	var (
		steps  []*types.MethodOperationStep
		params []*types.MethodOperationParameter
		tools  []*types.MethodOperationTool
	)
	for _, op := range ops {
		if op.ID == uuid.Nil {
			op.ID = uuid.New()
		}
		for i := range op.Steps {
			op.Steps[i].OperationID = op.ID
			steps = append(steps, &op.Steps[i])
		}
		for i := range op.Parameters {
			op.Parameters[i].OperationID = op.ID
			params = append(params, &op.Parameters[i])
		}
		for i := range op.Tools {
			op.Tools[i].OperationID = op.ID
			tools = append(tools, &op.Tools[i])
		}
	}

	db := t.WithContext(dbc.Ctx)
	if err := db.Omit(clause.Associations).Create(&ops).Error; err != nil {
		return err
	}
	if len(steps) > 0 {
		if err := db.Create(&steps).Error; err != nil {
			return err
		}
	}
	if len(params) > 0 {
		if err := db.Create(&params).Error; err != nil {
			return err
		}
	}
	if len(tools) > 0 {
		if err := db.Create(&tools).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *methodOperationRepo) ListByMakeMethod(dbc dbctx.Context, makeMethodID uuid.UUID) ([]*types.MethodOperation, error) {
	return r.ListByMakeMethods(dbc, []uuid.UUID{makeMethodID})
}

func (r *methodOperationRepo) ListByMakeMethods(dbc dbctx.Context, makeMethodIDs []uuid.UUID) ([]*types.MethodOperation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MethodOperation
	if len(makeMethodIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Tools", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Where("make_method_id IN ?", makeMethodIDs).
		Order("make_method_id, sort_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *methodOperationRepo) DeleteByMakeMethodIDs(dbc dbctx.Context, makeMethodIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(makeMethodIDs) == 0 {
		return nil
	}
	db := t.WithContext(dbc.Ctx)
	opIDs := db.Model(&types.MethodOperation{}).Select("id").Where("make_method_id IN ?", makeMethodIDs)
	for _, child := range []any{&types.MethodOperationStep{}, &types.MethodOperationParameter{}, &types.MethodOperationTool{}} {
		if err := db.Where("operation_id IN (?)", opIDs).Delete(child).Error; err != nil {
			return err
		}
	}
	return db.Where("make_method_id IN ?", makeMethodIDs).Delete(&types.MethodOperation{}).Error
}
