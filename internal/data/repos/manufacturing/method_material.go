package manufacturing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type MethodMaterialRepo interface {
	Create(dbc dbctx.Context, rows []*types.MethodMaterial) error
	ListByMakeMethod(dbc dbctx.Context, makeMethodID uuid.UUID) ([]*types.MethodMaterial, error)
	ListByMakeMethods(dbc dbctx.Context, makeMethodIDs []uuid.UUID) ([]*types.MethodMaterial, error)
	DeleteByMakeMethodIDs(dbc dbctx.Context, makeMethodIDs []uuid.UUID) error
	// TreeRows flattens the material tree under a make method, following Make
	// materials into their sub-methods level by level.
	TreeRows(dbc dbctx.Context, makeMethodID uuid.UUID, maxDepth int) (TreeRowsResult, error)
}

type TreeRowsResult struct {
	Rows []types.MethodTreeRow
	// Truncated lists sub-methods not expanded because they were already on
	// the path (a cycle) or sat below maxDepth.
	Truncated []uuid.UUID
}

type methodMaterialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMethodMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MethodMaterialRepo {
	return &methodMaterialRepo{db: db, log: baseLog.With("repo", "MethodMaterialRepo")}
}

func (r *methodMaterialRepo) Create(dbc dbctx.Context, rows []*types.MethodMaterial) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(&rows).Error
}

func (r *methodMaterialRepo) ListByMakeMethod(dbc dbctx.Context, makeMethodID uuid.UUID) ([]*types.MethodMaterial, error) {
	return r.ListByMakeMethods(dbc, []uuid.UUID{makeMethodID})
}

func (r *methodMaterialRepo) ListByMakeMethods(dbc dbctx.Context, makeMethodIDs []uuid.UUID) ([]*types.MethodMaterial, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MethodMaterial
	if len(makeMethodIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("make_method_id IN ?", makeMethodIDs).
		Order("make_method_id, sort_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *methodMaterialRepo) DeleteByMakeMethodIDs(dbc dbctx.Context, makeMethodIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(makeMethodIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("make_method_id IN ?", makeMethodIDs).
		Delete(&types.MethodMaterial{}).Error
}

type treeFrontier struct {
	makeMethodID uuid.UUID
	parent       *uuid.UUID
	path         map[uuid.UUID]bool
}

func (r *methodMaterialRepo) TreeRows(dbc dbctx.Context, makeMethodID uuid.UUID, maxDepth int) (TreeRowsResult, error) {
	var out TreeRowsResult
	if maxDepth <= 0 {
		maxDepth = 1
	}
	frontier := []treeFrontier{{makeMethodID: makeMethodID, path: map[uuid.UUID]bool{makeMethodID: true}}}
	itemIDs := map[uuid.UUID]bool{}

	for level := 0; len(frontier) > 0; level++ {
		ids := make([]uuid.UUID, 0, len(frontier))
		seen := map[uuid.UUID]bool{}
		for _, f := range frontier {
			if !seen[f.makeMethodID] {
				seen[f.makeMethodID] = true
				ids = append(ids, f.makeMethodID)
			}
		}
		mats, err := r.ListByMakeMethods(dbc, ids)
		if err != nil {
			return out, err
		}
		byMethod := map[uuid.UUID][]*types.MethodMaterial{}
		for _, m := range mats {
			byMethod[m.MakeMethodID] = append(byMethod[m.MakeMethodID], m)
		}

		var next []treeFrontier
		for _, f := range frontier {
			for _, m := range byMethod[f.makeMethodID] {
				itemIDs[m.ItemID] = true
				out.Rows = append(out.Rows, types.MethodTreeRow{
					MethodMaterialID:     m.ID,
					ParentMaterialID:     f.parent,
					MakeMethodID:         m.MakeMethodID,
					MaterialMakeMethodID: m.MaterialMakeMethodID,
					ItemID:               m.ItemID,
					ItemType:             m.ItemType,
					MethodType:           m.MethodType,
					Description:          m.Description,
					Quantity:             m.Quantity,
					UnitOfMeasureCode:    m.UnitOfMeasureCode,
					Kit:                  m.Kit,
					Order:                m.Order,
					Level:                level,
				})
				if m.MethodType != types.MethodTypeMake || m.MaterialMakeMethodID == nil {
					continue
				}
				sub := *m.MaterialMakeMethodID
				if f.path[sub] || level+1 >= maxDepth {
					out.Truncated = append(out.Truncated, sub)
					continue
				}
				path := make(map[uuid.UUID]bool, len(f.path)+1)
				for k := range f.path {
					path[k] = true
				}
				path[sub] = true
				parent := m.ID
				next = append(next, treeFrontier{makeMethodID: sub, parent: &parent, path: path})
			}
		}
		frontier = next
	}

	if len(itemIDs) > 0 {
		t := dbc.Tx
		if t == nil {
			t = r.db
		}
		ids := make([]uuid.UUID, 0, len(itemIDs))
		for id := range itemIDs {
			ids = append(ids, id)
		}
		var items []types.Item
		if err := t.WithContext(dbc.Ctx).Select("id", "readable_id").Where("id IN ?", ids).Find(&items).Error; err != nil {
			return out, err
		}
		readable := make(map[uuid.UUID]string, len(items))
		for _, it := range items {
			readable[it.ID] = it.ReadableID
		}
		for i := range out.Rows {
			out.Rows[i].ItemReadableID = readable[out.Rows[i].ItemID]
		}
	}
	return out, nil
}
