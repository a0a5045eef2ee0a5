package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

const loadOp = "Manufacturing.MethodGraph.Load"

type MakeMethodReader interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*manufacturing.MakeMethod, error)
}

type MaterialReader interface {
	ListByMakeMethod(dbc dbctx.Context, makeMethodID uuid.UUID) ([]*manufacturing.MethodMaterial, error)
}

type OperationReader interface {
	ListByMakeMethod(dbc dbctx.Context, makeMethodID uuid.UUID) ([]*manufacturing.MethodOperation, error)
}

// Loader reads method graphs. With expand set it follows Make materials into
// their sub-methods; a sub-method already on the current path or a graph
// deeper than MaxDepth is an invariant violation.
type Loader struct {
	MakeMethods MakeMethodReader
	Materials   MaterialReader
	Operations  OperationReader
	MaxDepth    int
}

func (l *Loader) Load(dbc dbctx.Context, makeMethodID uuid.UUID, expand bool) (*Method, error) {
	if l == nil || l.MakeMethods == nil || l.Materials == nil || l.Operations == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, loadOp, "method graph loader not configured", nil)
	}
	return l.load(dbc, makeMethodID, expand, map[uuid.UUID]bool{}, 0)
}

func (l *Loader) maxDepth() int {
	if l.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return l.MaxDepth
}

func (l *Loader) load(dbc dbctx.Context, id uuid.UUID, expand bool, onPath map[uuid.UUID]bool, depth int) (*Method, error) {
	if onPath[id] {
		return nil, domainagg.NewError(domainagg.CodeInvariantViolation, loadOp, fmt.Sprintf("make method %s references itself through its materials", id), nil)
	}
	if depth >= l.maxDepth() {
		return nil, domainagg.NewError(domainagg.CodeInvariantViolation, loadOp, fmt.Sprintf("method graph deeper than %d levels at make method %s", l.maxDepth(), id), nil)
	}

	mm, err := l.MakeMethods.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if mm == nil {
		if depth == 0 {
			return nil, domainagg.NewError(domainagg.CodeNotFound, loadOp, fmt.Sprintf("make method not found: %s", id), nil)
		}
		return nil, domainagg.NewError(domainagg.CodeInvariantViolation, loadOp, fmt.Sprintf("material points at missing make method %s", id), nil)
	}

	mats, ops, err := l.fetch(dbc, id)
	if err != nil {
		return nil, err
	}
	sortMaterials(mats)
	sortOperations(ops)

	out := &Method{MakeMethod: mm, Operations: ops, Materials: make([]*Material, 0, len(mats))}
	if expand {
		onPath[id] = true
		defer delete(onPath, id)
	}
	for _, row := range mats {
		m := &Material{Row: row}
		if expand && row.MethodType == manufacturing.MethodTypeMake && row.MaterialMakeMethodID != nil {
			sub, err := l.load(dbc, *row.MaterialMakeMethodID, true, onPath, depth+1)
			if err != nil {
				return nil, err
			}
			m.Sub = sub
		}
		out.Materials = append(out.Materials, m)
	}
	return out, nil
}

// fetch reads materials and operations. Outside a transaction the two reads
// run concurrently; a transaction pins one connection so they run in turn.
func (l *Loader) fetch(dbc dbctx.Context, id uuid.UUID) ([]*manufacturing.MethodMaterial, []*manufacturing.MethodOperation, error) {
	var (
		mats []*manufacturing.MethodMaterial
		ops  []*manufacturing.MethodOperation
	)
	if dbc.Tx != nil {
		var err error
		if mats, err = l.Materials.ListByMakeMethod(dbc, id); err != nil {
			return nil, nil, err
		}
		if ops, err = l.Operations.ListByMakeMethod(dbc, id); err != nil {
			return nil, nil, err
		}
		return mats, ops, nil
	}

	parent := dbc.Ctx
	if parent == nil {
		parent = context.Background()
	}
	g, ctx := errgroup.WithContext(parent)
	gdbc := dbctx.Context{Ctx: ctx}
	g.Go(func() error {
		var err error
		mats, err = l.Materials.ListByMakeMethod(gdbc, id)
		return err
	})
	g.Go(func() error {
		var err error
		ops, err = l.Operations.ListByMakeMethod(gdbc, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return mats, ops, nil
}
