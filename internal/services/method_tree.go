package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/graph"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/methodtree"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type MethodTreeService interface {
	// GetTree renders the bill of materials below a make method. Node ids
	// are generated per call and only identify nodes within the response.
	GetTree(dbc dbctx.Context, makeMethodID uuid.UUID) (*MethodTree, error)
}

type MethodTree struct {
	MakeMethodID uuid.UUID         `json:"make_method_id"`
	Nodes        []*MethodTreeNode `json:"nodes"`
	// Orphans are parent material ids referenced by rows but never loaded.
	Orphans []uuid.UUID `json:"orphans,omitempty"`
	// Truncated are sub-methods not expanded because of a cycle or the depth limit.
	Truncated []uuid.UUID `json:"truncated,omitempty"`
	NodeCount int         `json:"node_count"`
	// Depth is the number of levels rendered; a flat bill has depth 1.
	Depth int `json:"depth"`
}

type MethodTreeNode struct {
	ID               uuid.UUID            `json:"id"`
	MethodMaterialID uuid.UUID            `json:"method_material_id"`
	Material         *types.MethodTreeRow `json:"material,omitempty"`
	Children         []*MethodTreeNode    `json:"children,omitempty"`
}

type methodTreeService struct {
	log         *logger.Logger
	makeMethods repos.MakeMethodRepo
	materials   repos.MethodMaterialRepo
	metrics     *observability.Metrics
	maxDepth    int
	newID       methodtree.IDFunc
}

func NewMethodTreeService(
	baseLog *logger.Logger,
	makeMethods repos.MakeMethodRepo,
	materials repos.MethodMaterialRepo,
	metrics *observability.Metrics,
	maxDepth int,
) MethodTreeService {
	if maxDepth <= 0 {
		maxDepth = graph.DefaultMaxDepth
	}
	return &methodTreeService{
		log:         baseLog.With("service", "MethodTreeService"),
		makeMethods: makeMethods,
		materials:   materials,
		metrics:     metrics,
		maxDepth:    maxDepth,
		newID:       uuid.New,
	}
}

func byMaterialOrder(a, b *types.MethodTreeRow) bool {
	if a.Level != b.Level {
		return a.Level < b.Level
	}
	return a.Order < b.Order
}

func (s *methodTreeService) GetTree(dbc dbctx.Context, makeMethodID uuid.UUID) (*MethodTree, error) {
	const op = "Manufacturing.MethodTree.Get"
	if makeMethodID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing make_method_id", nil)
	}
	mm, err := s.makeMethods.GetByID(dbc, makeMethodID)
	if err != nil {
		return nil, fmt.Errorf("load make method: %w", err)
	}
	if mm == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("make method not found: %s", makeMethodID), nil)
	}

	res, err := s.materials.TreeRows(dbc, makeMethodID, s.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("load method tree rows: %w", err)
	}
	rows := make([]methodtree.Row[types.MethodTreeRow], 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, methodtree.Row[types.MethodTreeRow]{ID: r.MethodMaterialID, ParentID: r.ParentMaterialID, Data: r})
	}
	forest := methodtree.BuildForest(rows, byMaterialOrder)
	if len(forest.Orphans) > 0 || len(forest.Detached) > 0 {
		s.metrics.AddTreeOrphans(len(forest.Orphans) + len(forest.Detached))
		s.log.Warn("method tree has rows without a loaded parent",
			"make_method_id", makeMethodID,
			"orphans", len(forest.Orphans),
			"detached", len(forest.Detached),
		)
	}

	out := &MethodTree{
		MakeMethodID: makeMethodID,
		Nodes:        make([]*MethodTreeNode, 0, len(forest.Roots)),
		Orphans:      forest.Orphans,
		Truncated:    res.Truncated,
	}
	roots := methodtree.Remap(forest.Roots, s.newID)
	methodtree.Walk(roots, func(_ *methodtree.Node[types.MethodTreeRow], depth int) {
		out.NodeCount++
		if depth+1 > out.Depth {
			out.Depth = depth + 1
		}
	})
	for _, n := range roots {
		out.Nodes = append(out.Nodes, toTreeNode(n))
	}
	return out, nil
}

func toTreeNode(n *methodtree.Node[types.MethodTreeRow]) *MethodTreeNode {
	out := &MethodTreeNode{ID: n.ID, MethodMaterialID: n.SourceID, Material: n.Data}
	for _, c := range n.Children {
		out.Children = append(out.Children, toTreeNode(c))
	}
	return out
}
