// Package graph loads a make method together with its materials and
// operations and plans the rows needed to copy it onto another owner.
package graph

import (
	"sort"

	"github.com/google/uuid"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
)

const DefaultMaxDepth = 20

// Method is one make method with its bill of materials and bill of process.
type Method struct {
	MakeMethod *manufacturing.MakeMethod
	Materials  []*Material
	Operations []*manufacturing.MethodOperation
}

// Material is one bill-of-materials line. Sub is set when the line is a Make
// material and the loader was asked to expand sub-methods.
type Material struct {
	Row *manufacturing.MethodMaterial
	Sub *Method
}

// Reaches reports whether pred holds for this make method or any loaded
// sub-method below it.
func (m *Method) Reaches(pred func(*manufacturing.MakeMethod) bool) bool {
	if m == nil {
		return false
	}
	if m.MakeMethod != nil && pred(m.MakeMethod) {
		return true
	}
	for _, mat := range m.Materials {
		if mat.Sub.Reaches(pred) {
			return true
		}
	}
	return false
}

func sortMaterials(rows []*manufacturing.MethodMaterial) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Order != rows[j].Order {
			return rows[i].Order < rows[j].Order
		}
		return lessID(rows[i].ID, rows[j].ID)
	})
}

func sortOperations(ops []*manufacturing.MethodOperation) {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Order != ops[j].Order {
			return ops[i].Order < ops[j].Order
		}
		return lessID(ops[i].ID, ops[j].ID)
	})
	for _, op := range ops {
		sort.SliceStable(op.Steps, func(i, j int) bool { return op.Steps[i].SortOrder < op.Steps[j].SortOrder })
		sort.SliceStable(op.Parameters, func(i, j int) bool { return op.Parameters[i].SortOrder < op.Parameters[j].SortOrder })
		sort.SliceStable(op.Tools, func(i, j int) bool { return op.Tools[i].SortOrder < op.Tools[j].SortOrder })
	}
}

func lessID(a, b uuid.UUID) bool { return a.String() < b.String() }
