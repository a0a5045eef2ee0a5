package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/fieldkey"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

const planOp = "Manufacturing.MethodGraph.Plan"

// ReferenceResolver returns the method a Make material should point at when
// the target references component methods instead of owning copies. A nil id
// leaves the material without a sub-method.
type ReferenceResolver interface {
	ActiveMethodID(dbc dbctx.Context, itemID uuid.UUID) (*uuid.UUID, error)
}

// QuoteScope is where owned sub-method containers are registered.
type QuoteScope struct {
	QuoteID     uuid.UUID
	QuoteLineID uuid.UUID
}

type PlanInput struct {
	Source   *Method
	TargetID uuid.UUID
	// Quote is set when the target owns its sub-methods. Source must then be
	// loaded with sub-methods expanded.
	Quote      *QuoteScope
	References ReferenceResolver
	// Resolver may be nil; every field is then copied verbatim.
	Resolver *configrule.Resolver
	NewID    func() uuid.UUID
}

// Plan holds the rows a clone writes. Containers come deepest first, and
// operations precede the materials that reference them.
type Plan struct {
	Containers       []*manufacturing.MakeMethod
	QuoteMakeMethods []*manufacturing.QuoteMakeMethod
	Operations       []*manufacturing.MethodOperation
	Materials        []*manufacturing.MethodMaterial

	// Source to copy id maps. A sub-method copied more than once keeps its last copy.
	MaterialIDs  map[uuid.UUID]uuid.UUID
	OperationIDs map[uuid.UUID]uuid.UUID
}

func BuildPlan(dbc dbctx.Context, in PlanInput) (*Plan, error) {
	if in.Source == nil || in.Source.MakeMethod == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, planOp, "missing source graph", nil)
	}
	if in.TargetID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, planOp, "missing target make method", nil)
	}
	if in.NewID == nil {
		in.NewID = uuid.New
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	p := &planner{
		in:  in,
		dbc: dbc,
		ctx: ctx,
		out: &Plan{
			MaterialIDs:  map[uuid.UUID]uuid.UUID{},
			OperationIDs: map[uuid.UUID]uuid.UUID{},
		},
	}
	if err := p.method(in.Source, in.TargetID); err != nil {
		return nil, err
	}
	return p.out, nil
}

type planner struct {
	in  PlanInput
	dbc dbctx.Context
	ctx context.Context
	out *Plan
}

func (p *planner) method(src *Method, targetID uuid.UUID) error {
	r := p.in.Resolver
	local := make(map[uuid.UUID]uuid.UUID, len(src.Operations))

	for _, op := range src.Operations {
		keep, err := r.Bool(p.ctx, fieldkey.BillOfProcess(src.MakeMethod.ID, op.ID), true)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}
		cp, err := p.operation(op, targetID)
		if err != nil {
			return err
		}
		local[op.ID] = cp.ID
		p.out.OperationIDs[op.ID] = cp.ID
		p.out.Operations = append(p.out.Operations, cp)
	}

	for _, mat := range src.Materials {
		keep, err := r.Bool(p.ctx, fieldkey.BillOfMaterial(src.MakeMethod.ID, mat.Row.ID), true)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}
		cp, err := p.material(mat.Row, targetID, local)
		if err != nil {
			return err
		}
		if cp.MethodType == manufacturing.MethodTypeMake {
			if err := p.subMethod(mat, cp); err != nil {
				return err
			}
		}
		p.out.MaterialIDs[mat.Row.ID] = cp.ID
		p.out.Materials = append(p.out.Materials, cp)
	}
	return nil
}

func (p *planner) subMethod(src *Material, cp *manufacturing.MethodMaterial) error {
	if p.in.Quote == nil {
		if p.in.References == nil {
			return nil
		}
		id, err := p.in.References.ActiveMethodID(p.dbc, cp.ItemID)
		if err != nil {
			return err
		}
		cp.MaterialMakeMethodID = id
		return nil
	}

	// a rule that swaps the component item leaves the old item's method behind
	if src.Sub == nil || cp.ItemID != src.Row.ItemID {
		return nil
	}
	containerID := p.in.NewID()
	if err := p.method(src.Sub, containerID); err != nil {
		return err
	}
	version := src.Sub.MakeMethod.Version
	if version <= 0 {
		version = 1
	}
	p.out.Containers = append(p.out.Containers, &manufacturing.MakeMethod{
		ID:      containerID,
		ItemID:  cp.ItemID,
		Scope:   manufacturing.ScopeQuote,
		Version: version,
		Status:  manufacturing.MakeMethodDraft,
	})
	parent := cp.ID
	p.out.QuoteMakeMethods = append(p.out.QuoteMakeMethods, &manufacturing.QuoteMakeMethod{
		ID:               p.in.NewID(),
		QuoteID:          p.in.Quote.QuoteID,
		QuoteLineID:      p.in.Quote.QuoteLineID,
		ParentMaterialID: &parent,
		ItemID:           cp.ItemID,
		MakeMethodID:     containerID,
		Version:          version,
	})
	cp.MaterialMakeMethodID = &containerID
	return nil
}

func (p *planner) material(src *manufacturing.MethodMaterial, targetID uuid.UUID, ops map[uuid.UUID]uuid.UUID) (*manufacturing.MethodMaterial, error) {
	r := p.in.Resolver
	cp := &manufacturing.MethodMaterial{
		ID:           p.in.NewID(),
		MakeMethodID: targetID,
		Order:        src.Order,
		ItemType:     src.ItemType,
		Description:  src.Description,
		Kit:          src.Kit,
	}
	var err error
	if cp.ItemID, err = r.UUID(p.ctx, fieldkey.Material(fieldkey.MaterialItemID, src.ID), src.ItemID); err != nil {
		return nil, err
	}
	if cp.Quantity, err = r.Decimal(p.ctx, fieldkey.Material(fieldkey.MaterialQuantity, src.ID), src.Quantity); err != nil {
		return nil, err
	}
	mt, err := r.String(p.ctx, fieldkey.Material(fieldkey.MaterialMethodType, src.ID), string(src.MethodType))
	if err != nil {
		return nil, err
	}
	cp.MethodType = manufacturing.MethodType(mt)
	if !cp.MethodType.Valid() {
		return nil, domainagg.NewError(domainagg.CodeValidation, planOp, fmt.Sprintf("material %s resolved to unknown method type %q", src.ID, mt), nil)
	}
	if cp.UnitOfMeasureCode, err = r.String(p.ctx, fieldkey.Material(fieldkey.MaterialUnitOfMeasureCode, src.ID), src.UnitOfMeasureCode); err != nil {
		return nil, err
	}
	if src.MethodOperationID != nil {
		if id, ok := ops[*src.MethodOperationID]; ok {
			cp.MethodOperationID = &id
		}
	}
	return cp, nil
}

func (p *planner) operation(src *manufacturing.MethodOperation, targetID uuid.UUID) (*manufacturing.MethodOperation, error) {
	r := p.in.Resolver
	cp := &manufacturing.MethodOperation{
		ID:                         p.in.NewID(),
		MakeMethodID:               targetID,
		Order:                      src.Order,
		OperationOrder:             src.OperationOrder,
		OperationType:              src.OperationType,
		SetupUnit:                  src.SetupUnit,
		LaborUnit:                  src.LaborUnit,
		MachineUnit:                src.MachineUnit,
		OperationSupplierProcessID: copyID(src.OperationSupplierProcessID),
		OperationMinimumCost:       src.OperationMinimumCost,
		OperationUnitCost:          src.OperationUnitCost,
		OperationLeadTime:          src.OperationLeadTime,
	}
	var err error
	if cp.ProcessID, err = r.OptionalUUID(p.ctx, fieldkey.Operation(fieldkey.OperationProcessID, src.ID), copyID(src.ProcessID)); err != nil {
		return nil, err
	}
	if cp.WorkCenterID, err = r.OptionalUUID(p.ctx, fieldkey.Operation(fieldkey.OperationWorkCenterID, src.ID), copyID(src.WorkCenterID)); err != nil {
		return nil, err
	}
	if cp.Description, err = r.String(p.ctx, fieldkey.Operation(fieldkey.OperationDescription, src.ID), src.Description); err != nil {
		return nil, err
	}
	if cp.SetupTime, err = r.Decimal(p.ctx, fieldkey.Operation(fieldkey.OperationSetupTime, src.ID), src.SetupTime); err != nil {
		return nil, err
	}
	if cp.LaborTime, err = r.Decimal(p.ctx, fieldkey.Operation(fieldkey.OperationLaborTime, src.ID), src.LaborTime); err != nil {
		return nil, err
	}
	if cp.MachineTime, err = r.Decimal(p.ctx, fieldkey.Operation(fieldkey.OperationMachineTime, src.ID), src.MachineTime); err != nil {
		return nil, err
	}

	for _, s := range src.Steps {
		step := manufacturing.MethodOperationStep{
			ID:          p.in.NewID(),
			OperationID: cp.ID,
			Type:        s.Type,
			ListValues:  append(datatypes.JSON(nil), s.ListValues...),
			SortOrder:   s.SortOrder,
		}
		if step.Name, err = r.String(p.ctx, fieldkey.Step(s.ID, fieldkey.StepName, src.ID), s.Name); err != nil {
			return nil, err
		}
		if step.Description, err = r.String(p.ctx, fieldkey.Step(s.ID, fieldkey.StepDescription, src.ID), s.Description); err != nil {
			return nil, err
		}
		if step.MinValue, err = r.NullDecimal(p.ctx, fieldkey.Step(s.ID, fieldkey.StepMinValue, src.ID), s.MinValue); err != nil {
			return nil, err
		}
		if step.MaxValue, err = r.NullDecimal(p.ctx, fieldkey.Step(s.ID, fieldkey.StepMaxValue, src.ID), s.MaxValue); err != nil {
			return nil, err
		}
		if step.UnitOfMeasureCode, err = r.String(p.ctx, fieldkey.Step(s.ID, fieldkey.StepUnitOfMeasureCode, src.ID), s.UnitOfMeasureCode); err != nil {
			return nil, err
		}
		cp.Steps = append(cp.Steps, step)
	}

	for _, prm := range src.Parameters {
		param := manufacturing.MethodOperationParameter{
			ID:          p.in.NewID(),
			OperationID: cp.ID,
			SortOrder:   prm.SortOrder,
		}
		if param.Key, err = r.String(p.ctx, fieldkey.Parameter(prm.ID, fieldkey.ParameterKey, src.ID), prm.Key); err != nil {
			return nil, err
		}
		if param.Value, err = r.String(p.ctx, fieldkey.Parameter(prm.ID, fieldkey.ParameterValue, src.ID), prm.Value); err != nil {
			return nil, err
		}
		cp.Parameters = append(cp.Parameters, param)
	}

	for _, t := range src.Tools {
		tool := manufacturing.MethodOperationTool{
			ID:          p.in.NewID(),
			OperationID: cp.ID,
			SortOrder:   t.SortOrder,
		}
		if tool.ToolID, err = r.UUID(p.ctx, fieldkey.Tool(t.ID, fieldkey.ToolToolID, src.ID), t.ToolID); err != nil {
			return nil, err
		}
		if tool.Quantity, err = r.Decimal(p.ctx, fieldkey.Tool(t.ID, fieldkey.ToolQuantity, src.ID), t.Quantity); err != nil {
			return nil, err
		}
		cp.Tools = append(cp.Tools, tool)
	}
	return cp, nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
