package aggregates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/graph"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type MethodGraphAggregateDeps struct {
	Base BaseDeps

	Items            repos.ItemRepo
	MakeMethods      repos.MakeMethodRepo
	Materials        repos.MethodMaterialRepo
	Operations       repos.MethodOperationRepo
	Parameters       repos.ConfigurationParameterRepo
	Rules            repos.ConfigurationRuleRepo
	Quotes           repos.QuoteRepo
	QuoteMakeMethods repos.QuoteMakeMethodRepo

	// Evaluator runs rule code. Nil uses a fresh expr evaluator per clone.
	Evaluator configrule.Evaluator
	MaxDepth  int
	NewID     func() uuid.UUID
}

type methodGraphAggregate struct {
	deps MethodGraphAggregateDeps
	log  *logger.Logger
}

func NewMethodGraphAggregate(deps MethodGraphAggregateDeps) domainagg.MethodGraphAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.MaxDepth <= 0 {
		deps.MaxDepth = graph.DefaultMaxDepth
	}
	if deps.NewID == nil {
		deps.NewID = uuid.New
	}
	return &methodGraphAggregate{deps: deps, log: deps.Base.Log.With("aggregate", "MethodGraphAggregate")}
}

func (a *methodGraphAggregate) configured() bool {
	d := a.deps
	return d.Items != nil && d.MakeMethods != nil && d.Materials != nil && d.Operations != nil &&
		d.Parameters != nil && d.Rules != nil && d.Quotes != nil && d.QuoteMakeMethods != nil
}

func (a *methodGraphAggregate) loader() *graph.Loader {
	return &graph.Loader{
		MakeMethods: a.deps.MakeMethods,
		Materials:   a.deps.Materials,
		Operations:  a.deps.Operations,
		MaxDepth:    a.deps.MaxDepth,
	}
}

func (a *methodGraphAggregate) Clone(ctx context.Context, in domainagg.CloneMethodGraphInput) (domainagg.CloneMethodGraphResult, error) {
	const op = "Manufacturing.MethodGraph.Clone"
	var out domainagg.CloneMethodGraphResult
	if !in.Source.Kind.Valid() || !in.Target.Kind.Valid() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, fmt.Sprintf("unknown owner kind in %s -> %s", in.Source, in.Target), nil)
	}
	if in.Source.ID == uuid.Nil || in.Target.ID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "source and target ids are required", nil)
	}
	if in.Source == in.Target {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "source and target are the same", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "method graph aggregate repos not configured", nil)
	}

	// reads of the source happen before the write transaction
	rdbc := dbctx.Context{Ctx: ctx}
	srcMM, err := a.resolveSource(rdbc, op, in.Source)
	if err != nil {
		return out, MapError(op, err)
	}
	src, err := a.loader().Load(rdbc, srcMM.ID, in.Target.Kind.QuoteScoped())
	if err != nil {
		return out, MapError(op, err)
	}
	resolver, err := a.resolver(rdbc, srcMM.ItemID, in.Configuration)
	if err != nil {
		return out, MapError(op, err)
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		tgt, err := a.resolveTarget(dbc, op, in.Target)
		if err != nil {
			return err
		}
		if tgt.makeMethod.ID == srcMM.ID {
			return ValidationError("source and target resolve to the same make method")
		}
		if err := a.deleteGraph(dbc, tgt.makeMethod.ID); err != nil {
			return err
		}

		refs := &activeMethods{
			repo:       a.deps.MakeMethods,
			loader:     a.loader(),
			target:     tgt.makeMethod.ID,
			targetItem: tgt.makeMethod.ItemID,
			cache:      map[uuid.UUID]*uuid.UUID{},
		}
		plan, err := graph.BuildPlan(dbc, graph.PlanInput{
			Source:     src,
			TargetID:   tgt.makeMethod.ID,
			Quote:      tgt.quote,
			References: refs,
			Resolver:   resolver,
			NewID:      a.deps.NewID,
		})
		if err != nil {
			return err
		}
		for _, c := range plan.Containers {
			if err := a.deps.MakeMethods.Create(dbc, c); err != nil {
				return err
			}
		}
		if err := a.deps.Operations.Create(dbc, plan.Operations); err != nil {
			return err
		}
		if err := a.deps.Materials.Create(dbc, plan.Materials); err != nil {
			return err
		}
		if err := a.deps.QuoteMakeMethods.Create(dbc, plan.QuoteMakeMethods); err != nil {
			return err
		}

		if in.Target.Kind == types.OwnerQuoteLine && len(in.Configuration) > 0 {
			raw, err := json.Marshal(in.Configuration)
			if err != nil {
				return ValidationError(fmt.Sprintf("configuration is not serializable: %v", err))
			}
			if err := a.deps.Quotes.SetLineConfiguration(dbc, in.Target.ID, datatypes.JSON(raw)); err != nil {
				return err
			}
		}

		out = domainagg.CloneMethodGraphResult{
			SourceMakeMethodID: srcMM.ID,
			TargetMakeMethodID: tgt.makeMethod.ID,
			Materials:          len(plan.Materials),
			Operations:         len(plan.Operations),
			SubMethods:         len(plan.Containers),
			MaterialIDs:        plan.MaterialIDs,
			OperationIDs:       plan.OperationIDs,
		}
		return nil
	})
	if err != nil {
		return domainagg.CloneMethodGraphResult{}, err
	}
	a.log.Debug("method graph cloned",
		"source", in.Source.String(),
		"target", in.Target.String(),
		"materials", out.Materials,
		"operations", out.Operations,
		"sub_methods", out.SubMethods,
	)
	return out, nil
}

func (a *methodGraphAggregate) resolveSource(dbc dbctx.Context, op string, owner types.Owner) (*types.MakeMethod, error) {
	notFound := func(what string) error {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("%s not found for %s", what, owner), nil)
	}
	switch owner.Kind {
	case types.OwnerItem:
		versions, err := a.deps.MakeMethods.ListByItem(dbc, owner.ID)
		if err != nil {
			return nil, err
		}
		mm := types.EffectiveActive(versions)
		if mm == nil {
			return nil, notFound("active make method")
		}
		return mm, nil
	case types.OwnerMakeMethod:
		mm, err := a.deps.MakeMethods.GetByID(dbc, owner.ID)
		if err != nil {
			return nil, err
		}
		if mm == nil {
			return nil, notFound("make method")
		}
		return mm, nil
	case types.OwnerQuoteLine:
		root, err := a.deps.QuoteMakeMethods.GetRootByLine(dbc, owner.ID)
		if err != nil {
			return nil, err
		}
		if root == nil {
			return nil, notFound("quote make method")
		}
		return a.container(dbc, op, root)
	case types.OwnerQuoteMakeMethod:
		qmm, err := a.deps.QuoteMakeMethods.GetByID(dbc, owner.ID)
		if err != nil {
			return nil, err
		}
		if qmm == nil {
			return nil, notFound("quote make method")
		}
		return a.container(dbc, op, qmm)
	}
	return nil, domainagg.NewError(domainagg.CodeInternal, op, fmt.Sprintf("unknown owner kind %q", owner.Kind), nil)
}

func (a *methodGraphAggregate) container(dbc dbctx.Context, op string, qmm *types.QuoteMakeMethod) (*types.MakeMethod, error) {
	mm, err := a.deps.MakeMethods.GetByID(dbc, qmm.MakeMethodID)
	if err != nil {
		return nil, err
	}
	if mm == nil {
		return nil, domainagg.NewError(domainagg.CodeInvariantViolation, op, fmt.Sprintf("quote make method %s has no container", qmm.ID), nil)
	}
	return mm, nil
}

type cloneTarget struct {
	makeMethod *types.MakeMethod
	// quote is set for targets that own their sub-methods.
	quote *graph.QuoteScope
}

func (a *methodGraphAggregate) resolveTarget(dbc dbctx.Context, op string, owner types.Owner) (cloneTarget, error) {
	var out cloneTarget
	switch owner.Kind {
	case types.OwnerItem:
		item, err := a.deps.Items.GetByID(dbc, owner.ID)
		if err != nil {
			return out, err
		}
		if item == nil {
			return out, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item not found: %s", owner.ID), nil)
		}
		versions, err := a.deps.MakeMethods.ListByItem(dbc, item.ID)
		if err != nil {
			return out, err
		}
		if mm := types.EffectiveActive(versions); mm != nil {
			out.makeMethod = mm
			return out, nil
		}
		if len(versions) > 0 {
			return out, ValidationError(fmt.Sprintf("item %s has several make method versions and none is active", item.ReadableID))
		}
		if !item.ReplenishmentSystem.CanMake() {
			return out, ValidationError(fmt.Sprintf("item %s cannot own a make method", item.ReadableID))
		}
		mm := &types.MakeMethod{ID: a.deps.NewID(), ItemID: item.ID, Scope: types.ScopeItem, Version: 1, Status: types.MakeMethodDraft}
		if err := a.deps.MakeMethods.Create(dbc, mm); err != nil {
			return out, err
		}
		out.makeMethod = mm
		return out, nil

	case types.OwnerMakeMethod:
		mm, err := a.deps.MakeMethods.GetByID(dbc, owner.ID)
		if err != nil {
			return out, err
		}
		if mm == nil {
			return out, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("make method not found: %s", owner.ID), nil)
		}
		out.makeMethod = mm
		return out, nil

	case types.OwnerQuoteLine:
		line, err := a.deps.Quotes.GetLine(dbc, owner.ID)
		if err != nil {
			return out, err
		}
		if line == nil {
			return out, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("quote line not found: %s", owner.ID), nil)
		}
		out.quote = &graph.QuoteScope{QuoteID: line.QuoteID, QuoteLineID: line.ID}
		root, err := a.deps.QuoteMakeMethods.GetRootByLine(dbc, line.ID)
		if err != nil {
			return out, err
		}
		if root != nil {
			mm, err := a.container(dbc, op, root)
			if err != nil {
				return out, err
			}
			out.makeMethod = mm
			return out, nil
		}
		mm := &types.MakeMethod{ID: a.deps.NewID(), ItemID: line.ItemID, Scope: types.ScopeQuote, Version: 1, Status: types.MakeMethodDraft}
		if err := a.deps.MakeMethods.Create(dbc, mm); err != nil {
			return out, err
		}
		root = &types.QuoteMakeMethod{
			ID:           a.deps.NewID(),
			QuoteID:      line.QuoteID,
			QuoteLineID:  line.ID,
			ItemID:       line.ItemID,
			MakeMethodID: mm.ID,
			Version:      1,
		}
		if err := a.deps.QuoteMakeMethods.Create(dbc, []*types.QuoteMakeMethod{root}); err != nil {
			return out, err
		}
		out.makeMethod = mm
		return out, nil

	case types.OwnerQuoteMakeMethod:
		qmm, err := a.deps.QuoteMakeMethods.GetByID(dbc, owner.ID)
		if err != nil {
			return out, err
		}
		if qmm == nil {
			return out, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("quote make method not found: %s", owner.ID), nil)
		}
		mm, err := a.container(dbc, op, qmm)
		if err != nil {
			return out, err
		}
		out.makeMethod = mm
		out.quote = &graph.QuoteScope{QuoteID: qmm.QuoteID, QuoteLineID: qmm.QuoteLineID}
		return out, nil
	}
	return out, domainagg.NewError(domainagg.CodeInternal, op, fmt.Sprintf("unknown owner kind %q", owner.Kind), nil)
}

// deleteGraph removes the materials and operations of a make method together
// with every quote sub-method it owns. The make method row itself stays.
func (a *methodGraphAggregate) deleteGraph(dbc dbctx.Context, makeMethodID uuid.UUID) error {
	all := []uuid.UUID{makeMethodID}
	var owned []uuid.UUID
	seen := map[uuid.UUID]bool{makeMethodID: true}
	frontier := []uuid.UUID{makeMethodID}
	for len(frontier) > 0 {
		mats, err := a.deps.Materials.ListByMakeMethods(dbc, frontier)
		if err != nil {
			return err
		}
		matIDs := make([]uuid.UUID, 0, len(mats))
		for _, m := range mats {
			matIDs = append(matIDs, m.ID)
		}
		subs, err := a.deps.QuoteMakeMethods.ListByParentMaterials(dbc, matIDs)
		if err != nil {
			return err
		}
		var next []uuid.UUID
		for _, q := range subs {
			if seen[q.MakeMethodID] {
				continue
			}
			seen[q.MakeMethodID] = true
			owned = append(owned, q.MakeMethodID)
			next = append(next, q.MakeMethodID)
		}
		all = append(all, next...)
		frontier = next
	}

	if err := a.deps.Operations.DeleteByMakeMethodIDs(dbc, all); err != nil {
		return err
	}
	if err := a.deps.Materials.DeleteByMakeMethodIDs(dbc, all); err != nil {
		return err
	}
	if err := a.deps.QuoteMakeMethods.DeleteByMakeMethodIDs(dbc, owned); err != nil {
		return err
	}
	return a.deps.MakeMethods.DeleteByIDs(dbc, owned)
}

func (a *methodGraphAggregate) resolver(dbc dbctx.Context, itemID uuid.UUID, cfg map[string]any) (*configrule.Resolver, error) {
	if len(cfg) == 0 {
		return nil, nil
	}
	var (
		rules  []*types.ConfigurationRule
		params []*types.ConfigurationParameter
	)
	g, ctx := errgroup.WithContext(dbc.Ctx)
	gdbc := dbctx.Context{Ctx: ctx}
	g.Go(func() error {
		var err error
		rules, err = a.deps.Rules.ListByItem(gdbc, itemID)
		return err
	})
	g.Go(func() error {
		var err error
		params, err = a.deps.Parameters.ListByItem(gdbc, itemID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	eval := a.deps.Evaluator
	if eval == nil {
		eval = configrule.NewExprEvaluator(0)
	}
	return configrule.NewResolver(configrule.Input{
		ItemID:        itemID,
		Rules:         rules,
		Parameters:    params,
		Configuration: cfg,
		Evaluator:     eval,
	})
}

// activeMethods points Make materials of item-scoped targets at the
// component item's effective active method. A referenced method whose graph
// reaches the target item, or the target method itself, would make the item
// consume itself and is rejected.
type activeMethods struct {
	repo       repos.MakeMethodRepo
	loader     *graph.Loader
	target     uuid.UUID
	targetItem uuid.UUID
	cache      map[uuid.UUID]*uuid.UUID
}

func (r *activeMethods) ActiveMethodID(dbc dbctx.Context, itemID uuid.UUID) (*uuid.UUID, error) {
	if id, ok := r.cache[itemID]; ok {
		return id, nil
	}
	if itemID == r.targetItem {
		return nil, InvariantError(fmt.Sprintf("item %s would list itself as a component of make method %s", itemID, r.target))
	}
	versions, err := r.repo.ListByItem(dbc, itemID)
	if err != nil {
		return nil, err
	}
	var id *uuid.UUID
	if mm := types.EffectiveActive(versions); mm != nil {
		sub, err := r.loader.Load(dbc, mm.ID, true)
		if err != nil {
			return nil, err
		}
		if sub.Reaches(r.consumesTarget) {
			return nil, InvariantError(fmt.Sprintf("make method %s of item %s consumes item %s", mm.ID, itemID, r.targetItem))
		}
		v := mm.ID
		id = &v
	}
	r.cache[itemID] = id
	return id, nil
}

func (r *activeMethods) consumesTarget(mm *types.MakeMethod) bool {
	return mm.ID == r.target || mm.ItemID == r.targetItem
}
