package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

const (
	stepDeactivateSiblings = "deactivate_siblings"
	stepActivateTarget     = "activate_target"
)

type MakeMethodAggregateDeps struct {
	Base BaseDeps

	Items       repos.ItemRepo
	MakeMethods repos.MakeMethodRepo
}

type makeMethodAggregate struct {
	deps MakeMethodAggregateDeps
	log  *logger.Logger
}

func NewMakeMethodAggregate(deps MakeMethodAggregateDeps) domainagg.MakeMethodAggregate {
	deps.Base = deps.Base.withDefaults()
	return &makeMethodAggregate{deps: deps, log: deps.Base.Log.With("aggregate", "MakeMethodAggregate")}
}

func (a *makeMethodAggregate) configured(op string) error {
	if a.deps.Items == nil || a.deps.MakeMethods == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "make method aggregate repos not configured", nil)
	}
	return nil
}

func (a *makeMethodAggregate) EnsureForItem(ctx context.Context, itemID uuid.UUID) (domainagg.EnsureMakeMethodResult, error) {
	const op = "Manufacturing.MakeMethod.EnsureForItem"
	var out domainagg.EnsureMakeMethodResult
	if itemID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing item_id", nil)
	}
	if err := a.configured(op); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		item, err := a.deps.Items.GetByID(dbc, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item not found: %s", itemID), nil)
		}
		versions, err := a.deps.MakeMethods.ListByItem(dbc, itemID)
		if err != nil {
			return err
		}
		if eff := types.EffectiveActive(versions); eff != nil {
			out.MakeMethod = eff
			return nil
		}
		if len(versions) > 0 {
			// several drafts and none active: hand back the newest
			out.MakeMethod = versions[len(versions)-1]
			return nil
		}
		if !item.ReplenishmentSystem.CanMake() {
			return ValidationError(fmt.Sprintf("item %s is replenished by %q and cannot own a make method", item.ReadableID, item.ReplenishmentSystem))
		}
		mm := &types.MakeMethod{
			ID:      uuid.New(),
			ItemID:  itemID,
			Scope:   types.ScopeItem,
			Version: 1,
			Status:  types.MakeMethodDraft,
		}
		if err := a.deps.MakeMethods.Create(dbc, mm); err != nil {
			return err
		}
		out.MakeMethod = mm
		out.Created = true
		return nil
	})
	return out, err
}

func (a *makeMethodAggregate) CreateVersion(ctx context.Context, in domainagg.CreateMakeMethodVersionInput) (domainagg.CreateMakeMethodVersionResult, error) {
	const op = "Manufacturing.MakeMethod.CreateVersion"
	var out domainagg.CreateMakeMethodVersionResult
	if in.CopyFromID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing copy_from_id", nil)
	}
	if in.Version <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "version must be positive", nil)
	}
	if err := a.configured(op); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		src, err := a.deps.MakeMethods.GetByID(dbc, in.CopyFromID)
		if err != nil {
			return err
		}
		if src == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("make method not found: %s", in.CopyFromID), nil)
		}
		if src.Scope != types.ScopeItem {
			return ValidationError("quote make methods are not versioned")
		}
		max, err := a.deps.MakeMethods.MaxVersion(dbc, src.ItemID)
		if err != nil {
			return err
		}
		if in.Version <= max {
			return ValidationError(fmt.Sprintf("version %d must be greater than the current highest version %d", in.Version, max))
		}
		mm := &types.MakeMethod{
			ID:      uuid.New(),
			ItemID:  src.ItemID,
			Scope:   types.ScopeItem,
			Version: in.Version,
			Status:  types.MakeMethodDraft,
		}
		if err := a.deps.MakeMethods.Create(dbc, mm); err != nil {
			return err
		}
		out.MakeMethod = mm
		return nil
	})
	if err != nil || !in.ActivateImmediately {
		return out, err
	}

	// best effort: the new version exists whatever happens here
	var deactivated []uuid.UUID
	derr := executeWrite(ctx, a.deps.Base, op+".DeactivatePrevious", func(dbc dbctx.Context) error {
		ids, err := a.deps.MakeMethods.DeactivateOthers(dbc, out.MakeMethod.ItemID, out.MakeMethod.ID)
		deactivated = ids
		return err
	})
	if derr != nil {
		out.DeactivationErr = derr
		a.log.Warn("previous active make method not deactivated",
			"item_id", out.MakeMethod.ItemID,
			"make_method_id", out.MakeMethod.ID,
			"error", derr,
		)
		return out, nil
	}
	if len(deactivated) > 0 {
		prev := deactivated[0]
		out.PreviousActiveID = &prev
	}
	return out, nil
}

func (a *makeMethodAggregate) Activate(ctx context.Context, makeMethodID uuid.UUID) (domainagg.ActivateMakeMethodResult, error) {
	const op = "Manufacturing.MakeMethod.Activate"
	var out domainagg.ActivateMakeMethodResult
	if makeMethodID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing make_method_id", nil)
	}
	if err := a.configured(op); err != nil {
		return out, err
	}

	// siblings go first so a failed second write never leaves two Active rows
	err := executeWrite(ctx, a.deps.Base, op+".DeactivateSiblings", func(dbc dbctx.Context) error {
		mm, err := a.deps.MakeMethods.GetByID(dbc, makeMethodID)
		if err != nil {
			return err
		}
		if mm == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("make method not found: %s", makeMethodID), nil)
		}
		if mm.Scope != types.ScopeItem {
			return ValidationError("quote make methods cannot be activated")
		}
		if err := RequireStatusAllowed(string(mm.Status), string(types.MakeMethodDraft), string(types.MakeMethodActive)); err != nil {
			return err
		}
		ids, err := a.deps.MakeMethods.DeactivateOthers(dbc, mm.ItemID, mm.ID)
		if err != nil {
			return err
		}
		out.Deactivated = ids
		return nil
	})
	if err != nil {
		return out, err
	}

	err = executeWrite(ctx, a.deps.Base, op+".ActivateTarget", func(dbc dbctx.Context) error {
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, types.MakeMethod{}.TableName(), makeMethodID,
			[]string{string(types.MakeMethodDraft), string(types.MakeMethodActive)},
			map[string]any{"status": types.MakeMethodActive, "updated_at": time.Now().UTC()},
		)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "make method removed while activating"); err != nil {
			return err
		}
		mm, err := a.deps.MakeMethods.GetByID(dbc, makeMethodID)
		if err != nil {
			return err
		}
		out.MakeMethod = mm
		return nil
	})
	if err != nil {
		a.log.Error("make method activation stopped after siblings were deactivated",
			"make_method_id", makeMethodID,
			"deactivated", len(out.Deactivated),
			"error", err,
		)
		return out, domainagg.NewPartialFailure(op, []string{stepDeactivateSiblings}, stepActivateTarget, err)
	}
	return out, nil
}
