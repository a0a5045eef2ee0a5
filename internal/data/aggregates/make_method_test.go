package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/methodgraph-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	repotest "github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

func newMakeMethodAggregate(t *testing.T, db *gorm.DB, base aggregates.BaseDeps) (domainagg.MakeMethodAggregate, repos.Set) {
	t.Helper()
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	base.DB = db
	base.Log = log
	return aggregates.NewMakeMethodAggregate(aggregates.MakeMethodAggregateDeps{
		Base:        base,
		Items:       set.Items,
		MakeMethods: set.MakeMethods,
	}), set
}

func statusOf(t *testing.T, set repos.Set, id uuid.UUID) types.MakeMethodStatus {
	t.Helper()
	mm, err := set.MakeMethods.GetByID(dbctx.Context{Ctx: context.Background()}, id)
	if err != nil || mm == nil {
		t.Fatalf("GetByID(%s): mm=%v err=%v", id, mm, err)
	}
	return mm.Status
}

func TestMakeMethodAggregate_EnsureForItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates version one", func(t *testing.T) {
		db := repotest.DB(t)
		agg, _ := newMakeMethodAggregate(t, db, aggregates.BaseDeps{})
		item := repotest.SeedItem(t, ctx, db, "P-100", types.ReplenishMake)

		res, err := agg.EnsureForItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("EnsureForItem: %v", err)
		}
		if !res.Created || res.MakeMethod.Version != 1 || res.MakeMethod.Status != types.MakeMethodDraft {
			t.Fatalf("unexpected result: %+v %+v", res, res.MakeMethod)
		}
		again, err := agg.EnsureForItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("EnsureForItem again: %v", err)
		}
		if again.Created || again.MakeMethod.ID != res.MakeMethod.ID {
			t.Fatalf("second call should return the same method, got %+v", again)
		}
	})

	t.Run("returns active", func(t *testing.T) {
		db := repotest.DB(t)
		agg, _ := newMakeMethodAggregate(t, db, aggregates.BaseDeps{})
		item := repotest.SeedItem(t, ctx, db, "P-101", types.ReplenishBuyAndMake)
		repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodDraft)
		active := repotest.SeedMakeMethod(t, ctx, db, item.ID, 2, types.MakeMethodActive)

		res, err := agg.EnsureForItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("EnsureForItem: %v", err)
		}
		if res.Created || res.MakeMethod.ID != active.ID {
			t.Fatalf("expected active version %s, got %+v", active.ID, res.MakeMethod)
		}
	})

	t.Run("buy items rejected", func(t *testing.T) {
		db := repotest.DB(t)
		agg, _ := newMakeMethodAggregate(t, db, aggregates.BaseDeps{})
		item := repotest.SeedItem(t, ctx, db, "B-1", types.ReplenishBuy)

		_, err := agg.EnsureForItem(ctx, item.ID)
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		db := repotest.DB(t)
		agg, _ := newMakeMethodAggregate(t, db, aggregates.BaseDeps{})
		_, err := agg.EnsureForItem(ctx, uuid.New())
		if !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestMakeMethodAggregate_CreateVersion(t *testing.T) {
	ctx := context.Background()
	db := repotest.DB(t)
	hooks := &aggtest.HooksRecorder{}
	agg, set := newMakeMethodAggregate(t, db, aggregates.BaseDeps{Hooks: hooks})
	item := repotest.SeedItem(t, ctx, db, "P-200", types.ReplenishMake)
	v1 := repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodActive)

	if _, err := agg.CreateVersion(ctx, domainagg.CreateMakeMethodVersionInput{CopyFromID: v1.ID, Version: 1}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error for non-increasing version, got %v", err)
	}
	if got := hooks.StatusOf("Manufacturing.MakeMethod.CreateVersion"); got != string(domainagg.CodeValidation) {
		t.Fatalf("hook status=%q", got)
	}

	res, err := agg.CreateVersion(ctx, domainagg.CreateMakeMethodVersionInput{CopyFromID: v1.ID, Version: 2, ActivateImmediately: true})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if res.DeactivationErr != nil {
		t.Fatalf("unexpected deactivation error: %v", res.DeactivationErr)
	}
	if res.MakeMethod.Version != 2 || res.MakeMethod.Status != types.MakeMethodDraft {
		t.Fatalf("new version should be a Draft v2, got %+v", res.MakeMethod)
	}
	if res.PreviousActiveID == nil || *res.PreviousActiveID != v1.ID {
		t.Fatalf("PreviousActiveID=%v want %s", res.PreviousActiveID, v1.ID)
	}
	if got := statusOf(t, set, v1.ID); got != types.MakeMethodDraft {
		t.Fatalf("v1 status=%s want Draft", got)
	}

	if _, err := agg.CreateVersion(ctx, domainagg.CreateMakeMethodVersionInput{CopyFromID: uuid.New(), Version: 9}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMakeMethodAggregate_CreateVersionDeactivationIsBestEffort(t *testing.T) {
	ctx := context.Background()
	db := repotest.DB(t)
	runner := &aggtest.InjectedTxRunner{FailBeforeBody: errors.New("connection reset"), FailOnCall: 2}
	agg, set := newMakeMethodAggregate(t, db, aggregates.BaseDeps{Runner: runner})
	item := repotest.SeedItem(t, ctx, db, "P-201", types.ReplenishMake)
	v1 := repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodActive)

	res, err := agg.CreateVersion(ctx, domainagg.CreateMakeMethodVersionInput{CopyFromID: v1.ID, Version: 2, ActivateImmediately: true})
	if err != nil {
		t.Fatalf("CreateVersion should succeed, got %v", err)
	}
	if res.DeactivationErr == nil || res.PreviousActiveID != nil {
		t.Fatalf("expected a reported deactivation failure, got %+v", res)
	}
	if got := statusOf(t, set, v1.ID); got != types.MakeMethodActive {
		t.Fatalf("v1 status=%s want Active", got)
	}
	if got := statusOf(t, set, res.MakeMethod.ID); got != types.MakeMethodDraft {
		t.Fatalf("v2 status=%s want Draft", got)
	}
}

func TestMakeMethodAggregate_Activate(t *testing.T) {
	ctx := context.Background()
	db := repotest.DB(t)
	agg, set := newMakeMethodAggregate(t, db, aggregates.BaseDeps{})
	item := repotest.SeedItem(t, ctx, db, "P-300", types.ReplenishMake)
	v1 := repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodActive)
	v2 := repotest.SeedMakeMethod(t, ctx, db, item.ID, 2, types.MakeMethodDraft)

	res, err := agg.Activate(ctx, v2.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if res.MakeMethod == nil || res.MakeMethod.Status != types.MakeMethodActive {
		t.Fatalf("activated method: %+v", res.MakeMethod)
	}
	if len(res.Deactivated) != 1 || res.Deactivated[0] != v1.ID {
		t.Fatalf("Deactivated=%v want [%s]", res.Deactivated, v1.ID)
	}
	if got := statusOf(t, set, v1.ID); got != types.MakeMethodDraft {
		t.Fatalf("v1 status=%s want Draft", got)
	}

	// activating the active version again is a no-op
	res, err = agg.Activate(ctx, v2.ID)
	if err != nil {
		t.Fatalf("re-Activate: %v", err)
	}
	if len(res.Deactivated) != 0 {
		t.Fatalf("nothing should be deactivated, got %v", res.Deactivated)
	}

	if _, err := agg.Activate(ctx, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMakeMethodAggregate_ActivateReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	db := repotest.DB(t)
	runner := &aggtest.InjectedTxRunner{FailBeforeBody: errors.New("connection reset"), FailOnCall: 2}
	hooks := &aggtest.HooksRecorder{}
	agg, set := newMakeMethodAggregate(t, db, aggregates.BaseDeps{Runner: runner, Hooks: hooks})
	item := repotest.SeedItem(t, ctx, db, "P-301", types.ReplenishMake)
	v1 := repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodActive)
	v2 := repotest.SeedMakeMethod(t, ctx, db, item.ID, 2, types.MakeMethodDraft)

	_, err := agg.Activate(ctx, v2.ID)
	if !domainagg.IsCode(err, domainagg.CodePartialFailure) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	pf, ok := domainagg.AsPartialFailure(err)
	if !ok {
		t.Fatalf("missing partial failure details: %v", err)
	}
	if pf.Failed != "activate_target" || len(pf.Completed) != 1 || pf.Completed[0] != "deactivate_siblings" {
		t.Fatalf("unexpected partial failure: %+v", pf)
	}
	// no version is left Active, never two
	if got := statusOf(t, set, v1.ID); got != types.MakeMethodDraft {
		t.Fatalf("v1 status=%s want Draft", got)
	}
	if got := statusOf(t, set, v2.ID); got != types.MakeMethodDraft {
		t.Fatalf("v2 status=%s want Draft", got)
	}
	if got := hooks.StatusOf("Manufacturing.MakeMethod.Activate.DeactivateSiblings"); got != "success" {
		t.Fatalf("first step status=%q", got)
	}
	if got := hooks.StatusOf("Manufacturing.MakeMethod.Activate.ActivateTarget"); got != string(domainagg.CodeInternal) {
		t.Fatalf("second step status=%q", got)
	}
}

func TestMakeMethodVersionsAreUniquePerItem(t *testing.T) {
	ctx := context.Background()
	db := repotest.DB(t)
	_, set := newMakeMethodAggregate(t, db, aggregates.BaseDeps{})
	dbc := dbctx.Context{Ctx: ctx}
	const op = "Manufacturing.MakeMethod.Create"

	item := repotest.SeedItem(t, ctx, db, "P-300", types.ReplenishMake)
	repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodActive)

	cases := []struct {
		name string
		row  *types.MakeMethod
		code domainagg.ErrorCode
	}{
		{
			name: "duplicate version",
			row:  &types.MakeMethod{ItemID: item.ID, Version: 1},
			code: domainagg.CodeConflict,
		},
		{
			name: "second active version",
			row:  &types.MakeMethod{ItemID: item.ID, Version: 2, Status: types.MakeMethodActive},
			code: domainagg.CodeConflict,
		},
		{
			name: "draft next version",
			row:  &types.MakeMethod{ItemID: item.ID, Version: 2},
		},
		{
			name: "quote scoped copies share version",
			row:  &types.MakeMethod{ItemID: item.ID, Scope: types.ScopeQuote, Version: 1},
		},
		{
			name: "second quote scoped copy",
			row:  &types.MakeMethod{ItemID: item.ID, Scope: types.ScopeQuote, Version: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := aggregates.MapError(op, set.MakeMethods.Create(dbc, tc.row))
			if tc.code == "" {
				if err != nil {
					t.Fatalf("Create: %v", err)
				}
				return
			}
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("want %s, got %v", tc.code, err)
			}
		})
	}
}
