package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	repotest "github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/realtime"
)

// v1 is Active with one operation and two bought lines. v2 is copied from
// it with activate_immediately, activated explicitly, then v1 is activated again.
func TestMakeMethodService_VersionLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	item := repotest.SeedItem(t, ctx, h.db, "P-500", types.ReplenishMake)
	bolt := repotest.SeedItem(t, ctx, h.db, "B-500", types.ReplenishBuy)
	v1 := repotest.SeedMakeMethod(t, ctx, h.db, item.ID, 1, types.MakeMethodActive)
	op := repotest.SeedOperation(t, ctx, h.db, v1.ID, 1)
	first := repotest.SeedMaterial(t, ctx, h.db, v1.ID, bolt.ID, 1, "4")
	second := repotest.SeedMaterial(t, ctx, h.db, v1.ID, bolt.ID, 2, "1")

	res, err := h.makeMethods.CreateVersion(ctx, CreateVersionRequest{CopyFromID: v1.ID, Version: 2, ActivateImmediately: true})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if res.Warning != "" {
		t.Fatalf("unexpected warning: %s", res.Warning)
	}
	if res.Materials != 2 || res.Operations != 1 {
		t.Fatalf("graph not copied: %+v", res)
	}
	if res.PreviousActiveID == nil || *res.PreviousActiveID != v1.ID {
		t.Fatalf("PreviousActiveID=%v", res.PreviousActiveID)
	}

	dbc := dbctx.Context{Ctx: ctx}
	mats, err := h.set.Materials.ListByMakeMethod(dbc, res.MakeMethod.ID)
	if err != nil {
		t.Fatalf("ListByMakeMethod: %v", err)
	}
	if len(mats) != 2 || mats[0].Order != 1 || mats[1].Order != 2 {
		t.Fatalf("copied material order: %+v", mats)
	}
	if mats[0].ID == first.ID || mats[1].ID == second.ID || !mats[0].Quantity.Equal(first.Quantity) {
		t.Fatalf("copied materials reuse ids or lost quantity: %+v", mats)
	}
	ops, err := h.set.Operations.ListByMakeMethod(dbc, res.MakeMethod.ID)
	if err != nil {
		t.Fatalf("ListByMakeMethod operations: %v", err)
	}
	if len(ops) != 1 || ops[0].ID == op.ID || len(ops[0].Steps) != 1 {
		t.Fatalf("copied operations: %+v", ops)
	}
	step := ops[0].Steps[0]
	if step.ID == op.Steps[0].ID {
		t.Fatalf("copied step reuses id %s", step.ID)
	}
	if !step.MinValue.Valid || !step.MinValue.Decimal.Equal(decimal.Zero) {
		t.Fatalf("step min value=%+v want 0", step.MinValue)
	}
	if !step.MaxValue.Valid || !step.MaxValue.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("step max value=%+v want 10", step.MaxValue)
	}

	versions, err := h.makeMethods.ListVersions(dbctx.Context{Ctx: ctx}, item.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions.Versions) != 2 {
		t.Fatalf("want 2 versions, got %d", len(versions.Versions))
	}
	// the flag only demotes v1; v2 waits for an explicit activation
	for _, v := range versions.Versions {
		if v.Status != types.MakeMethodDraft {
			t.Fatalf("v%d status=%s want Draft", v.Version, v.Status)
		}
	}
	if versions.EffectiveActiveID != nil {
		t.Fatalf("two drafts have no effective version, got %v", versions.EffectiveActiveID)
	}

	act, err := h.makeMethods.Activate(ctx, res.MakeMethod.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if act.MakeMethod.Status != types.MakeMethodActive || len(act.Deactivated) != 0 {
		t.Fatalf("unexpected activate result: %+v", act)
	}

	// and rolling back to v1 demotes v2
	if _, err := h.makeMethods.Activate(ctx, v1.ID); err != nil {
		t.Fatalf("Activate v1: %v", err)
	}
	versions, err = h.makeMethods.ListVersions(dbctx.Context{Ctx: ctx}, item.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if versions.EffectiveActiveID == nil || *versions.EffectiveActiveID != v1.ID {
		t.Fatalf("effective active=%v want %s", versions.EffectiveActiveID, v1.ID)
	}

	got := h.events.names()
	if len(got) != 3 || got[0] != realtime.EventMakeMethodVersionCreated || got[2] != realtime.EventMakeMethodActivated {
		t.Fatalf("events=%v", got)
	}
}

func TestMakeMethodService_ListVersionsSingleDraftIsEffective(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	item := repotest.SeedItem(t, ctx, h.db, "P-501", types.ReplenishMake)

	ensured, err := h.makeMethods.EnsureForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("EnsureForItem: %v", err)
	}
	versions, err := h.makeMethods.ListVersions(dbctx.Context{Ctx: ctx}, item.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if versions.EffectiveActiveID == nil || *versions.EffectiveActiveID != ensured.MakeMethod.ID {
		t.Fatalf("sole draft should be effective, got %v", versions.EffectiveActiveID)
	}
}
