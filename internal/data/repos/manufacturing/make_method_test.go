package manufacturing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

func TestMakeMethodRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMakeMethodRepo(db, testutil.Logger(t))

	item := testutil.SeedItem(t, ctx, tx, "P-100", types.ReplenishMake)

	if max, err := repo.MaxVersion(dbc, item.ID); err != nil || max != 0 {
		t.Fatalf("MaxVersion empty: max=%d err=%v", max, err)
	}

	v1 := &types.MakeMethod{ItemID: item.ID, Version: 1}
	if err := repo.Create(dbc, v1); err != nil {
		t.Fatalf("Create v1: %v", err)
	}
	if v1.ID == uuid.Nil || v1.Status != types.MakeMethodDraft || v1.Scope != types.ScopeItem {
		t.Fatalf("Create v1 defaults: %+v", v1)
	}
	v2 := testutil.SeedMakeMethod(t, ctx, tx, item.ID, 2, types.MakeMethodActive)
	v3 := testutil.SeedMakeMethod(t, ctx, tx, item.ID, 3, types.MakeMethodDraft)

	quoteSide := &types.MakeMethod{ItemID: item.ID, Scope: types.ScopeQuote, Version: 9}
	if err := repo.Create(dbc, quoteSide); err != nil {
		t.Fatalf("Create quote scoped: %v", err)
	}

	if max, err := repo.MaxVersion(dbc, item.ID); err != nil || max != 3 {
		t.Fatalf("MaxVersion: want=3 got=%d err=%v", max, err)
	}

	list, err := repo.ListByItem(dbc, item.ID)
	if err != nil {
		t.Fatalf("ListByItem: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListByItem: want 3 item scoped versions, got %d", len(list))
	}
	for i, want := range []int{1, 2, 3} {
		if list[i].Version != want {
			t.Fatalf("ListByItem order: idx=%d want=%d got=%d", i, want, list[i].Version)
		}
	}

	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: got=%v err=%v", got, err)
	}

	// activating v3 leaves v2 as the only sibling to deactivate
	deactivated, err := repo.DeactivateOthers(dbc, item.ID, v3.ID)
	if err != nil {
		t.Fatalf("DeactivateOthers: %v", err)
	}
	if len(deactivated) != 1 || deactivated[0] != v2.ID {
		t.Fatalf("DeactivateOthers: want [%s] got %v", v2.ID, deactivated)
	}
	if err := tx.Model(&types.MakeMethod{}).Where("id = ?", v3.ID).Update("status", types.MakeMethodActive).Error; err != nil {
		t.Fatalf("activate v3: %v", err)
	}

	list, err = repo.ListByItem(dbc, item.ID)
	if err != nil {
		t.Fatalf("ListByItem after activate: %v", err)
	}
	active := 0
	for _, m := range list {
		if m.Status == types.MakeMethodActive {
			active++
			if m.ID != v3.ID {
				t.Fatalf("unexpected active version %d", m.Version)
			}
		}
	}
	if active != 1 {
		t.Fatalf("active count: want=1 got=%d", active)
	}
	if eff := types.EffectiveActive(list); eff == nil || eff.ID != v3.ID {
		t.Fatalf("EffectiveActive: got %+v", eff)
	}

	if err := repo.DeleteByIDs(dbc, []uuid.UUID{quoteSide.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if got, err := repo.GetByID(dbc, quoteSide.ID); err != nil || got != nil {
		t.Fatalf("GetByID after delete: got=%v err=%v", got, err)
	}
}
