package aggregates

import (
	"context"
	"testing"

	repotest "github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

func TestRequireStatusAllowed(t *testing.T) {
	if err := RequireStatusAllowed("Draft", "Draft", "Active"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireStatusAllowed("Archived", "Draft", "Active"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := MapError("op", RequireCASSuccess(false, "stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCASGuardUpdateByStatus(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	item := repotest.SeedItem(t, ctx, db, "CAS-1", types.ReplenishMake)
	mm := repotest.SeedMakeMethod(t, ctx, db, item.ID, 1, types.MakeMethodDraft)

	guard := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx}
	ok, err := guard.UpdateByStatus(dbc, "make_method", mm.ID, []string{string(types.MakeMethodDraft)}, map[string]any{"status": types.MakeMethodActive})
	if err != nil || !ok {
		t.Fatalf("first update: ok=%v err=%v", ok, err)
	}
	ok, err = guard.UpdateByStatus(dbc, "make_method", mm.ID, []string{string(types.MakeMethodDraft)}, map[string]any{"status": types.MakeMethodActive})
	if err != nil || ok {
		t.Fatalf("guard should reject stale status: ok=%v err=%v", ok, err)
	}
	if _, err := guard.UpdateByStatus(dbc, "", mm.ID, []string{"Draft"}, nil); err == nil {
		t.Fatalf("expected validation error for empty table")
	}
}
