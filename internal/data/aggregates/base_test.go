package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	repotest "github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

const (
	opActivate = "Manufacturing.MakeMethod.Activate"
	opClone    = "Manufacturing.MethodGraph.Clone"
)

func TestExecuteWriteStatuses(t *testing.T) {
	cases := []struct {
		name          string
		op            string
		body          error
		wantCode      domainagg.ErrorCode
		wantStatus    string
		wantConflicts int
		wantRetries   int
	}{
		{name: "success", op: opActivate, wantStatus: "success"},
		{name: "stale activation", op: opActivate, body: ConflictError("make method changed status"),
			wantCode: domainagg.CodeConflict, wantStatus: string(domainagg.CodeConflict), wantConflicts: 1},
		{name: "lock timeout", op: opClone, body: RetryableError("lock timeout on method_material"),
			wantCode: domainagg.CodeRetryable, wantStatus: string(domainagg.CodeRetryable), wantRetries: 1},
		{name: "cycle", op: opClone, body: InvariantError("make method reachable from itself"),
			wantCode: domainagg.CodeInvariantViolation, wantStatus: string(domainagg.CodeInvariantViolation)},
		{name: "typed error passes through", op: opClone,
			body:     domainagg.NewError(domainagg.CodeNotFound, opClone, "source make method not found", nil),
			wantCode: domainagg.CodeNotFound, wantStatus: string(domainagg.CodeNotFound)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: directRunner{}, Hooks: hooks}, tc.op,
				func(dbctx.Context) error { return tc.body })
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("executeWrite: %v", err)
				}
			} else if !domainagg.IsCode(err, tc.wantCode) {
				t.Fatalf("code: want=%s got=%v", tc.wantCode, err)
			}
			if len(hooks.ops) != 1 || hooks.ops[0].name != tc.op || hooks.ops[0].status != tc.wantStatus {
				t.Fatalf("observed ops: %+v", hooks.ops)
			}
			if len(hooks.conflicts) != tc.wantConflicts || len(hooks.retries) != tc.wantRetries {
				t.Fatalf("conflicts=%v retries=%v", hooks.conflicts, hooks.retries)
			}
		})
	}
}

func TestExecuteWriteRollsBackOnError(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	item := repotest.SeedItem(t, ctx, db, "RB-1", types.ReplenishMake)

	err := executeWrite(ctx, BaseDeps{DB: db}, opClone, func(dbc dbctx.Context) error {
		repotest.SeedMakeMethod(t, dbc.Ctx, dbc.Tx, item.ID, 1, types.MakeMethodDraft)
		return InvariantError("abort after insert")
	})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	var n int64
	if err := db.Model(&types.MakeMethod{}).Where("item_id = ?", item.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("make method should have been rolled back, found %d", n)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":      {nil, "success"},
		"conflict": {ConflictError("x"), string(domainagg.CodeConflict)},
		"deadline": {context.DeadlineExceeded, string(domainagg.CodeRetryable)},
		"plain":    {errors.New("boom"), string(domainagg.CodeInternal)},
	}
	for name, tc := range cases {
		if got := aggregateErrorStatus(tc.err); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", name, tc.want, got)
		}
	}
}

type directRunner struct{}

func (directRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyOp struct {
	name   string
	status string
}

type spyHooks struct {
	ops       []spyOp
	conflicts []string
	retries   []string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.ops = append(h.ops, spyOp{name: name, status: status})
}

func (h *spyHooks) IncConflict(name string) { h.conflicts = append(h.conflicts, name) }
func (h *spyHooks) IncRetry(name string)    { h.retries = append(h.retries, name) }
