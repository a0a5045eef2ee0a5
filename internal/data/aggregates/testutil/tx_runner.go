package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/methodgraph-backend/internal/data/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

// InjectedTxRunner fails chosen steps of a stepwise make method write.
// Bodies run with no Tx so repos use their own *gorm.DB and earlier
// steps stay committed, which is what partial failure tests need.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin      error
	FailBeforeBody error
	FailCommit     error
	// FailOnCall limits the injected failures to the Nth InTx call (1-based).
	// Zero applies them to every call.
	FailOnCall int

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failBeforeBody, failCommit := r.FailBegin, r.FailBeforeBody, r.FailCommit
	if r.FailOnCall > 0 && r.BeginCalls != r.FailOnCall {
		failBegin, failBeforeBody, failCommit = nil, nil, nil
	}
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		return r.rollback(failBeforeBody)
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			return r.rollback(err)
		}
	}
	if failCommit != nil {
		return r.rollback(failCommit)
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

func (r *InjectedTxRunner) rollback(err error) error {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
	return err
}
