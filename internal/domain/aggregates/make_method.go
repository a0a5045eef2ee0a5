package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
)

// MakeMethodAggregate owns the Draft/Active lifecycle of item make methods.
// At most one version per item is Active. Activation commits in steps and
// reports partial progress instead of holding one transaction.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodePartialFailure, CodeRetryable, CodeInternal.
type MakeMethodAggregate interface {
	// EnsureForItem returns the item's effective make method, creating version 1 when none exists.
	EnsureForItem(ctx context.Context, itemID uuid.UUID) (EnsureMakeMethodResult, error)

	// CreateVersion inserts an empty Draft copy of CopyFromID with the requested version number.
	CreateVersion(ctx context.Context, in CreateMakeMethodVersionInput) (CreateMakeMethodVersionResult, error)

	// Activate marks one version Active and every sibling Draft.
	Activate(ctx context.Context, makeMethodID uuid.UUID) (ActivateMakeMethodResult, error)
}

type EnsureMakeMethodResult struct {
	MakeMethod *manufacturing.MakeMethod
	Created    bool
}

type CreateMakeMethodVersionInput struct {
	CopyFromID          uuid.UUID
	Version             int
	ActivateImmediately bool
}

type CreateMakeMethodVersionResult struct {
	MakeMethod *manufacturing.MakeMethod
	// PreviousActiveID is set when ActivateImmediately moved an Active sibling back to Draft.
	PreviousActiveID *uuid.UUID
	// DeactivationErr holds the best-effort deactivation failure. The version itself was created.
	DeactivationErr error
}

type ActivateMakeMethodResult struct {
	MakeMethod  *manufacturing.MakeMethod
	Deactivated []uuid.UUID
}
