package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
)

// MethodGraphAggregate copies whole method graphs between owners. A clone
// replaces the target graph with a remapped copy of the source in one
// transaction.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvariantViolation, CodeRetryable, CodeInternal.
type MethodGraphAggregate interface {
	Clone(ctx context.Context, in CloneMethodGraphInput) (CloneMethodGraphResult, error)
}

type CloneMethodGraphInput struct {
	Source manufacturing.Owner
	Target manufacturing.Owner
	// Configuration maps configuration parameter keys to raw values. When
	// empty every field is copied verbatim.
	Configuration map[string]any
}

type CloneMethodGraphResult struct {
	SourceMakeMethodID uuid.UUID
	TargetMakeMethodID uuid.UUID
	Materials          int
	Operations         int
	SubMethods         int
	// MaterialIDs maps source material ids to their copies.
	MaterialIDs map[uuid.UUID]uuid.UUID
	// OperationIDs maps source operation ids to their copies.
	OperationIDs map[uuid.UUID]uuid.UUID
}
