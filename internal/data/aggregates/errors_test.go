package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainagg.CodeValidation},
		{"invariant", InvariantError("cycle"), domainagg.CodeInvariantViolation},
		{"conflict", ConflictError("stale"), domainagg.CodeConflict},
		{"not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"cancelled", context.Canceled, domainagg.CodeRetryable},
		{"unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, domainagg.CodePreconditionFailed},
		{"serialization", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "40001"}), domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: make_method.item_id, make_method.version"), domainagg.CodeConflict},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), domainagg.CodePreconditionFailed},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), domainagg.CodeRetryable},
		{"other", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", tc.in)
			if !domainagg.IsCode(err, tc.want) {
				t.Fatalf("want %q, got %q (%v)", tc.want, domainagg.CodeOf(err), err)
			}
		})
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	if out := MapError("other", in); out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
	wrapped := fmt.Errorf("step: %w", in)
	if out := MapError("other", wrapped); out != wrapped {
		t.Fatalf("expected wrapped aggregate error to pass through")
	}
}
