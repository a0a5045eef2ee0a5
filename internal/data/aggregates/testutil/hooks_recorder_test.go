package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_StatusOfReturnsLatest(t *testing.T) {
	h := &HooksRecorder{}
	const op = "Manufacturing.MakeMethod.Activate"
	h.ObserveOperation(op, "conflict", time.Millisecond)
	h.IncConflict(op)
	h.ObserveOperation(op, "success", 2*time.Millisecond)
	h.ObserveOperation("Manufacturing.MethodGraph.Clone", "retryable", time.Millisecond)
	h.IncRetry("Manufacturing.MethodGraph.Clone")

	if got := h.StatusOf(op); got != "success" {
		t.Fatalf("StatusOf(%s): want success got %q", op, got)
	}
	if got := h.StatusOf("Manufacturing.MakeMethod.CreateVersion"); got != "" {
		t.Fatalf("unobserved op should have no status, got %q", got)
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 1 || len(h.Operations) != 3 {
		t.Fatalf("recorder: ops=%d conflicts=%v retries=%v", len(h.Operations), h.Conflicts, h.Retries)
	}
}
