package aggregates

import (
	"errors"
	"testing"
)

func TestErrorCodeHelpers(t *testing.T) {
	err := NewError(CodeNotFound, "Manufacturing.MakeMethod.Activate", "make method not found", nil)
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected not_found")
	}
	if CodeOf(errors.Join(errors.New("outer"), err)) != CodeNotFound {
		t.Fatalf("code should survive joining")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("wrapping nil should stay nil")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain error has no code")
	}
}

func TestPartialFailure(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPartialFailure("Manufacturing.MakeMethod.Activate", []string{"deactivate_siblings"}, "activate_target", cause)
	if !IsCode(err, CodePartialFailure) {
		t.Fatalf("expected partial_failure code, got %v", err)
	}
	pf, ok := AsPartialFailure(err)
	if !ok {
		t.Fatalf("expected partial failure details")
	}
	if pf.Failed != "activate_target" || len(pf.Completed) != 1 || pf.Completed[0] != "deactivate_siblings" {
		t.Fatalf("unexpected details: %+v", pf)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable")
	}
}
