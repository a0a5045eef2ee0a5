package apierr

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
)

func TestFromMapsAggregateCodes(t *testing.T) {
	cases := []struct {
		code domainagg.ErrorCode
		want int
	}{
		{domainagg.CodeValidation, http.StatusBadRequest},
		{domainagg.CodeNotFound, http.StatusNotFound},
		{domainagg.CodeConflict, http.StatusConflict},
		{domainagg.CodeInvariantViolation, http.StatusUnprocessableEntity},
		{domainagg.CodePartialFailure, http.StatusMultiStatus},
		{domainagg.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got := From(domainagg.NewError(tc.code, "op", "msg", nil))
		if got.Status != tc.want || got.Code != string(tc.code) {
			t.Fatalf("%s: got status=%d code=%s", tc.code, got.Status, got.Code)
		}
	}
}

func TestFromKeepsExistingAPIError(t *testing.T) {
	orig := New(http.StatusTeapot, "teapot", errors.New("short and stout"))
	if got := From(orig); got != orig {
		t.Fatalf("expected same api error back")
	}
	if got := From(errors.New("plain")); got.Status != http.StatusInternalServerError {
		t.Fatalf("plain error status: got=%d", got.Status)
	}
	if From(nil) != nil {
		t.Fatalf("nil in, nil out")
	}
}
