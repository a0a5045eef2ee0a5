package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsHandlerExportsObservations(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/items/:id/make-methods", "200", 15*time.Millisecond)
	m.ObserveAggregateOperation("Manufacturing.MakeMethod.Activate", "success", 3*time.Millisecond)
	m.IncAggregateConflict("Manufacturing.MakeMethod.Activate")
	m.ObserveClone("itemToQuoteLine", 4, 2, 1)
	m.IncEvent("make_method.activated", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`methodgraph_api_requests_total{method="GET",route="/api/items/:id/make-methods",status="200"} 1`,
		`methodgraph_aggregate_operations_total{operation="Manufacturing.MakeMethod.Activate",status="success"} 1`,
		`methodgraph_aggregate_conflicts_total{operation="Manufacturing.MakeMethod.Activate"} 1`,
		`methodgraph_method_graph_cloned_rows_total{table="method_material",transfer="itemToQuoteLine"} 4`,
		`methodgraph_events_published_total{event="make_method.activated",status="error"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateRetry("op")
	m.AddTreeOrphans(2)
	if err := m.RegisterDB(nil, "db"); err != nil {
		t.Fatalf("RegisterDB on nil: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , broken, =x ,team=mfg")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "mfg" {
		t.Fatalf("ParseHeaders: %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty headers should be nil")
	}
}
