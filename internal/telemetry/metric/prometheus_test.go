// Package metric provides Prometheus metrics for rifsredis.
package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fixedSizer int

func (f fixedSizer) Len() int { return int(f) }

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if r.RequestDuration == nil {
		t.Error("RequestDuration is nil")
	}
	if r.MalformedFrames == nil {
		t.Error("MalformedFrames is nil")
	}
	if r.ConnectionsActive == nil {
		t.Error("ConnectionsActive is nil")
	}
}

func TestRegistry_ObserveRequest(t *testing.T) {
	r := NewRegistry()

	r.ObserveRequest("SET", OutcomeSuccess, time.Millisecond)
	r.ObserveRequest("SET", OutcomeSuccess, time.Millisecond)
	r.ObserveRequest("GET", OutcomeFailure, time.Millisecond)

	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("SET", OutcomeSuccess)); got != 2 {
		t.Errorf("SET/success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", OutcomeFailure)); got != 1 {
		t.Errorf("GET/failure = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewStoreCollector(fixedSizer(3)))
	r.ConnectionsActive.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"rifsredis_store_keys 3",
		"rifsredis_connections_active 1",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestStoreCollector(t *testing.T) {
	c := NewStoreCollector(fixedSizer(7))

	if got := testutil.CollectAndCount(c); got != 1 {
		t.Errorf("CollectAndCount() = %d, want 1", got)
	}
	if got := testutil.ToFloat64(c); got != 7 {
		t.Errorf("ToFloat64() = %v, want 7", got)
	}
}
