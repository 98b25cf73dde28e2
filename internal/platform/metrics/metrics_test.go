package metrics

import (
	"net/http"
	"testing"
	"time"
)

func TestRecordGroupsByArea(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, "/api/v1/employees", 200, 5*time.Millisecond)
	c.Record(http.MethodPost, "/api/v1/leave/requests", 201, 10*time.Millisecond)
	c.Record(http.MethodPost, "/api/v1/leave/requests/req-1/approve", 422, 3*time.Millisecond)
	c.Record(http.MethodGet, "/healthz", 200, time.Millisecond)

	snap := c.Snapshot()
	if got := snap["requestsTotal"].(uint64); got != 4 {
		t.Fatalf("expected 4 requests, got %d", got)
	}

	byArea := snap["requestsByArea"].(map[string]uint64)
	if byArea["employees"] != 1 || byArea["leave"] != 2 {
		t.Fatalf("unexpected per-area counts: %v", byArea)
	}
	if _, ok := byArea[""]; ok {
		t.Fatal("probe endpoints must not appear as an area")
	}
}

func TestRecordCountsOnlySuccessfulMutations(t *testing.T) {
	c := New()
	c.Record(http.MethodPost, "/api/v1/schedules", 201, time.Millisecond)
	c.Record(http.MethodPost, "/api/v1/schedules", 409, time.Millisecond)
	c.Record(http.MethodGet, "/api/v1/schedules", 200, time.Millisecond)

	mutations := c.Snapshot()["mutationsByArea"].(map[string]uint64)
	if mutations["schedules"] != 1 {
		t.Fatalf("expected one schedules mutation, got %d", mutations["schedules"])
	}
}

func TestRecordTracksErrorsAndThrottling(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, "/api/v1/reports/coverage", 500, time.Millisecond)
	c.Record(http.MethodPost, "/api/v1/auth/login", 429, time.Millisecond)

	snap := c.Snapshot()
	if got := snap["errorsTotal"].(uint64); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := snap["rateLimitedTotal"].(uint64); got != 1 {
		t.Fatalf("expected 1 rate limited request, got %d", got)
	}
}
