// Package metrics keeps in-process request counters for the /metrics
// snapshot. Traffic is grouped by the API area under /api/v1 so the
// staffing-heavy surfaces (schedules, attendance, leave) are visible
// separately from the rest.
package metrics

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

type Collector struct {
	mu              sync.Mutex
	requests        uint64
	errors          uint64
	rateLimited     uint64
	totalDurationMs uint64
	requestsByArea  map[string]uint64
	mutationsByArea map[string]uint64
}

func New() *Collector {
	return &Collector{
		requestsByArea:  make(map[string]uint64),
		mutationsByArea: make(map[string]uint64),
	}
}

// Record tallies one finished request. Successful non-GET calls count as
// mutations for their area, which tracks the audit-bearing writes.
func (c *Collector) Record(method, path string, status int, duration time.Duration) {
	area := apiArea(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests++
	c.totalDurationMs += uint64(duration.Milliseconds())
	if status >= 500 {
		c.errors++
	}
	if status == http.StatusTooManyRequests {
		c.rateLimited++
	}
	if area != "" {
		c.requestsByArea[area]++
		if method != http.MethodGet && method != http.MethodHead && status < 400 {
			c.mutationsByArea[area]++
		}
	}
}

// apiArea extracts the domain segment from /api/v1/<area>/... paths. Probes
// like /healthz return "".
func apiArea(path string) string {
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	area := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(area, '/'); i >= 0 {
		area = area[:i]
	}
	return area
}

func (c *Collector) Snapshot() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := float64(0)
	if c.requests > 0 {
		avg = float64(c.totalDurationMs) / float64(c.requests)
	}
	byArea := make(map[string]uint64, len(c.requestsByArea))
	for area, n := range c.requestsByArea {
		byArea[area] = n
	}
	mutations := make(map[string]uint64, len(c.mutationsByArea))
	for area, n := range c.mutationsByArea {
		mutations[area] = n
	}
	return map[string]any{
		"requestsTotal":    c.requests,
		"errorsTotal":      c.errors,
		"rateLimitedTotal": c.rateLimited,
		"avgDurationMs":    avg,
		"requestsByArea":   byArea,
		"mutationsByArea":  mutations,
	}
}
