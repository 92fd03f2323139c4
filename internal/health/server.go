// Package health provides liveness and readiness endpoints for the preview service.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health handlers.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Timeout     time.Duration
}

// Handler serves /health, /live and /ready.
type Handler struct {
	serviceName string
	version     string
	commit      string
	timeout     time.Duration

	mu     sync.RWMutex
	ready  bool
	checks map[string]Check
}

// NewHandler creates health handlers. The service starts not ready.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Handler{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		timeout:     timeout,
		checks:      make(map[string]Check),
	}
}

// AddCheck registers a named readiness check.
func (h *Handler) AddCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetReady marks the service as ready to accept traffic.
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// IsReady returns whether the service is ready.
func (h *Handler) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// Health handles the /health endpoint - basic liveness check with build info.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   h.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Commit:    h.commit,
	})
}

// Live handles the /live endpoint - kubernetes liveness probe.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: h.serviceName,
	})
}

// Ready handles the /ready endpoint - runs every registered check.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !h.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	for _, name := range h.checkNames() {
		h.mu.RLock()
		check := h.checks[name]
		h.mu.RUnlock()

		if err := check(ctx); err != nil {
			allHealthy = false
			checks[name] = fmt.Sprintf("error: %v", err)
		} else {
			checks[name] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  h.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	if allHealthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, response)
}

func (h *Handler) checkNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
