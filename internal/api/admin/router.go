// Package admin serves the operational HTTP endpoints: liveness and
// readiness probes.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/mediavault-server/internal/logger"
)

const defaultCheckTimeout = 2 * time.Second

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Ping implements Checker.
func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Router builds the admin HTTP handler.
type Router struct {
	checks  map[string]Checker
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a Router. checks are probed by /readyz under their map key.
func New(checks map[string]Checker, logger *logger.Logger) *Router {
	return &Router{checks: checks, timeout: defaultCheckTimeout, logger: logger}
}

// Handler returns the chi mux with all routes mounted.
func (r *Router) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", r.healthz)
	mux.Get("/readyz", r.readyz)

	return mux
}

func (r *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (r *Router) readyz(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), r.timeout)
	defer cancel()

	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := readiness{Status: "ok", Checks: make(map[string]string, len(names))}
	code := http.StatusOK
	for _, name := range names {
		if err := r.checks[name].Ping(ctx); err != nil {
			r.logger.Warn("Admin: readiness check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		r.logger.Debug("Admin: failed to write readiness", "error", err)
	}
}
