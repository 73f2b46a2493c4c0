// Package http provides meta endpoints
package http

import (
	stdctx "context"
	stderrs "errors"
	"net/http"
	"time"

	"enricher/internal/core/version"
	"enricher/internal/modkit/httpkit"
)

const probeTimeout = 2 * time.Second

// readiness states
const (
	StatusOK       = "ok"
	StatusFail     = "fail"
	StatusSkipped  = "skipped"
	StatusUnknown  = "unknown"
	StatusDegraded = "degraded"
)

var errNoPing = stderrs.New("backend cannot be pinged")

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Probe is one readiness check, a nil Check is reported as skipped
type Probe struct {
	Name  string
	Check func(stdctx.Context) error
}

// PingProbe probes a storage seam, nil is skipped and a seam without Ping is unknown
func PingProbe(name string, c any) Probe {
	if c == nil {
		return Probe{Name: name}
	}
	p, ok := c.(Pinger)
	if !ok {
		return Probe{Name: name, Check: func(stdctx.Context) error { return errNoPing }}
	}
	return Probe{Name: name, Check: p.Ping}
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
	// Modules lists the mounted modules, read on every call
	Modules func() []string
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.GetJSON(r, "/health", h.health)
	httpkit.GetJSON(r, "/ready", h.ready)
	httpkit.GetJSON(r, "/version", h.version)
	httpkit.GetJSON(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"enricher-api"`
	Started string `json:"started"  example:"2025-04-28T13:00:00Z"`
	Now     string `json:"now"      example:"2025-04-28T13:05:00Z"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name    string `json:"name"   example:"knowledge"`
	Status  string `json:"status" example:"ok"`
	Error   string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
	Elapsed string `json:"elapsed,omitempty" example:"1.2ms"`
}

// ReadyResponse folds the checks, any fail is fail and any unknown is degraded
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-04-28T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string   `json:"name"    example:"enricher-api"`
	Started string   `json:"started" example:"2025-04-28T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Now:     stamp(time.Now()),
	}, nil
}

// @Summary Readiness probe
// @Description postgres, clickhouse and the compiled knowledge base, a disabled backend is skipped
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := make([]ReadyCheck, 0, len(h.deps.Probes))
	for _, p := range h.deps.Probes {
		checks = append(checks, run(ctx, p))
	}
	return ReadyResponse{Status: fold(checks), Checks: checks, Now: stamp(time.Now())}, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service info, uptime and mounted modules
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	mods := []string{}
	if h.deps.Modules != nil {
		mods = append(mods, h.deps.Modules()...)
	}
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
		Modules: mods,
	}, nil
}

func run(ctx stdctx.Context, p Probe) ReadyCheck {
	c := ReadyCheck{Name: p.Name, Status: StatusSkipped}
	if p.Check == nil {
		return c
	}
	start := time.Now()
	err := p.Check(ctx)
	c.Elapsed = time.Since(start).String()
	switch {
	case err == nil:
		c.Status = StatusOK
	case stderrs.Is(err, errNoPing):
		c.Status, c.Elapsed = StatusUnknown, ""
	default:
		c.Status, c.Error = StatusFail, err.Error()
	}
	return c
}

func fold(checks []ReadyCheck) string {
	out := StatusOK
	for _, c := range checks {
		switch c.Status {
		case StatusFail:
			return StatusFail
		case StatusUnknown:
			out = StatusDegraded
		}
	}
	return out
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
