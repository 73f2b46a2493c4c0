// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"time"

	modkit "enricher/internal/modkit"
	"enricher/internal/modkit/httpkit"
	"enricher/internal/modkit/module"
	metahttp "enricher/internal/services/api/meta/http"
	enrichdom "enricher/internal/services/enrich/domain"
)

// ServiceName is reported by health, version and service
const ServiceName = "enricher-api"

// Ports are the injected ports this module consumes
type Ports struct {
	// Knowledge is probed by /ready, a probe compiles the base when it is cold
	Knowledge enrichdom.KnowledgePort
}

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module, backends absent from deps are reported skipped
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	probes := []metahttp.Probe{{Name: "pg"}, {Name: "ch"}}
	// typed nils must stay untyped so the probe reports skipped
	if deps.PG != nil {
		probes[0] = metahttp.PingProbe("pg", deps.PG)
	}
	if deps.CH != nil {
		probes[1] = metahttp.PingProbe("ch", deps.CH)
	}
	if p, ok := b.Ports.(Ports); ok && p.Knowledge != nil {
		kp := p.Knowledge
		probes = append(probes, metahttp.Probe{Name: "knowledge", Check: func(ctx context.Context) error {
			_, err := kp.Get(ctx)
			return err
		}})
	}

	return &Module{b: b, deps: metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   time.Now(),
		Probes:      probes,
		Modules:     module.Names,
	}}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.ModuleName() }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
