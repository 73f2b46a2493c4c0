// Package module wires catalog administration into the API using modkit
package module

import (
	modkit "enricher/internal/modkit"
	"enricher/internal/modkit/httpkit"
	cathttp "enricher/internal/services/catalog/http"
	catrepo "enricher/internal/services/catalog/repo"
	catsvc "enricher/internal/services/catalog/service"
	enrichdom "enricher/internal/services/enrich/domain"
)

// Name is the registry name of the catalog module
const Name = "catalog"

// Ports are the injected ports this module consumes
type Ports struct {
	// Knowledge is invalidated after every write, optional
	Knowledge enrichdom.Invalidator
}

// Module implements the modkit.Module interface
type Module struct {
	b   modkit.Built
	svc catsvc.Service
}

// New constructs the catalog module, it needs Postgres
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName(Name), modkit.WithPrefix("/catalog")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Knowledge == nil {
		deps.Logger(Name).Warn().Msg("no knowledge invalidator injected, catalog writes show up after the cache ttl")
	}

	svc := catsvc.New(deps.PG, catrepo.NewPG(), injected.Knowledge)
	return &Module{b: b, svc: svc}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { cathttp.Register(rr, m.svc) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.ModuleName() }

// Ports exposes the catalog service
func (m *Module) Ports() any { return m.svc }
