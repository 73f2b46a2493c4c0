// Package module wires enrichment into the API using modkit
package module

import (
	"context"
	"time"

	"enricher/internal/core/knowledge"
	modkit "enricher/internal/modkit"
	"enricher/internal/modkit/httpkit"
	"enricher/internal/platform/cache"
	"enricher/internal/platform/logger"
	"enricher/internal/services/enrich/domain"
	enrichhttp "enricher/internal/services/enrich/http"
	enrichrepo "enricher/internal/services/enrich/repo"
	enrichsvc "enricher/internal/services/enrich/service"
)

// Name is the registry name of the enrich module
const Name = "enrich"

// Module implements the modkit.Module interface
type Module struct {
	b      modkit.Built
	opt    Options
	svc    enrichsvc.Service
	loader *knowledge.Loader
}

// New constructs the enrich module
// Postgres is the catalog source when enabled, the embedded seed catalog otherwise
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName(Name)}, opts...)...)
	log := deps.Logger(Name)
	o := FromConfig(deps.Cfg)

	var src domain.SourcePort
	if deps.PG != nil {
		src = enrichrepo.NewTxSource(deps.PG)
	} else {
		seed, err := enrichrepo.NewSeed(nil)
		if err != nil {
			log.Panic().Err(err).Msg("load seed catalog")
		}
		src = seed
		log.Info().Msg("postgres disabled, serving the embedded seed catalog")
	}

	var sink domain.RunSink
	if deps.CH != nil {
		runs := enrichrepo.NewCHRuns(deps.CH)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := runs.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("clickhouse runs table unavailable, run stats disabled")
		} else {
			sink = runs
		}
		cancel()
	}

	svc, loader := NewService(src, sink, o, deps.Logger("knowledge"))
	return &Module{b: b, opt: o, svc: svc, loader: loader}
}

// NewService builds the loader and the service over a source, sink may be nil
func NewService(src domain.SourcePort, sink domain.RunSink, o Options, log *logger.Logger) (*enrichsvc.Svc, *knowledge.Loader) {
	loader := knowledge.NewLoader(src, cache.New(),
		knowledge.WithTTL(o.CacheTTL),
		knowledge.WithCompileOptions(knowledge.Options{CategoryOrder: o.CategoryOrder}),
		knowledge.WithLogger(log),
	)
	svc := enrichsvc.New(loader, enrichsvc.Options{
		Workers:     o.Workers,
		ParallelMin: o.ParallelMin,
		ZeroAmount:  o.ZeroAmount,
		Sink:        sink,
	})
	return svc, loader
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		enrichhttp.Register(rr, m.svc, m.loader, enrichhttp.Limits{
			MaxItems: m.opt.MaxBatch,
			MaxBytes: m.opt.MaxBodyBytes,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.ModuleName() }

// Ports exposes the knowledge base controls, catalog writes invalidate through it
func (m *Module) Ports() any { return domain.KnowledgePort(m.loader) }
