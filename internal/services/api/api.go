// Package api provides the HTTP API for the application
package api

import (
	"enricher/internal/platform/config"
	"enricher/internal/platform/logger"
	phttp "enricher/internal/platform/net/http"
	"enricher/internal/platform/store"

	"enricher/internal/modkit"
	"enricher/internal/modkit/httpkit"
	"enricher/internal/modkit/module"
	"enricher/internal/modkit/swaggerkit"

	metamod "enricher/internal/services/api/meta/module"
	catalogmod "enricher/internal/services/catalog/module"
	enrichdom "enricher/internal/services/enrich/domain"
	enrichmod "enricher/internal/services/enrich/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// OptionsFromConfig reads CORE_API_SWAGGER and CORE_API_PROFILER
func OptionsFromConfig(cfg config.Conf, st *store.Store) Options {
	api := cfg.Prefix("CORE_API_")
	return Options{
		Config:         cfg,
		Store:          st,
		Logger:         logger.Named("api"),
		EnableSwagger:  api.MayBool("SWAGGER", true),
		EnableProfiler: api.MayBool("PROFILER", false),
	}
}

// Modules builds the module set, catalog administration is mounted only with postgres
func Modules(deps modkit.Deps) []module.Module {
	enrich := enrichmod.New(deps)
	kp, _ := module.PortsOf[enrichdom.KnowledgePort](enrich)
	mods := []module.Module{metamod.New(deps, modkit.WithPorts(metamod.Ports{Knowledge: kp})), enrich}

	if deps.PG != nil {
		mods = append(mods, catalogmod.New(deps, modkit.WithPorts(catalogmod.Ports{Knowledge: kp})))
	}
	return mods
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.DepsFrom(opt.Config, opt.Store)
	if opt.Logger != nil {
		deps.Log = opt.Logger
	}
	mods := Modules(deps)

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackFromConfig(opt.Config.Prefix("CORE_API_")))
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// ports are registered under the module name for cross module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	deps.Logger("api").Info().Strs("modules", module.Names()).Msg("api mounted")
}
