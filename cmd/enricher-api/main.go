// @title         Enricher API
// @version       1.0
// @description   Categorizes bank transactions and identifies merchants

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"enricher/internal/modkit/repokit"
	"enricher/internal/platform/config"
	"enricher/internal/platform/logger"
	phttp "enricher/internal/platform/net/http"
	"enricher/internal/platform/store"

	"enricher/internal/services/api"
	catalogrepo "enricher/internal/services/catalog/repo"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stCfg := store.FromEnv(root, "api")
	st, err := store.Open(ctx, stCfg, store.WithLogger(logger.Named("store")))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if st.PG != nil && stCfg.PG.AutoMigrate {
		if err := catalogrepo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("catalog migration failed")
		}
		l.Info().Msg("catalog schema applied")
	}

	// reads CORE_API_API_PORT and the server timeouts
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.OptionsFromConfig(root, st))

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
