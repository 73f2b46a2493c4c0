// Command enricher-batch enriches a JSON array of transactions read from a file or stdin
//
//	enricher-batch -in batch.json
//	cat batch.json | enricher-batch -seed catalog.json -workers 4
//	enricher-batch -pg -import -in batch.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"enricher/internal/core/rulepack"
	"enricher/internal/platform/config"
	perr "enricher/internal/platform/errors"
	"enricher/internal/platform/logger"
	"enricher/internal/platform/net/http/bind"
	"enricher/internal/platform/store"

	catalogrepo "enricher/internal/services/catalog/repo"
	catalogsvc "enricher/internal/services/catalog/service"
	"enricher/internal/services/enrich/domain"
	enrichmod "enricher/internal/services/enrich/module"
	enrichrepo "enricher/internal/services/enrich/repo"
)

type flags struct {
	in      string
	seed    string
	pg      bool
	doImp   bool
	workers int
	pretty  bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("enricher-batch", flag.ContinueOnError)
	fs.StringVar(&f.in, "in", "", "JSON batch file, stdin when empty or -")
	fs.StringVar(&f.seed, "seed", "", "catalog JSON file, the embedded catalog when empty")
	fs.BoolVar(&f.pg, "pg", false, "read the catalog from postgres (SERVICE_PGSQL_DBURL)")
	fs.BoolVar(&f.doImp, "import", false, "with -pg, migrate and import the seed catalog first")
	fs.IntVar(&f.workers, "workers", 0, "match workers, 0 uses ENRICH_WORKERS")
	fs.BoolVar(&f.pretty, "pretty", false, "indent the output")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.doImp && !f.pg {
		return f, fmt.Errorf("-import needs -pg")
	}
	return f, nil
}

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Named("batch")

	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f, os.Stdin, os.Stdout); err != nil {
		l.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("batch failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, stdin io.Reader, stdout io.Writer) error {
	root := config.New()
	o := enrichmod.FromConfig(root)
	if f.workers > 0 {
		o.Workers = f.workers
	}

	batch, err := readBatch(f.in, stdin, o.MaxBodyBytes, o.MaxBatch)
	if err != nil {
		return err
	}

	src, closeSrc, err := source(ctx, f, root)
	if err != nil {
		return err
	}
	defer closeSrc()

	svc, _ := enrichmod.NewService(src, nil, o, logger.Named("knowledge"))
	resp, err := svc.Enrich(ctx, batch)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if f.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

func readBatch(path string, stdin io.Reader, maxBytes int64, maxItems int) ([]domain.TransactionInput, error) {
	r := stdin
	if path != "" && path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open %s", path)
		}
		defer fh.Close()
		r = fh
	}
	// the service validates the whole batch itself
	return bind.ReadJSONList[domain.TransactionInput](r, bind.JSONOptions{
		MaxBytes:       maxBytes,
		MaxItems:       maxItems,
		SkipValidation: true,
	})
}

func seedCatalog(path string) (*rulepack.Catalog, error) {
	if path == "" {
		return rulepack.Load()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read seed %s", path)
	}
	return rulepack.Parse(b)
}

func source(ctx context.Context, f flags, root config.Conf) (domain.SourcePort, func(), error) {
	if !f.pg {
		c, err := seedCatalog(f.seed)
		if err != nil {
			return nil, nil, err
		}
		seed, err := enrichrepo.NewSeed(c)
		if err != nil {
			return nil, nil, err
		}
		return seed, func() {}, nil
	}

	stCfg := store.FromEnv(root, "batch")
	stCfg.PG.Enabled = true
	stCfg.PG.URL = root.Prefix("SERVICE_PGSQL_").MustString("DBURL")
	stCfg.CH.Enabled = false

	st, err := store.Open(ctx, stCfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = st.Close(context.Background()) }

	if f.doImp {
		c, err := seedCatalog(f.seed)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if err := catalogrepo.Migrate(ctx, st.PG); err != nil {
			closeFn()
			return nil, nil, err
		}
		stats, err := catalogsvc.New(st.PG, catalogrepo.NewPG(), nil).Import(ctx, c)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		logger.C(ctx).Info().
			Int("categories", stats.Categories).
			Int("merchants", stats.Merchants).
			Int("keywords", stats.Keywords).
			Msg("seed catalog imported")
	}
	return enrichrepo.NewTxSource(st.PG), closeFn, nil
}
