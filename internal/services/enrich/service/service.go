// Package service contains the batch enrichment workflow
package service

import (
	"context"
	"runtime"
	"time"

	"enricher/internal/core/knowledge"
	"enricher/internal/core/matcher"
	"enricher/internal/core/normalize"
	"enricher/internal/platform/logger"
	lumnet "enricher/internal/platform/net"
	"enricher/internal/platform/net/http/bind"
	"enricher/internal/services/enrich/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const sinkTimeout = 2 * time.Second

// Service is the public service port
type Service interface{ domain.ServicePort }

// BaseLoader hands out the current compiled knowledge base
type BaseLoader interface {
	Get(ctx context.Context) (*knowledge.Base, error)
}

// Options control matching fan out and the direction of zero amounts
type Options struct {
	// Workers is the number of match goroutines, 1 runs inline
	Workers int
	// ParallelMin is the batch size from which workers fan out
	ParallelMin int
	// ZeroAmount is the direction given to amount == 0
	ZeroAmount knowledge.MovementType

	// Sink is optional, it receives one Run per batch
	Sink domain.RunSink
	Now  func() time.Time
}

// Svc implements the Service interface
type Svc struct {
	loader BaseLoader
	opt    Options
	log    *logger.Logger
}

// New constructs the service
func New(loader BaseLoader, opt Options) *Svc {
	if loader == nil {
		panic("enrich.Service requires a non nil BaseLoader")
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	if opt.ParallelMin <= 0 {
		opt.ParallelMin = 64
	}
	if !opt.ZeroAmount.Valid() {
		opt.ZeroAmount = knowledge.Income
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Svc{loader: loader, opt: opt, log: logger.Named("enrich")}
}

// Enrich validates the whole batch, then matches every transaction in input order
// one invalid item rejects the batch before any matching happens
func (s *Svc) Enrich(ctx context.Context, in []domain.TransactionInput) (domain.EnrichResponse, error) {
	if len(in) == 0 {
		return domain.EnrichResponse{Transactions: []domain.EnrichedTransaction{}}, nil
	}
	if err := bind.ValidateList(in); err != nil {
		return domain.EnrichResponse{}, err
	}

	start := s.opt.Now()
	batchID := uuid.NewString()
	ctx = lumnet.WithBatchID(ctx, batchID)
	ctx = logger.WithField(ctx, "batch_id", batchID)

	base, err := s.loader.Get(ctx)
	if err != nil {
		return domain.EnrichResponse{}, err
	}

	results, err := s.match(ctx, matcher.New(base), in)
	if err != nil {
		return domain.EnrichResponse{}, err
	}

	out := make([]domain.EnrichedTransaction, len(in))
	for i := range in {
		out[i] = enriched(in[i], results[i])
	}
	resp := domain.EnrichResponse{Transactions: out, Metrics: ComputeMetrics(out)}

	run := summarize(results)
	run.BatchID, run.At, run.Elapsed = batchID, start.UTC(), s.opt.Now().Sub(start)
	logger.C(ctx).Debug().
		Int("total", run.Total).
		Int("categorized", run.Categories).
		Int("merchants", run.Merchants).
		Dur("elapsed", run.Elapsed).
		Msg("batch enriched")
	s.record(ctx, run)

	return resp, nil
}

// Movement derives the direction of an amount
func (s *Svc) Movement(amount decimal.Decimal) knowledge.MovementType {
	switch amount.Sign() {
	case 1:
		return knowledge.Income
	case -1:
		return knowledge.Expense
	}
	return s.opt.ZeroAmount
}

// match fills one result slot per input, workers own disjoint index ranges so order is kept
func (s *Svc) match(ctx context.Context, e *matcher.Engine, in []domain.TransactionInput) ([]matcher.Result, error) {
	out := make([]matcher.Result, len(in))
	one := func(i int) {
		out[i] = e.Match(normalize.Normalize(*in[i].Description), s.Movement(*in[i].Amount))
	}

	workers := s.opt.Workers
	if workers <= 1 || len(in) < s.opt.ParallelMin {
		for i := range in {
			one(i)
		}
		return out, nil
	}
	if workers > len(in) {
		workers = len(in)
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(in) + workers - 1) / workers
	for lo := 0; lo < len(in); lo += chunk {
		hi := min(lo+chunk, len(in))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				one(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Svc) record(ctx context.Context, run domain.Run) {
	if s.opt.Sink == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := s.opt.Sink.Record(sctx, run); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("run sink record failed")
	}
}

func enriched(in domain.TransactionInput, r matcher.Result) domain.EnrichedTransaction {
	return domain.EnrichedTransaction{
		Description: *in.Description,
		Amount:      domain.AmountNumber(*in.Amount),
		Date:        in.Date,
		Category:    CategoryView(r.Category),
		Merchant:    MerchantView(r.Merchant),
	}
}

func summarize(rs []matcher.Result) domain.Run {
	run := domain.Run{Total: len(rs)}
	for _, r := range rs {
		if r.Category != nil {
			run.Categories++
		}
		if r.Merchant != nil {
			run.Merchants++
		}
		switch r.Stage {
		case matcher.StageKeyword:
			run.Keyword++
		case matcher.StageMerchant:
			run.ByMerchant++
		case matcher.StageCategory:
			run.ByCategory++
		}
	}
	return run
}
