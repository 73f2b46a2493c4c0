package module

import (
	"runtime"
	"time"

	"enricher/internal/core/knowledge"
	"enricher/internal/platform/config"
)

// Options controls the knowledge cache, match fan out and request bounds
type Options struct {
	CacheTTL      time.Duration
	Workers       int
	ParallelMin   int
	ZeroAmount    knowledge.MovementType
	CategoryOrder knowledge.Order

	MaxBatch     int
	MaxBodyBytes int64
}

// FromConfig reads ENRICH_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ec := cfg.Prefix("ENRICH_")
	zero, _ := knowledge.ParseMovementType(ec.MayEnum("ZERO_AMOUNT", "income", "income", "expense"))
	return Options{
		CacheTTL:      ec.MayDuration("CACHE_TTL", time.Hour),
		Workers:       ec.MayInt("WORKERS", runtime.GOMAXPROCS(0)),
		ParallelMin:   ec.MayInt("PARALLEL_MIN", 64),
		ZeroAmount:    zero,
		CategoryOrder: knowledge.ParseOrder(ec.MayEnum("CATEGORY_ORDER", "id", "id", "provider")),
		MaxBatch:      ec.MayInt("MAX_BATCH", 10000),
		MaxBodyBytes:  int64(ec.MayInt("MAX_BODY_MB", 8)) << 20,
	}
}
