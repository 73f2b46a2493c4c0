package knowledge

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	perr "enricher/internal/platform/errors"
	"enricher/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

// CacheKey is the single key the compiled base lives under
const CacheKey = "knowledge_base_v1"

const (
	defaultTTL      = time.Hour
	defaultStaleTTL = 30 * time.Second
)

// Loader is the get-or-build front of the compiled base
// concurrent misses share one build, a rebuild swaps the cached pointer wholesale
type Loader struct {
	src   Source
	cache Cache
	opts  Options

	ttl      time.Duration
	staleTTL time.Duration

	group singleflight.Group
	last  atomic.Pointer[Base]
	log   *logger.Logger
}

// LoaderOption tunes a Loader
type LoaderOption func(*Loader)

// WithTTL sets the validity window of a compiled base
func WithTTL(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.ttl = d
		}
	}
}

// WithStaleTTL sets how long a stale base is served after a failed rebuild
func WithStaleTTL(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.staleTTL = d
		}
	}
}

// WithCompileOptions forwards options to Compile
func WithCompileOptions(o Options) LoaderOption {
	return func(l *Loader) { l.opts = o }
}

// WithLogger overrides the component logger
func WithLogger(log *logger.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader wires a source and a cache
func NewLoader(src Source, cache Cache, opts ...LoaderOption) *Loader {
	if src == nil {
		panic("knowledge.Loader requires a non-nil Source")
	}
	if cache == nil {
		panic("knowledge.Loader requires a non-nil Cache")
	}
	l := &Loader{
		src:      src,
		cache:    cache,
		ttl:      defaultTTL,
		staleTTL: defaultStaleTTL,
		log:      logger.Named("knowledge"),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Get returns the cached base or builds a fresh one
// when the source fails and an older base exists the older base is served for a short while
func (l *Loader) Get(ctx context.Context) (*Base, error) {
	if b, ok := l.cached(); ok {
		return b, nil
	}

	v, err, shared := l.group.Do(CacheKey, func() (any, error) {
		// a flight that just finished may have filled the cache
		if b, ok := l.cached(); ok {
			return b, nil
		}

		b, err := l.build(context.WithoutCancel(ctx))
		if err != nil {
			if prev := l.last.Load(); prev != nil {
				l.log.Warn().Err(err).Time("built_at", prev.BuiltAt).Msg("knowledge rebuild failed, serving stale base")
				l.cache.Set(CacheKey, prev, l.staleTTL)
				return prev, nil
			}
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "knowledge base unavailable")
		}

		l.cache.Set(CacheKey, b, l.ttl)
		l.last.Store(b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.log.Debug().Msg("knowledge build shared")
	}
	return v.(*Base), nil
}

// Invalidate drops the cached base, the next Get rebuilds
func (l *Loader) Invalidate() {
	l.cache.Delete(CacheKey)
	l.log.Info().Msg("knowledge base invalidated")
}

// Current returns the cached base without building
func (l *Loader) Current() (*Base, bool) { return l.cached() }

// LoaderStats is the state of the cached base
type LoaderStats struct {
	Cached bool          `json:"cached"`
	Age    time.Duration `json:"age_ns"`
	TTL    time.Duration `json:"ttl_ns"`
	Base   Stats         `json:"base"`
}

// Stats reports the cached base and its age, a missing base reports Cached false
func (l *Loader) Stats() LoaderStats {
	st := LoaderStats{TTL: l.ttl}
	b, ok := l.cached()
	if !ok {
		return st
	}
	st.Cached = true
	st.Age = time.Since(b.BuiltAt)
	st.Base = b.Stats()
	return st
}

func (l *Loader) cached() (*Base, bool) {
	v, ok := l.cache.Get(CacheKey)
	if !ok {
		return nil, false
	}
	b, ok := v.(*Base)
	return b, ok && b != nil
}

func (l *Loader) build(ctx context.Context) (*Base, error) {
	start := time.Now()

	c, err := l.read(ctx)
	if err != nil {
		return nil, err
	}

	b := Compile(c.Categories, c.Merchants, c.Keywords, l.opts)

	for _, d := range b.Diagnostics {
		l.log.Warn().
			Str("kind", string(d.Kind)).
			Str("id", d.ID.String()).
			Str("phrase", d.Phrase).
			Err(d.Err).
			Msg("phrase dropped from knowledge base")
	}

	st := b.Stats()
	l.log.Info().
		Int("income_keywords", st.Income.Keywords).
		Int("income_merchants", st.Income.Merchants).
		Int("income_categories", st.Income.Categories).
		Int("expense_keywords", st.Expense.Keywords).
		Int("expense_merchants", st.Expense.Merchants).
		Int("expense_categories", st.Expense.Categories).
		Int("skipped_keywords", st.Skipped.Keywords).
		Int("skipped_merchants", st.Skipped.Merchants).
		Int("skipped_categories", st.Skipped.Categories).
		Dur("elapsed", time.Since(start)).
		Msg("knowledge base compiled")

	return b, nil
}

func (l *Loader) read(ctx context.Context) (Catalog, error) {
	if s, ok := l.src.(Snapshotter); ok {
		c, err := s.Snapshot(ctx)
		if err != nil {
			return Catalog{}, fmt.Errorf("knowledge: snapshot: %w", err)
		}
		return c, nil
	}

	var (
		c   Catalog
		err error
	)
	if c.Categories, err = l.src.Categories(ctx); err != nil {
		return Catalog{}, fmt.Errorf("knowledge: list categories: %w", err)
	}
	if c.Merchants, err = l.src.Merchants(ctx); err != nil {
		return Catalog{}, fmt.Errorf("knowledge: list merchants: %w", err)
	}
	if c.Keywords, err = l.src.Keywords(ctx); err != nil {
		return Catalog{}, fmt.Errorf("knowledge: list keywords: %w", err)
	}
	return c, nil
}
