package knowledge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"enricher/internal/platform/cache"
	perr "enricher/internal/platform/errors"
	kit "enricher/internal/platform/testkit"
)

type fakeSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	delay time.Duration
	f     fixture
}

func (s *fakeSource) Categories(ctx context.Context) ([]Category, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail.Load() {
		return nil, errors.New("db down")
	}
	return append([]Category(nil), s.f.cats...), nil
}

func (s *fakeSource) Merchants(ctx context.Context) ([]Merchant, error) {
	return append([]Merchant(nil), s.f.merchants...), nil
}

func (s *fakeSource) Keywords(ctx context.Context) ([]Keyword, error) {
	return append([]Keyword(nil), s.f.keywords...), nil
}

// ttlCache wraps cache.Memory and records the last ttl per key
type ttlCache struct {
	*cache.Memory
	mu  sync.Mutex
	ttl time.Duration
}

func (c *ttlCache) Set(key string, v any, ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
	c.Memory.Set(key, v, ttl)
}

func (c *ttlCache) lastTTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl
}

func TestLoader_BuildsOnceAndCaches(t *testing.T) {
	t.Parallel()

	src := &fakeSource{f: newFixture()}
	l := NewLoader(src, cache.New())

	b1, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b2, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b1 != b2 {
		t.Fatalf("second Get must return the cached base")
	}
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("source called %d times, want 1", n)
	}
	if cur, ok := l.Current(); !ok || cur != b1 {
		t.Fatalf("Current must expose the cached base")
	}
}

func TestLoader_ConcurrentMissesShareOneBuild(t *testing.T) {
	t.Parallel()

	src := &fakeSource{f: newFixture(), delay: 50 * time.Millisecond}
	l := NewLoader(src, cache.New())

	const n = 32
	var wg sync.WaitGroup
	bases := make([]*Base, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bases[i], errs[i] = l.Get(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Get[%d]: %v", i, errs[i])
		}
		if bases[i] != bases[0] {
			t.Fatalf("Get[%d] returned a different base", i)
		}
	}
	if c := src.calls.Load(); c != 1 {
		t.Fatalf("source called %d times, want 1", c)
	}
}

func TestLoader_InvalidateRebuilds(t *testing.T) {
	t.Parallel()

	src := &fakeSource{f: newFixture()}
	l := NewLoader(src, cache.New())

	b1, _ := l.Get(context.Background())
	l.Invalidate()
	if _, ok := l.Current(); ok {
		t.Fatalf("Current must be empty after Invalidate")
	}
	b2, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b1 == b2 {
		t.Fatalf("Invalidate must force a new base")
	}
	if n := src.calls.Load(); n != 2 {
		t.Fatalf("source called %d times, want 2", n)
	}
}

func TestLoader_ErrorWithoutPreviousBase(t *testing.T) {
	t.Parallel()

	src := &fakeSource{f: newFixture()}
	src.fail.Store(true)
	l := NewLoader(src, cache.New())

	b, err := l.Get(context.Background())
	if err == nil || b != nil {
		t.Fatalf("want error and nil base, got %v,%v", b, err)
	}
	kit.MustContain(t, err.Error(), "knowledge: list categories")
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("code = %v, want unavailable", perr.CodeOf(err))
	}

	// nothing was cached, a recovered source is picked up on the next call
	src.fail.Store(false)
	if _, err := l.Get(context.Background()); err != nil {
		t.Fatalf("Get after recovery: %v", err)
	}
}

func TestLoader_ServesStaleOnFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{f: newFixture()}
	c := &ttlCache{Memory: cache.New()}
	l := NewLoader(src, c, WithTTL(time.Minute), WithStaleTTL(5*time.Second))

	b1, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.lastTTL() != time.Minute {
		t.Fatalf("fresh base ttl = %v", c.lastTTL())
	}

	src.fail.Store(true)
	l.Invalidate()

	b2, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("stale Get must not fail: %v", err)
	}
	if b2 != b1 {
		t.Fatalf("stale Get must return the previous base")
	}
	if c.lastTTL() != 5*time.Second {
		t.Fatalf("stale base ttl = %v, want 5s", c.lastTTL())
	}
}

func TestLoader_CanceledCallerStillCaches(t *testing.T) {
	t.Parallel()

	src := &fakeSource{f: newFixture()}
	l := NewLoader(src, cache.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Get(ctx); err != nil {
		t.Fatalf("Get with canceled ctx: %v", err)
	}
	if _, ok := l.Current(); !ok {
		t.Fatalf("base must be cached")
	}
}

func TestLoader_CompileOptions(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	src := &fakeSource{f: newFixture()}
	l := NewLoader(src, cache.New(), WithCompileOptions(Options{Now: func() time.Time { return at }}))

	b, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !b.BuiltAt.Equal(at) {
		t.Fatalf("BuiltAt = %v", b.BuiltAt)
	}
}

func TestLoader_Stats(t *testing.T) {
	t.Parallel()

	l := NewLoader(&fakeSource{f: newFixture()}, cache.New(), WithTTL(10*time.Minute))
	if st := l.Stats(); st.Cached || st.TTL != 10*time.Minute {
		t.Fatalf("cold stats = %+v", st)
	}
	if _, err := l.Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	st := l.Stats()
	if !st.Cached || st.Age < 0 || st.Base.Expense.Merchants == 0 {
		t.Fatalf("warm stats = %+v", st)
	}
	l.Invalidate()
	if l.Stats().Cached {
		t.Fatalf("stats after invalidate must be cold")
	}
}

func TestNewLoader_PanicsOnNilDeps(t *testing.T) {
	t.Parallel()

	kit.MustPanic(t, func() { NewLoader(nil, cache.New()) })
	kit.MustPanic(t, func() { NewLoader(&fakeSource{}, nil) })
}

// snapshotSource serves the fixture through Snapshot only
type snapshotSource struct {
	*fakeSource
	snaps atomic.Int32
}

func (s *snapshotSource) Snapshot(context.Context) (Catalog, error) {
	s.snaps.Add(1)
	if s.fail.Load() {
		return Catalog{}, errors.New("tx aborted")
	}
	return Catalog{Categories: s.f.cats, Merchants: s.f.merchants, Keywords: s.f.keywords}, nil
}

func TestLoader_PrefersSnapshot(t *testing.T) {
	t.Parallel()

	src := &snapshotSource{fakeSource: &fakeSource{f: newFixture()}}
	l := NewLoader(src, cache.New())

	b, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if src.snaps.Load() != 1 || src.calls.Load() != 0 {
		t.Fatalf("snapshots=%d list calls=%d", src.snaps.Load(), src.calls.Load())
	}
	if st := b.Stats(); st.Expense.Keywords == 0 {
		t.Fatalf("empty base from snapshot: %+v", st)
	}

	broken := &snapshotSource{fakeSource: &fakeSource{f: newFixture()}}
	broken.fail.Store(true)
	_, err = NewLoader(broken, cache.New()).Get(context.Background())
	if err == nil {
		t.Fatalf("want snapshot error")
	}
	kit.MustContain(t, err.Error(), "knowledge: snapshot")
}
