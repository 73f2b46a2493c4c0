package pg

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"enricher/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	testkit.Serial(t)

	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})

	_, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db?sslmode=disable"}, nil, nil)
	if err == nil {
		t.Fatalf("expected newPool error")
	}
}

func TestOpen_AppliesConfigAndMutator(t *testing.T) {
	testkit.Serial(t)

	fake := &pgxpool.Pool{} // zero value, never closed
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return fake, nil
	})

	var called atomic.Bool
	cfg := Config{URL: "postgres://u:p@h:5432/db?sslmode=disable", MaxConns: 7, SlowMs: 123}
	p, err := Open(context.Background(), cfg, nil, func(pc *pgxpool.Config) {
		called.Store(true)
		if pc.MaxConns != 7 {
			t.Errorf("MaxConns = %d, want 7", pc.MaxConns)
		}
		pc.MaxConnIdleTime = 42 * time.Second
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !called.Load() {
		t.Fatalf("mutator not invoked")
	}
	if p.SlowMs != 123 || p.Pool != fake {
		t.Fatalf("client not wired: %+v", p)
	}
}

func TestNilSafety(t *testing.T) {
	t.Parallel()

	var p *PG
	testkit.MustNotPanic(t, func() { p.Close() })
	if err := p.Ping(context.Background()); err == nil {
		t.Fatalf("Ping on nil client must fail")
	}

	p = &PG{}
	testkit.MustNotPanic(t, func() { p.Close(); p.Close() })
}
