package repo

import (
	"context"
	"fmt"

	"enricher/internal/modkit/repokit"
	"enricher/internal/services/enrich/domain"
)

// RunsTable holds one row per enriched batch
const RunsTable = "enrich_runs"

const runsDDL = `CREATE TABLE IF NOT EXISTS ` + RunsTable + ` (
	batch_id     String,
	at           DateTime64(3, 'UTC'),
	total        UInt32,
	categorized  UInt32,
	merchants    UInt32,
	by_keyword   UInt32,
	by_merchant  UInt32,
	by_category  UInt32,
	elapsed_us   UInt64
) ENGINE = MergeTree
ORDER BY (at, batch_id)`

// CHRuns writes batch aggregates to ClickHouse
type CHRuns struct{ ch repokit.Clickhouse }

// NewCHRuns binds the sink to a ClickHouse client
func NewCHRuns(ch repokit.Clickhouse) *CHRuns {
	if ch == nil {
		panic("enrich.CHRuns requires a non nil Clickhouse")
	}
	return &CHRuns{ch: ch}
}

// EnsureSchema creates the runs table when missing
func (s *CHRuns) EnsureSchema(ctx context.Context) error {
	if err := s.ch.Exec(ctx, runsDDL); err != nil {
		return fmt.Errorf("create %s: %w", RunsTable, err)
	}
	return nil
}

// Record inserts one run row
func (s *CHRuns) Record(ctx context.Context, r domain.Run) error {
	row := []any{
		r.BatchID,
		r.At,
		uint32(r.Total),
		uint32(r.Categories),
		uint32(r.Merchants),
		uint32(r.Keyword),
		uint32(r.ByMerchant),
		uint32(r.ByCategory),
		uint64(r.Elapsed.Microseconds()),
	}
	return s.ch.Insert(ctx, RunsTable, [][]any{row})
}
