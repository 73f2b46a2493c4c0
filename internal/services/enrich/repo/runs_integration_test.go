//go:build integration_ch

package repo

import (
	"context"
	"testing"
	"time"

	"enricher/internal/platform/store"
	"enricher/internal/platform/store/storetest"
	"enricher/internal/services/enrich/domain"
)

func TestIntegration_CHRuns(t *testing.T) {
	dsn := storetest.Clickhouse(t)
	ctx := context.Background()

	s, err := store.Open(ctx, store.Config{CH: store.CHConfig{Enabled: true, URL: dsn, ClientRole: "test"}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	runs := NewCHRuns(s.CH)
	for range 2 {
		if err := runs.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema: %v", err)
		}
	}

	at := time.Date(2025, 4, 28, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"b1", "b2"} {
		err := runs.Record(ctx, domain.Run{BatchID: id, At: at, Total: 3, Categories: 2, Merchants: 1, Keyword: 1, ByCategory: 1, Elapsed: time.Millisecond})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	rows, err := s.CH.Query(ctx, `SELECT count(), sum(total), sum(categorized) FROM `+RunsTable)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatalf("no rows")
	}
	var n, total, cats uint64
	if err := rows.Scan(&n, &total, &cats); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 2 || total != 6 || cats != 4 {
		t.Fatalf("count=%d total=%d categorized=%d", n, total, cats)
	}
}
