// Package knowledge compiles categories, merchants and keywords into the immutable,
// direction partitioned lookup structure the matching engine reads
package knowledge

import (
	"context"
	"strings"
	"time"

	"enricher/internal/core/phrase"

	"github.com/google/uuid"
)

// MovementType is the direction of money, carried by categories and derived for transactions
type MovementType string

const (
	// Income is money in, amount >= 0 by default
	Income MovementType = "income"
	// Expense is money out
	Expense MovementType = "expense"
)

// Valid reports whether m is income or expense
func (m MovementType) Valid() bool { return m == Income || m == Expense }

// ParseMovementType parses a case-insensitive movement type
func ParseMovementType(s string) (MovementType, bool) {
	m := MovementType(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Category is a classification bucket
type Category struct {
	ID        uuid.UUID
	Name      string
	Type      MovementType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Merchant is a counterparty, Category is nil when unassigned
type Merchant struct {
	ID        uuid.UUID
	Name      string
	Logo      *string
	Category  *Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Keyword is a phrase pointing at a merchant, Merchant is nil when unassigned
type Keyword struct {
	ID       uuid.UUID
	Phrase   string
	Merchant *Merchant
}

// Source is the data provider
// merchants come with their category resolved and keywords with merchant and category resolved
type Source interface {
	Categories(ctx context.Context) ([]Category, error)
	Merchants(ctx context.Context) ([]Merchant, error)
	Keywords(ctx context.Context) ([]Keyword, error)
}

// Catalog is the three lists read at one point in time
type Catalog struct {
	Categories []Category
	Merchants  []Merchant
	Keywords   []Keyword
}

// Snapshotter is a Source that can read all three lists consistently, the loader prefers it
type Snapshotter interface {
	Snapshot(ctx context.Context) (Catalog, error)
}

// Cache is the cache provider the loader stores compiled bases in
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, v any, ttl time.Duration)
	Delete(key string)
}

// Entry is a compiled keyword or merchant phrase
// Keyword is nil for merchant entries
type Entry struct {
	Keyword  *Keyword
	Merchant *Merchant
	Matcher  *phrase.Matcher
	Length   int // rune length of the original phrase, longest wins

	need []int32
}

// CategoryEntry is a category with its significant name words
type CategoryEntry struct {
	Category *Category
	Words    map[string]struct{}
}

// Partition holds everything that applies to one movement type
type Partition struct {
	Keywords   []Entry
	Merchants  []Entry
	Categories []CategoryEntry

	index *phrase.Index
}

// Scan runs the partition prefilter over a lower-cased description
func (p *Partition) Scan(text string) phrase.Hits {
	if p == nil {
		return nil
	}
	return p.index.Scan(text)
}

// Candidate reports whether e can match given the prefilter hits
func (e *Entry) Candidate(h phrase.Hits) bool { return h.HasAll(e.need) }

// Base is the compiled knowledge base, never mutated after Compile returns
type Base struct {
	income  Partition
	expense Partition

	BuiltAt     time.Time
	Diagnostics []Diagnostic
	Skipped     Skipped
}

// Partition returns the partition for m, nil for an invalid movement type
func (b *Base) Partition(m MovementType) *Partition {
	if b == nil {
		return nil
	}
	switch m {
	case Income:
		return &b.income
	case Expense:
		return &b.expense
	}
	return nil
}

// Stats summarizes partition sizes
type Stats struct {
	BuiltAt     time.Time      `json:"built_at"`
	Income      PartitionStats `json:"income"`
	Expense     PartitionStats `json:"expense"`
	Diagnostics int            `json:"diagnostics"`
	Skipped     Skipped        `json:"skipped"`
}

// PartitionStats are counts for one partition
type PartitionStats struct {
	Keywords   int `json:"keywords"`
	Merchants  int `json:"merchants"`
	Categories int `json:"categories"`
	Words      int `json:"words"`
}

// Stats returns counts for both partitions
func (b *Base) Stats() Stats {
	if b == nil {
		return Stats{}
	}
	ps := func(p *Partition) PartitionStats {
		return PartitionStats{
			Keywords:   len(p.Keywords),
			Merchants:  len(p.Merchants),
			Categories: len(p.Categories),
			Words:      p.index.Len(),
		}
	}
	return Stats{
		BuiltAt:     b.BuiltAt,
		Income:      ps(&b.income),
		Expense:     ps(&b.expense),
		Diagnostics: len(b.Diagnostics),
		Skipped:     b.Skipped,
	}
}
