package domain

import (
	"context"

	"enricher/internal/core/knowledge"
)

// ServicePort is the enrichment contract
type ServicePort interface {
	Enrich(ctx context.Context, in []TransactionInput) (EnrichResponse, error)
}

// SourcePort lists the catalog snapshot the knowledge base is compiled from
type SourcePort = knowledge.Source

// RunSink records batch aggregates, failures never fail a batch
type RunSink interface {
	Record(ctx context.Context, r Run) error
}

// Invalidator drops the compiled knowledge base so the next batch rebuilds it
// the catalog module calls it after every write
type Invalidator interface {
	Invalidate()
}

// KnowledgePort exposes the cached base for the knowledge endpoints and readiness
type KnowledgePort interface {
	Invalidator
	Get(ctx context.Context) (*knowledge.Base, error)
	Stats() knowledge.LoaderStats
}
