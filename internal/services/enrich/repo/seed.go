package repo

import (
	"context"

	"enricher/internal/core/knowledge"
	"enricher/internal/core/rulepack"
)

// Seed serves the embedded rulepack catalog, used when Postgres is disabled
type Seed struct{ c *rulepack.Catalog }

// NewSeed wraps a parsed catalog, nil loads the embedded one
func NewSeed(c *rulepack.Catalog) (*Seed, error) {
	if c == nil {
		var err error
		if c, err = rulepack.Load(); err != nil {
			return nil, err
		}
	}
	return &Seed{c: c}, nil
}

// Categories returns a copy of the seed categories
func (s *Seed) Categories(context.Context) ([]knowledge.Category, error) {
	cats, _, _ := s.c.Snapshot()
	return cats, nil
}

// Merchants returns a copy of the seed merchants with categories resolved
func (s *Seed) Merchants(context.Context) ([]knowledge.Merchant, error) {
	_, ms, _ := s.c.Snapshot()
	return ms, nil
}

// Keywords returns a copy of the seed keywords with merchants resolved
func (s *Seed) Keywords(context.Context) ([]knowledge.Keyword, error) {
	_, _, kws := s.c.Snapshot()
	return kws, nil
}
