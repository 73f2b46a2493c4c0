// Package rulepack loads the embedded seed catalog of categories, merchants and keywords.
// It resolves the id references between them into the knowledge types the compiler consumes
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"enricher/internal/core/knowledge"

	"github.com/google/uuid"
)

//go:embed catalog.json
var embedded []byte

type rawCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type rawMerchant struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Logo     *string `json:"merchant_logo,omitempty"`
	Category string  `json:"category,omitempty"`
}

type rawKeyword struct {
	ID       string `json:"id"`
	Phrase   string `json:"phrase"`
	Merchant string `json:"merchant,omitempty"`
}

type rawCatalog struct {
	Version    int           `json:"version"`
	CreatedAt  time.Time     `json:"created_at"`
	Categories []rawCategory `json:"categories"`
	Merchants  []rawMerchant `json:"merchants"`
	Keywords   []rawKeyword  `json:"keywords"`
}

// Catalog is a resolved seed catalog, references point into the catalog's own records
type Catalog struct {
	Version    int
	Categories []knowledge.Category
	Merchants  []knowledge.Merchant
	Keywords   []knowledge.Keyword
}

// Load parses the embedded catalog.json
func Load() (*Catalog, error) { return Parse(embedded) }

// MustLoad is Load for tests and boot paths, it panics on error
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Embedded returns the raw embedded catalog bytes
func Embedded() []byte { return append([]byte(nil), embedded...) }

// Parse decodes and resolves a catalog document.
// Unknown references and duplicate ids are errors, an empty reference means unassigned
func Parse(b []byte) (*Catalog, error) {
	var rc rawCatalog
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("rulepack: parse catalog: %w", err)
	}
	if rc.Version != 1 {
		return nil, fmt.Errorf("rulepack: unsupported catalog version %d (want 1)", rc.Version)
	}
	ts := rc.CreatedAt.UTC()

	c := &Catalog{
		Version:    rc.Version,
		Categories: make([]knowledge.Category, 0, len(rc.Categories)),
		Merchants:  make([]knowledge.Merchant, 0, len(rc.Merchants)),
		Keywords:   make([]knowledge.Keyword, 0, len(rc.Keywords)),
	}
	seen := make(map[uuid.UUID]struct{}, len(rc.Categories)+len(rc.Merchants)+len(rc.Keywords))

	catIdx := make(map[uuid.UUID]int, len(rc.Categories))
	for _, r := range rc.Categories {
		id, err := parseID(seen, "category", r.ID)
		if err != nil {
			return nil, err
		}
		mt, ok := knowledge.ParseMovementType(r.Type)
		if !ok {
			return nil, fmt.Errorf("rulepack: category %s: invalid type %q", id, r.Type)
		}
		catIdx[id] = len(c.Categories)
		c.Categories = append(c.Categories, knowledge.Category{
			ID: id, Name: strings.TrimSpace(r.Name), Type: mt, CreatedAt: ts, UpdatedAt: ts,
		})
	}

	merIdx := make(map[uuid.UUID]int, len(rc.Merchants))
	for _, r := range rc.Merchants {
		id, err := parseID(seen, "merchant", r.ID)
		if err != nil {
			return nil, err
		}
		m := knowledge.Merchant{ID: id, Name: strings.TrimSpace(r.Name), Logo: r.Logo, CreatedAt: ts, UpdatedAt: ts}
		if r.Category != "" {
			ref, err := uuid.Parse(r.Category)
			if err != nil {
				return nil, fmt.Errorf("rulepack: merchant %s: category ref %q: %w", id, r.Category, err)
			}
			i, ok := catIdx[ref]
			if !ok {
				return nil, fmt.Errorf("rulepack: merchant %s: unknown category %s", id, ref)
			}
			m.Category = &c.Categories[i]
		}
		merIdx[id] = len(c.Merchants)
		c.Merchants = append(c.Merchants, m)
	}

	for _, r := range rc.Keywords {
		id, err := parseID(seen, "keyword", r.ID)
		if err != nil {
			return nil, err
		}
		kw := knowledge.Keyword{ID: id, Phrase: strings.TrimSpace(r.Phrase)}
		if r.Merchant != "" {
			ref, err := uuid.Parse(r.Merchant)
			if err != nil {
				return nil, fmt.Errorf("rulepack: keyword %s: merchant ref %q: %w", id, r.Merchant, err)
			}
			i, ok := merIdx[ref]
			if !ok {
				return nil, fmt.Errorf("rulepack: keyword %s: unknown merchant %s", id, ref)
			}
			kw.Merchant = &c.Merchants[i]
		}
		c.Keywords = append(c.Keywords, kw)
	}

	return c, nil
}

func parseID(seen map[uuid.UUID]struct{}, kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("rulepack: %s id %q: %w", kind, s, err)
	}
	if _, dup := seen[id]; dup {
		return uuid.Nil, fmt.Errorf("rulepack: duplicate id %s", id)
	}
	seen[id] = struct{}{}
	return id, nil
}

// Snapshot returns deep copies so callers can hand them to knowledge.Compile
func (c *Catalog) Snapshot() ([]knowledge.Category, []knowledge.Merchant, []knowledge.Keyword) {
	cats := append([]knowledge.Category(nil), c.Categories...)
	catPtr := make(map[uuid.UUID]*knowledge.Category, len(cats))
	for i := range cats {
		catPtr[cats[i].ID] = &cats[i]
	}

	ms := make([]knowledge.Merchant, len(c.Merchants))
	merPtr := make(map[uuid.UUID]*knowledge.Merchant, len(ms))
	for i, m := range c.Merchants {
		if m.Category != nil {
			m.Category = catPtr[m.Category.ID]
		}
		ms[i] = m
		merPtr[m.ID] = &ms[i]
	}

	kws := make([]knowledge.Keyword, len(c.Keywords))
	for i, k := range c.Keywords {
		if k.Merchant != nil {
			k.Merchant = merPtr[k.Merchant.ID]
		}
		kws[i] = k
	}
	return cats, ms, kws
}

// Base compiles the catalog into a knowledge base
func (c *Catalog) Base(opts knowledge.Options) *knowledge.Base {
	cats, ms, kws := c.Snapshot()
	return knowledge.Compile(cats, ms, kws, opts)
}
