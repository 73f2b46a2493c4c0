package knowledge

import (
	"bytes"
	"sort"
	"time"
	"unicode/utf8"

	"enricher/internal/core/normalize"
	"enricher/internal/core/phrase"

	"github.com/google/uuid"
)

// Order selects how the category partition is ordered before scoring
type Order string

const (
	// OrderByID sorts categories by identifier so equal scores resolve the same way on every rebuild
	OrderByID Order = "id"
	// OrderProvider keeps the order the source returned
	OrderProvider Order = "provider"
)

// ParseOrder parses an Order, unknown values fall back to OrderByID
func ParseOrder(s string) Order {
	if Order(s) == OrderProvider {
		return OrderProvider
	}
	return OrderByID
}

// Options tune Compile
type Options struct {
	CategoryOrder Order
	Now           func() time.Time
}

// Kind names the entity a diagnostic is about
type Kind string

const (
	// KindKeyword is a keyword phrase
	KindKeyword Kind = "keyword"
	// KindMerchant is a merchant name
	KindMerchant Kind = "merchant"
)

// Diagnostic records a phrase that failed to compile and was dropped
type Diagnostic struct {
	Kind   Kind
	ID     uuid.UUID
	Phrase string
	Err    error
}

// Skipped counts entities left out for missing relationships or empty text
type Skipped struct {
	Keywords   int `json:"keywords"`
	Merchants  int `json:"merchants"`
	Categories int `json:"categories"`
}

// Compile builds a Base from a snapshot. It takes ownership of the slices.
// Bad records are skipped one by one and never abort the build
func Compile(categories []Category, merchants []Merchant, keywords []Keyword, opts Options) *Base {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	c := compiler{
		base: &Base{BuiltAt: now()},
		idx: map[MovementType]*phrase.Builder{
			Income:  phrase.NewBuilder(),
			Expense: phrase.NewBuilder(),
		},
	}

	// 1 keywords, resolved through merchant to category
	for i := range keywords {
		kw := &keywords[i]
		m := kw.Merchant
		if m == nil || m.Category == nil || !m.Category.Type.Valid() {
			c.base.Skipped.Keywords++
			continue
		}
		mt := c.matcher(KindKeyword, kw.ID, kw.Phrase)
		if mt == nil {
			continue
		}
		p := c.base.Partition(m.Category.Type)
		p.Keywords = append(p.Keywords, Entry{
			Keyword:  kw,
			Merchant: m,
			Matcher:  mt,
			Length:   utf8.RuneCountInString(kw.Phrase),
			need:     c.idx[m.Category.Type].Require(mt),
		})
	}

	// 2 merchants by name
	for i := range merchants {
		m := &merchants[i]
		if m.Category == nil || !m.Category.Type.Valid() {
			c.base.Skipped.Merchants++
			continue
		}
		mt := c.matcher(KindMerchant, m.ID, m.Name)
		if mt == nil {
			continue
		}
		p := c.base.Partition(m.Category.Type)
		p.Merchants = append(p.Merchants, Entry{
			Merchant: m,
			Matcher:  mt,
			Length:   utf8.RuneCountInString(m.Name),
			need:     c.idx[m.Category.Type].Require(mt),
		})
	}

	// 3 categories by significant name words
	for i := range categories {
		cat := &categories[i]
		if !cat.Type.Valid() {
			c.base.Skipped.Categories++
			continue
		}
		words := SignificantWords(normalize.Normalize(cat.Name))
		if len(words) == 0 {
			c.base.Skipped.Categories++
			continue
		}
		p := c.base.Partition(cat.Type)
		p.Categories = append(p.Categories, CategoryEntry{Category: cat, Words: words})
	}

	// 4 longest phrase first, 5 categories only get a deterministic order
	for _, mt := range []MovementType{Income, Expense} {
		p := c.base.Partition(mt)
		sortLongestFirst(p.Keywords)
		sortLongestFirst(p.Merchants)
		if opts.CategoryOrder != OrderProvider {
			sort.SliceStable(p.Categories, func(i, j int) bool {
				a, b := p.Categories[i].Category.ID, p.Categories[j].Category.ID
				return bytes.Compare(a[:], b[:]) < 0
			})
		}
		p.index = c.idx[mt].Build()
	}

	return c.base
}

type compiler struct {
	base *Base
	idx  map[MovementType]*phrase.Builder
}

// matcher normalizes raw and compiles it, nil means skip
func (c *compiler) matcher(kind Kind, id uuid.UUID, raw string) *phrase.Matcher {
	words := normalize.Fields(normalize.Normalize(raw))
	if len(words) == 0 {
		if kind == KindKeyword {
			c.base.Skipped.Keywords++
		} else {
			c.base.Skipped.Merchants++
		}
		return nil
	}
	m, err := phrase.Compile(words)
	if err != nil {
		c.base.Diagnostics = append(c.base.Diagnostics, Diagnostic{Kind: kind, ID: id, Phrase: raw, Err: err})
		return nil
	}
	return m
}

func sortLongestFirst(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool { return es[i].Length > es[j].Length })
}
