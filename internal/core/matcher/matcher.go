// Package matcher implements the three stage enrichment policy over a compiled knowledge base
package matcher

import (
	"strings"

	"enricher/internal/core/knowledge"
	"enricher/internal/core/phrase"
)

// Stage tags which rule tier produced a Result
type Stage uint8

const (
	// StageNone means nothing matched
	StageNone Stage = iota
	// StageKeyword is a keyword phrase hit
	StageKeyword
	// StageMerchant is a merchant name hit
	StageMerchant
	// StageCategory is a category word overlap hit, Merchant is always nil
	StageCategory
)

func (s Stage) String() string {
	switch s {
	case StageKeyword:
		return "keyword"
	case StageMerchant:
		return "merchant"
	case StageCategory:
		return "category"
	}
	return "none"
}

// Result is the outcome for one description
// when Merchant is set Category is the merchant's own category
type Result struct {
	Stage    Stage
	Category *knowledge.Category
	Merchant *knowledge.Merchant
	Keyword  *knowledge.Keyword // set for StageKeyword only
	Score    int                // word overlap for StageCategory
}

// Matched reports whether any stage resolved a category
func (r Result) Matched() bool { return r.Category != nil }

// Engine evaluates descriptions against one immutable base, safe for concurrent use
type Engine struct {
	base *knowledge.Base
}

// New binds an engine to a compiled base
func New(b *knowledge.Base) *Engine { return &Engine{base: b} }

// Base returns the bound knowledge base
func (e *Engine) Base() *knowledge.Base { return e.base }

// stage is one tier of the pipeline, ok=false passes to the next tier
type stage func(p *knowledge.Partition, text string, hits phrase.Hits) (Result, bool)

var pipeline = [...]stage{keywordStage, merchantStage, categoryStage}

// Match runs keyword, merchant then category matching for normalized text in direction m
func (e *Engine) Match(normalized string, m knowledge.MovementType) Result {
	p := e.base.Partition(m)
	if p == nil || normalized == "" {
		return Result{}
	}
	text := strings.ToLower(normalized)
	hits := p.Scan(text)
	for _, run := range pipeline {
		if r, ok := run(p, text, hits); ok {
			return r
		}
	}
	return Result{}
}

func keywordStage(p *knowledge.Partition, text string, hits phrase.Hits) (Result, bool) {
	e := first(p.Keywords, text, hits)
	if e == nil {
		return Result{}, false
	}
	return Result{Stage: StageKeyword, Keyword: e.Keyword, Merchant: e.Merchant, Category: e.Merchant.Category}, true
}

func merchantStage(p *knowledge.Partition, text string, hits phrase.Hits) (Result, bool) {
	e := first(p.Merchants, text, hits)
	if e == nil {
		return Result{}, false
	}
	return Result{Stage: StageMerchant, Merchant: e.Merchant, Category: e.Merchant.Category}, true
}

// first returns the first entry in stored order whose phrase matches
func first(es []knowledge.Entry, text string, hits phrase.Hits) *knowledge.Entry {
	for i := range es {
		e := &es[i]
		if !e.Candidate(hits) {
			continue
		}
		if e.Matcher.Match(text) {
			return e
		}
	}
	return nil
}

// categoryStage scores word overlap, the first entry with the strictly highest score wins
func categoryStage(p *knowledge.Partition, text string, _ phrase.Hits) (Result, bool) {
	if len(p.Categories) == 0 {
		return Result{}, false
	}
	words := knowledge.SignificantWords(text)
	if len(words) == 0 {
		return Result{}, false
	}

	var best *knowledge.CategoryEntry
	bestScore := 0
	for i := range p.Categories {
		ce := &p.Categories[i]
		if s := overlap(words, ce.Words); s > bestScore {
			best, bestScore = ce, s
		}
	}
	if best == nil {
		return Result{}, false
	}
	return Result{Stage: StageCategory, Category: best.Category, Score: bestScore}, true
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
