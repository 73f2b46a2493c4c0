// Package normalize provides the deterministic text normalizer used before rule matching
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode lower casing
// 3 Map the separator set * / - . , ' # [ ] | ( ) ! ? ¿ ¡ to a space
// 4 Collapse whitespace runs to a single space and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Normalizer is concurrency safe, transformer chains are pooled
type Normalizer struct{}

// pool of fresh transformer chains, casers carry state so they are never shared
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			cases.Lower(language.Und),
			runes.Map(separatorToSpace),
		)
	},
}

var std = New()

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize runs the package default normalizer
func Normalize(s string) string { return std.Normalize(s) }

// Normalize returns the canonical form of s, empty input yields empty output
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on malformed input which was repaired above
		ns = strings.ToLower(s)
	}

	return collapseSpaces(ns)
}

// Fields splits normalized text into its words
func Fields(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// separatorToSpace maps the fixed separator set to a space
func separatorToSpace(r rune) rune {
	switch r {
	case '*', '/', '-', '.', ',', '\'', '#', '[', ']', '|', '(', ')', '!', '?', '¿', '¡':
		return ' '
	}
	return r
}

// collapseSpaces converts every whitespace run to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
