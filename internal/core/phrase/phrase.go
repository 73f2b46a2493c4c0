// Package phrase compiles ordered word sequences into whole-token matchers.
//
// A Matcher succeeds when every word appears in the text as a whole token, in the
// given order, with any amount of text between consecutive words. Matching is done
// over lower-cased text; callers hand in normalized descriptions.
package phrase

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrEmpty is returned when no words are given
	ErrEmpty = errors.New("phrase: no words")

	// ErrBadWord is returned for an empty word, a word with spaces or invalid UTF-8
	ErrBadWord = errors.New("phrase: malformed word")

	// ErrNoWordRune is returned when a word has no letter or number and can never form a token
	ErrNoWordRune = errors.New("phrase: word has no letter or number")
)

// Matcher is an immutable compiled phrase
type Matcher struct {
	words []string
}

// Compile turns an ordered word sequence into a Matcher
func Compile(words []string) (*Matcher, error) {
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	out := make([]string, len(words))
	for i, w := range words {
		if w == "" || !utf8.ValidString(w) || strings.IndexFunc(w, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadWord, w)
		}
		if !hasWordRune(w) {
			return nil, fmt.Errorf("%w: %q", ErrNoWordRune, w)
		}
		out[i] = strings.ToLower(w)
	}
	return &Matcher{words: out}, nil
}

// MustCompile is Compile for static tables, it panics on error
func MustCompile(words ...string) *Matcher {
	m, err := Compile(words)
	if err != nil {
		panic(err)
	}
	return m
}

// Words returns a copy of the compiled words
func (m *Matcher) Words() []string { return append([]string(nil), m.words...) }

// String renders the phrase with single spaces
func (m *Matcher) String() string { return strings.Join(m.words, " ") }

// Match reports whether the words occur in s in order as whole tokens
// s is expected to be lower-cased already
func (m *Matcher) Match(s string) bool {
	if m == nil {
		return false
	}
	pos := 0
	for _, w := range m.words {
		i := indexToken(s, w, pos)
		if i < 0 {
			return false
		}
		pos = i + len(w)
	}
	return true
}

// indexToken finds the first whole-token occurrence of w in s at or after from
// the earliest end is always the best choice for the next word, so no backtracking
func indexToken(s, w string, from int) int {
	for from+len(w) <= len(s) {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return -1
		}
		start := from + i
		if boundaryOK(s, start, start+len(w)) {
			return start
		}
		_, sz := utf8.DecodeRuneInString(s[start:])
		from = start + sz
	}
	return -1
}
