package knowledge

import "enricher/internal/core/normalize"

// stopWords are connector words ignored by category overlap scoring
var stopWords = map[string]struct{}{
	"y": {}, "e": {}, "o": {}, "u": {}, "a": {}, "&": {},
	"and": {}, "the": {},
	"de": {}, "del": {}, "la": {}, "lo": {}, "las": {}, "los": {},
	"en": {}, "el": {}, "para": {}, "por": {}, "con": {},
}

// IsStopWord reports whether w is excluded from overlap scoring
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// SignificantWords returns the set of words in normalized text minus stop words
func SignificantWords(normalized string) map[string]struct{} {
	fs := normalize.Fields(normalized)
	out := make(map[string]struct{}, len(fs))
	for _, w := range fs {
		if IsStopWord(w) {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
