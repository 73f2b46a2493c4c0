package phrase

// Index answers "which phrase words occur as whole tokens in this text" with one pass.
// It is a prefilter: a Matcher can only succeed when all of its words are present
type Index struct {
	ac    *automaton
	words []string
}

// Builder collects words from matchers and assigns them stable ids
type Builder struct {
	ids   map[string]int32
	words []string
}

// NewBuilder returns an empty Builder
func NewBuilder() *Builder {
	return &Builder{ids: make(map[string]int32, 64)}
}

// Require registers the words of m and returns their ids, deduplicated
func (b *Builder) Require(m *Matcher) []int32 {
	if m == nil {
		return nil
	}
	out := make([]int32, 0, len(m.words))
	seen := make(map[int32]struct{}, len(m.words))
	for _, w := range m.words {
		id, ok := b.ids[w]
		if !ok {
			id = int32(len(b.words))
			b.ids[w] = id
			b.words = append(b.words, w)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Build freezes the collected words into an Index
func (b *Builder) Build() *Index {
	a := newAutomaton()
	for id, w := range b.words {
		a.add(w, int32(id))
	}
	a.build()
	return &Index{ac: a, words: append([]string(nil), b.words...)}
}

// Len is the number of distinct words
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.words)
}

// Scan returns the set of word ids found in text as whole tokens
func (ix *Index) Scan(text string) Hits {
	if ix == nil || len(ix.words) == 0 {
		return nil
	}
	h := make(Hits, (len(ix.words)+63)/64)
	ix.ac.findAll(text, func(end int, id int32) {
		if h.Has(id) {
			return
		}
		start := end - len(ix.words[id])
		if boundaryOK(text, start, end) {
			h[id>>6] |= 1 << (uint(id) & 63)
		}
	})
	return h
}

// Hits is a bitset of word ids
type Hits []uint64

// Has reports whether id is set
func (h Hits) Has(id int32) bool {
	w := int(id >> 6)
	if w >= len(h) {
		return false
	}
	return h[w]&(1<<(uint(id)&63)) != 0
}

// HasAll reports whether every id is set
func (h Hits) HasAll(ids []int32) bool {
	for _, id := range ids {
		if !h.Has(id) {
			return false
		}
	}
	return true
}
