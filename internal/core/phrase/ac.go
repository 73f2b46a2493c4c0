package phrase

// Aho-Corasick automaton over the bytes of lower-cased UTF-8 words.
// The root keeps a dense 256-way table, inner nodes keep sparse edge lists
// since almost every inner node has one or two children

type acEdge struct {
	b  byte
	to int32
}

type acNode struct {
	edges  []acEdge
	fail   int32
	output []int32 // word ids ending at this node, fail outputs merged in
}

type automaton struct {
	root  [256]int32
	nodes []acNode
}

func newAutomaton() *automaton {
	a := &automaton{nodes: make([]acNode, 1, 64)}
	for i := range a.root {
		a.root[i] = -1
	}
	return a
}

// child returns the goto target for (state, b) or -1
func (a *automaton) child(state int32, b byte) int32 {
	if state == 0 {
		return a.root[b]
	}
	for _, e := range a.nodes[state].edges {
		if e.b == b {
			return e.to
		}
	}
	return -1
}

// add inserts pat and tags its final node with id
func (a *automaton) add(pat string, id int32) {
	if pat == "" {
		return
	}
	state := int32(0)
	for i := 0; i < len(pat); i++ {
		b := pat[i]
		nxt := a.child(state, b)
		if nxt == -1 {
			nxt = int32(len(a.nodes))
			a.nodes = append(a.nodes, acNode{})
			if state == 0 {
				a.root[b] = nxt
			} else {
				a.nodes[state].edges = append(a.nodes[state].edges, acEdge{b: b, to: nxt})
			}
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, id)
}

// build computes failure links breadth first
func (a *automaton) build() {
	q := make([]int32, 0, len(a.nodes))
	for b := range 256 {
		if s := a.root[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}

	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for _, e := range a.nodes[r].edges {
			s := e.to
			q = append(q, s)

			f := a.nodes[r].fail
			for {
				if nxt := a.child(f, e.b); nxt != -1 {
					a.nodes[s].fail = nxt
					break
				}
				if f == 0 {
					a.nodes[s].fail = 0
					break
				}
				f = a.nodes[f].fail
			}

			if out := a.nodes[a.nodes[s].fail].output; len(out) > 0 {
				a.nodes[s].output = append(a.nodes[s].output, out...)
			}
		}
	}
}

// findAll scans text and calls cb(end, id) for every occurrence, overlapping ones included
func (a *automaton) findAll(text string, cb func(end int, id int32)) {
	state := int32(0)
	for i := 0; i < len(text); i++ {
		b := text[i]
		for {
			if nxt := a.child(state, b); nxt != -1 {
				state = nxt
				break
			}
			if state == 0 {
				break
			}
			state = a.nodes[state].fail
		}
		for _, id := range a.nodes[state].output {
			cb(i+1, id)
		}
	}
}
