// Package scan implements the multi-pattern signature search. All enabled
// signatures are compiled into a single Aho-Corasick automaton at run
// start, so a pass over the dump costs O(len(buffer) + pattern bytes +
// matches) regardless of how many formats are registered.
package scan

import (
	"sort"

	"dumpcarve/internal/format"
)

type pattern struct {
	bytes       []byte
	signatureID string
	formatID    string
}

type node struct {
	next map[byte]int32
	fail int32
	// out lists pattern indices ending at this node, own match first,
	// then matches inherited through fail links.
	out []int32
}

// Scanner is a compiled signature automaton. It holds no per-pass state
// and is safe for concurrent use across scan windows.
type Scanner struct {
	patterns []pattern
	nodes    []node
}

// New compiles the automaton from every registered format whose signature
// scanning is enabled and whose id passes the allow filter. A nil allow
// admits everything.
func New(reg *format.Registry, allow func(formatID string) bool) *Scanner {
	s := &Scanner{nodes: []node{{next: make(map[byte]int32)}}}

	for _, p := range reg.Plugins() {
		d := p.Descriptor()
		if !d.EnableSignatureScanning {
			continue
		}
		if allow != nil && !allow(d.ID) {
			continue
		}
		for _, sig := range d.Signatures {
			s.insert(pattern{bytes: sig.Magic, signatureID: sig.ID, formatID: d.ID})
		}
	}

	s.buildFailLinks()
	return s
}

func (s *Scanner) insert(p pattern) {
	cur := int32(0)
	for _, b := range p.bytes {
		next, ok := s.nodes[cur].next[b]
		if !ok {
			next = int32(len(s.nodes))
			s.nodes = append(s.nodes, node{next: make(map[byte]int32)})
			s.nodes[cur].next[b] = next
		}
		cur = next
	}
	s.nodes[cur].out = append(s.nodes[cur].out, int32(len(s.patterns)))
	s.patterns = append(s.patterns, p)
}

func (s *Scanner) buildFailLinks() {
	queue := make([]int32, 0, len(s.nodes))
	for _, child := range s.nodes[0].next {
		s.nodes[child].fail = 0
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for b, child := range s.nodes[cur].next {
			queue = append(queue, child)
			f := s.nodes[cur].fail
			for {
				if next, ok := s.nodes[f].next[b]; ok {
					s.nodes[child].fail = next
					break
				}
				if f == 0 {
					s.nodes[child].fail = 0
					break
				}
				f = s.nodes[f].fail
			}
			// BFS order guarantees the fail target, being shallower,
			// already has its inherited outputs.
			s.nodes[child].out = append(s.nodes[child].out, s.nodes[s.nodes[child].fail].out...)
		}
	}
}

// PatternCount reports how many signatures were compiled in.
func (s *Scanner) PatternCount() int { return len(s.patterns) }

// Scan walks buf[from:to) once and invokes emit for every signature match,
// including overlapping matches from different formats at the same offset.
// Offsets are absolute within buf. Returning false from emit stops the
// pass. Matches arrive ordered by match end; candidates for a window are
// sorted by start offset before resolution.
func (s *Scanner) Scan(buf []byte, from, to int, emit func(format.Candidate) bool) {
	if from < 0 {
		from = 0
	}
	if to > len(buf) {
		to = len(buf)
	}
	if len(s.patterns) == 0 {
		return
	}

	state := int32(0)
	for i := from; i < to; i++ {
		b := buf[i]
		for {
			if next, ok := s.nodes[state].next[b]; ok {
				state = next
				break
			}
			if state == 0 {
				break
			}
			state = s.nodes[state].fail
		}
		for _, pi := range s.nodes[state].out {
			p := &s.patterns[pi]
			cand := format.Candidate{
				Offset:      i - len(p.bytes) + 1,
				SignatureID: p.signatureID,
				FormatID:    p.formatID,
			}
			if !emit(cand) {
				return
			}
		}
	}
}

// Collect runs Scan and returns the candidates sorted ascending by offset,
// which is the order boundary and overlap resolution expect.
func (s *Scanner) Collect(buf []byte, from, to int) []format.Candidate {
	var cands []format.Candidate
	s.Scan(buf, from, to, func(c format.Candidate) bool {
		cands = append(cands, c)
		return true
	})
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Offset < cands[j].Offset })
	return cands
}

// NextSignature finds the first match in buf[from:to) belonging to any
// format other than exclude. Used by boundary resolution: the next foreign
// signature is the best available proxy for where an instance ends.
func (s *Scanner) NextSignature(buf []byte, from, to int, exclude string) (int, bool) {
	found := -1
	s.Scan(buf, from, to, func(c format.Candidate) bool {
		if c.FormatID != exclude && (found == -1 || c.Offset < found) {
			found = c.Offset
		}
		// Matches arrive ordered by match end and patterns are at most
		// 8 bytes, so once a candidate starts 8 past the best find no
		// later match can start earlier.
		return found == -1 || c.Offset < found+8
	})
	if found >= 0 {
		return found, true
	}
	return -1, false
}
