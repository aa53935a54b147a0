package carve

import (
	"sort"

	"dumpcarve/internal/format"
	"dumpcarve/internal/worker"
)

// scored is a candidate with its resolved length and overlap rank.
type scored struct {
	worker.Result
	rank int
}

// resolveOverlaps picks winners among pairwise-overlapping candidates.
// Resolution is deterministic and total: lower category rank wins
// outright, ties prefer the earlier offset, then the larger length;
// losers are discarded whole. Winners come back sorted by offset.
func resolveOverlaps(reg *format.Registry, results []worker.Result) ([]scored, int) {
	cands := make([]scored, 0, len(results))
	for _, r := range results {
		rank := format.CategoryUnknown.Rank()
		if p, ok := reg.ByFormat(r.Cand.FormatID); ok {
			rank = p.Descriptor().Category.Rank()
		}
		cands = append(cands, scored{Result: r, rank: rank})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.Cand.Offset != b.Cand.Offset {
			return a.Cand.Offset < b.Cand.Offset
		}
		return a.Length > b.Length
	})

	var kept intervalSet
	winners := make([]scored, 0, len(cands))
	discarded := 0
	for _, c := range cands {
		if kept.overlaps(c.Cand.Offset, c.Cand.Offset+c.Length) {
			discarded++
			continue
		}
		kept.add(c.Cand.Offset, c.Cand.Offset+c.Length)
		winners = append(winners, c)
	}

	sort.Slice(winners, func(i, j int) bool { return winners[i].Cand.Offset < winners[j].Cand.Offset })
	return winners, discarded
}

// intervalSet is a sorted set of disjoint half-open ranges.
type intervalSet struct {
	spans [][2]int
}

func (s *intervalSet) overlaps(start, end int) bool {
	i := sort.Search(len(s.spans), func(i int) bool { return s.spans[i][1] > start })
	return i < len(s.spans) && s.spans[i][0] < end
}

func (s *intervalSet) add(start, end int) {
	i := sort.Search(len(s.spans), func(i int) bool { return s.spans[i][0] >= start })
	s.spans = append(s.spans, [2]int{})
	copy(s.spans[i+1:], s.spans[i:])
	s.spans[i] = [2]int{start, end}
}
