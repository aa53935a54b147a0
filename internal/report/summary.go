// Package report holds the accounting side of a carve run: the summary
// accumulated while extracting, the persisted ledger that makes repeat
// runs idempotent, and the printed report.
package report

import "sort"

// Span is a half-open byte range [Start, End) of the input.
type Span struct {
	Start int64
	End   int64
}

// Summary accumulates per-run statistics. It is owned by the orchestrator
// for the duration of a run and read-only after completion.
type Summary struct {
	InputSize int64

	TotalExtracted int
	TotalBytes     int64
	PerFormat      map[string]int

	// Skipped counts winning candidates dropped by the per-format cap.
	Skipped map[string]int

	// Rejects counts dropped candidates by reject kind.
	Rejects map[string]int

	// OverlapDiscards counts candidates that lost overlap resolution.
	OverlapDiscards int

	// Deduplicated counts candidates skipped because a previous run (or
	// an earlier pass of this one) already extracted their offset.
	Deduplicated int

	FailedWrites      map[int64]string
	FailedConversions map[int64]string

	// Derived counts artifacts produced by downstream converters.
	Derived int

	Coverage  float64
	Uncovered []Span
}

func NewSummary(inputSize int64) *Summary {
	return &Summary{
		InputSize:         inputSize,
		PerFormat:         make(map[string]int),
		Skipped:           make(map[string]int),
		Rejects:           make(map[string]int),
		FailedWrites:      make(map[int64]string),
		FailedConversions: make(map[int64]string),
	}
}

// FinishCoverage computes covered share and uncovered gaps from the
// accepted entry spans. Gaps closer than 1 KiB are merged, the way the
// extraction report has always grouped them.
func (s *Summary) FinishCoverage(spans []Span) {
	if s.InputSize == 0 {
		s.Coverage = 0
		return
	}

	sorted := append([]Span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var covered int64
	var gaps []Span
	cursor := int64(0)
	for _, sp := range sorted {
		start, end := sp.Start, sp.End
		if start < 0 {
			start = 0
		}
		if end > s.InputSize {
			end = s.InputSize
		}
		if end <= cursor {
			continue
		}
		if start > cursor {
			gaps = append(gaps, Span{Start: cursor, End: start})
		} else {
			start = cursor
		}
		covered += end - start
		cursor = end
	}
	if cursor < s.InputSize {
		gaps = append(gaps, Span{Start: cursor, End: s.InputSize})
	}

	// Merge close gaps.
	const mergeDistance = 1024
	var merged []Span
	for _, g := range gaps {
		if n := len(merged); n > 0 && g.Start-merged[n-1].End < mergeDistance {
			merged[n-1].End = g.End
			continue
		}
		merged = append(merged, g)
	}

	s.Coverage = float64(covered) / float64(s.InputSize) * 100
	s.Uncovered = merged
}
