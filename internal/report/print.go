package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
)

// Print writes the end-of-run report in the extraction tool's usual shape.
func Print(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "\n=== Extraction Summary ===\n")
	fmt.Fprintf(w, "Input size:            %s\n", humanize.IBytes(uint64(s.InputSize)))
	fmt.Fprintf(w, "Extracted entries:     %d\n", s.TotalExtracted)
	fmt.Fprintf(w, "Extracted bytes:       %s\n", humanize.IBytes(uint64(s.TotalBytes)))
	fmt.Fprintf(w, "Data coverage:         %.2f%%\n", s.Coverage)
	fmt.Fprintf(w, "Overlap discards:      %d\n", s.OverlapDiscards)
	fmt.Fprintf(w, "Deduplicated:          %d\n", s.Deduplicated)
	if s.Derived > 0 {
		fmt.Fprintf(w, "Converted artifacts:   %d\n", s.Derived)
	}

	if len(s.PerFormat) > 0 {
		fmt.Fprintf(w, "\nPer format:\n")
		for _, id := range sortedKeys(s.PerFormat) {
			line := fmt.Sprintf("- %-12s: %d", id, s.PerFormat[id])
			if skipped := s.Skipped[id]; skipped > 0 {
				line += fmt.Sprintf(" (+%d over cap)", skipped)
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(s.Rejects) > 0 {
		fmt.Fprintf(w, "\nRejected candidates:\n")
		for _, kind := range sortedKeys(s.Rejects) {
			fmt.Fprintf(w, "- %-12s: %d\n", kind, s.Rejects[kind])
		}
	}

	if n := len(s.FailedWrites); n > 0 {
		fmt.Fprintf(w, "\nWrite failures: %d (artifacts at these offsets were not saved)\n", n)
	}
	if n := len(s.FailedConversions); n > 0 {
		fmt.Fprintf(w, "Conversion failures: %d (raw carves kept, PC-side conversion skipped)\n", n)
	}

	if len(s.Uncovered) > 0 {
		fmt.Fprintf(w, "\nUncovered areas (total %d):\n", len(s.Uncovered))
		for i, area := range s.Uncovered {
			size := area.End - area.Start
			if i < 10 || size > 1024 {
				fmt.Fprintf(w, "- %10d - %10d (%s)\n", area.Start, area.End, humanize.IBytes(uint64(size)))
			}
			if i == 10 && len(s.Uncovered) > 10 {
				fmt.Fprintf(w, "  ... and %d more uncovered areas\n", len(s.Uncovered)-10)
				break
			}
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
