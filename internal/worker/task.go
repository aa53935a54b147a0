package worker

import "dumpcarve/internal/format"

// Window is one worker's slice of the scan. Every window sees the full
// read-only buffer; ownership is by candidate start offset in [Start, End)
// so an instance straddling two windows is claimed exactly once. Margin is
// how far past End the signature search may look, at least the largest
// enabled format's MaxSize.
type Window struct {
	Data   []byte
	Start  int
	End    int
	Margin int
}

// Result is one evaluated candidate: signature match, validated header and
// resolved length, ready for overlap resolution.
type Result struct {
	Cand   format.Candidate
	Length int
	Meta   format.Metadata
}

// Tally counts dropped candidates by reject kind.
type Tally struct {
	Structural int
	Semantic   int
	Fault      int
}

func (t *Tally) Add(other Tally) {
	t.Structural += other.Structural
	t.Semantic += other.Semantic
	t.Fault += other.Fault
}

// Outcome is everything one window produced.
type Outcome struct {
	Results []Result
	Tally   Tally
}

// Processor evaluates one window. Implementations must treat Window.Data
// as read-only; they run concurrently over the same buffer.
type Processor interface {
	Process(w Window) Outcome
}

func run(jobs <-chan Window, results chan<- Outcome, done func(), proc Processor) {
	defer done()
	for w := range jobs {
		results <- proc.Process(w)
	}
}
