package worker

import (
	"sort"
	"sync"
)

// ScanWindows splits buf into numWorkers contiguous ownership ranges,
// evaluates them on the pool and returns the merged results sorted by
// offset. The single collector goroutine is the only writer of the merged
// state while workers are running.
func ScanWindows(buf []byte, margin, numWorkers int, proc Processor) ([]Result, Tally) {
	if len(buf) == 0 {
		return nil, Tally{}
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(buf) {
		numWorkers = 1
	}

	pool := NewPool(numWorkers)
	pool.Start(proc)

	var merged []Result
	var tally Tally
	var collectWg sync.WaitGroup
	collectWg.Add(1)

	go func() {
		defer collectWg.Done()
		for out := range pool.results {
			merged = append(merged, out.Results...)
			tally.Add(out.Tally)
		}
	}()

	windowSize := (len(buf) + numWorkers - 1) / numWorkers
	for start := 0; start < len(buf); start += windowSize {
		end := start + windowSize
		if end > len(buf) {
			end = len(buf)
		}
		pool.jobs <- Window{Data: buf, Start: start, End: end, Margin: margin}
	}

	pool.Stop()
	collectWg.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Cand.Offset < merged[j].Cand.Offset
	})
	return merged, tally
}
