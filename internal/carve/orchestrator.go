// Package carve drives the scan over a dump buffer: signature matching,
// header validation, boundary and overlap resolution, capped and
// deduplicated extraction, and the run summary.
package carve

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"dumpcarve/internal/convert"
	"dumpcarve/internal/format"
	"dumpcarve/internal/report"
	"dumpcarve/internal/scan"
	"dumpcarve/internal/worker"
	"dumpcarve/pkg/fileutils"
)

// State is the orchestrator's run phase.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateResolving
	StateExtracting
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateResolving:
		return "resolving"
	case StateExtracting:
		return "extracting"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// CarveEntry is one accepted, extracted artifact.
type CarveEntry struct {
	FormatID string
	Category format.Category
	Offset   int64
	Length   int64
	FileName string
	Digest   string
	Label    string
}

// Orchestrator owns the whole working state of one carve run. It is not
// safe for concurrent runs; scanning inside a run is parallelized over
// windows of the read-only buffer.
type Orchestrator struct {
	reg        *format.Registry
	opts       *Options
	log        *slog.Logger
	scanner    *scan.Scanner
	allow      func(string) bool
	converters map[format.Category]convert.Converter
	workers    int
	state      State
}

func New(reg *format.Registry, opts *Options, log *slog.Logger, converters map[format.Category]convert.Converter) (*Orchestrator, error) {
	allow, err := opts.AllowFunc()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = fileutils.GetPhysicalCPUCount()
	}
	return &Orchestrator{
		reg:        reg,
		opts:       opts,
		log:        log,
		scanner:    scan.New(reg, allow),
		allow:      allow,
		converters: converters,
		workers:    workers,
		state:      StateIdle,
	}, nil
}

// State reports the current run phase.
func (o *Orchestrator) State() State { return o.state }

// Run carves buf, writing accepted entries under the output root. A nil
// ledger starts fresh; passing the ledger of a previous run makes the run
// idempotent against it. Only an unusable output root (or cancellation)
// fails the run; every per-candidate failure is absorbed into the summary.
func (o *Orchestrator) Run(ctx context.Context, buf []byte, ledger *report.Ledger) (*report.Summary, []CarveEntry, error) {
	if ledger == nil {
		ledger = report.NewLedger()
	}
	summary := report.NewSummary(int64(len(buf)))

	if err := os.MkdirAll(o.opts.OutputRoot, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create output root: %w", err)
	}

	o.state = StateScanning
	results, tally := worker.ScanWindows(buf, o.scanMargin(), o.workers, &processor{o: o, ctx: ctx})
	summary.Rejects[format.RejectStructural.String()] += tally.Structural
	summary.Rejects[format.RejectSemantic.String()] += tally.Semantic
	summary.Rejects[format.RejectFault.String()] += tally.Fault
	if err := ctx.Err(); err != nil {
		return summary, nil, err
	}

	o.state = StateResolving
	winners, discarded := resolveOverlaps(o.reg, results)
	summary.OverlapDiscards = discarded

	o.state = StateExtracting
	entries, err := o.extract(ctx, buf, winners, ledger, summary)
	if err != nil {
		return summary, entries, err
	}

	spans := make([]report.Span, 0, len(entries))
	for _, e := range entries {
		spans = append(spans, report.Span{Start: e.Offset, End: e.Offset + e.Length})
	}
	summary.FinishCoverage(spans)
	o.state = StateComplete
	return summary, entries, nil
}

func (o *Orchestrator) extract(ctx context.Context, buf []byte, winners []scored, ledger *report.Ledger, summary *report.Summary) ([]CarveEntry, error) {
	counts := make(map[string]int)
	var entries []CarveEntry

	for _, w := range winners {
		// Cancellation is cooperative, checked between candidates.
		select {
		case <-ctx.Done():
			return entries, ctx.Err()
		default:
		}

		id := w.Cand.FormatID
		plugin, ok := o.reg.ByFormat(id)
		if !ok {
			continue
		}
		d := plugin.Descriptor()
		offset := int64(w.Cand.Offset)

		if limit := o.opts.CapFor(id); limit > 0 && counts[id] >= limit {
			summary.Skipped[id]++
			continue
		}
		if ledger.SeenOffset(offset) {
			summary.Deduplicated++
			continue
		}

		data := buf[w.Cand.Offset : w.Cand.Offset+w.Length]
		if prev, ok := ledger.SeenContent(data); ok {
			// Same instance mapped at another address; mark the offset
			// so later runs short-circuit on it too.
			o.log.Debug("duplicate content", "format", id, "offset", offset, "first", prev)
			ledger.Record(offset, id, data)
			summary.Deduplicated++
			continue
		}

		dir := filepath.Join(o.opts.OutputRoot, d.Category.Folder())
		name := fmt.Sprintf("%s_%010x.%s", id, offset, d.Ext)
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			summary.FailedWrites[offset] = err.Error()
			o.log.Warn("write failed", "format", id, "offset", offset, "error", err)
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			summary.FailedWrites[offset] = err.Error()
			o.log.Warn("write failed", "format", id, "offset", offset, "error", err)
			continue
		}

		digest := blake3.Sum256(data)
		entry := CarveEntry{
			FormatID: id,
			Category: d.Category,
			Offset:   offset,
			Length:   int64(len(data)),
			FileName: name,
			Digest:   hex.EncodeToString(digest[:]),
			Label:    plugin.Describe(w.Cand.SignatureID, w.Meta),
		}

		counts[id]++
		summary.TotalExtracted++
		summary.TotalBytes += int64(len(data))
		summary.PerFormat[id]++
		ledger.Record(offset, id, data)

		if o.opts.Convert {
			o.convertEntry(dir, name, d, data, offset, summary)
		}

		if o.opts.Verbose {
			o.log.Info("extracted", "file", name, "label", entry.Label, "offset", offset, "length", entry.Length)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// convertEntry hands the carved bytes to the category's converter, if one
// is registered. Conversion failures never touch the carve itself.
func (o *Orchestrator) convertEntry(dir, name string, d *format.Descriptor, data []byte, offset int64, summary *report.Summary) {
	conv, ok := o.converters[d.Category]
	if !ok {
		return
	}
	out, err := conv.Convert(data, offset)
	if err != nil {
		summary.FailedConversions[offset] = err.Error()
		o.log.Warn("conversion failed", "format", d.ID, "offset", offset, "error", err)
		return
	}
	pcName := fmt.Sprintf("pc_%s", name)
	if err := os.WriteFile(filepath.Join(dir, pcName), out, 0o644); err != nil {
		summary.FailedConversions[offset] = err.Error()
		o.log.Warn("conversion write failed", "format", d.ID, "offset", offset, "error", err)
		return
	}
	summary.Derived++
}

// scanMargin is how far past its ownership range a window keeps scanning.
// Windows see the whole buffer and own candidates by start offset, so an
// instance straddling two windows is claimed exactly once and its extent
// is resolved against the full buffer; only a signature that *starts* at
// the ownership edge needs overlap, hence the longest enabled pattern.
func (o *Orchestrator) scanMargin() int {
	margin := 0
	for _, p := range o.reg.Plugins() {
		d := p.Descriptor()
		if !d.EnableSignatureScanning {
			continue
		}
		if o.allow != nil && !o.allow(d.ID) {
			continue
		}
		for _, sig := range d.Signatures {
			if len(sig.Magic) > margin {
				margin = len(sig.Magic)
			}
		}
	}
	return margin
}

// processor evaluates one scan window: signature matches are dispatched to
// the owning plugin, rejects are tallied, surviving candidates carry their
// resolved length.
type processor struct {
	o   *Orchestrator
	ctx context.Context
}

func (p *processor) Process(w worker.Window) worker.Outcome {
	var out worker.Outcome

	scanEnd := w.End + w.Margin
	if scanEnd > len(w.Data) {
		scanEnd = len(w.Data)
	}

	p.o.scanner.Scan(w.Data, w.Start, scanEnd, func(c format.Candidate) bool {
		if c.Offset < w.Start || c.Offset >= w.End {
			// Another window owns this candidate.
			return true
		}
		select {
		case <-p.ctx.Done():
			return false
		default:
		}

		plugin, ok := p.o.reg.BySignature(c.SignatureID)
		if !ok {
			return true
		}

		res, rej := format.SafeParse(plugin, w.Data, c.Offset)
		if rej == nil {
			var length int
			length, rej = resolveLength(p.o.scanner, w.Data, c.Offset, plugin.Descriptor(), res)
			if rej == nil {
				out.Results = append(out.Results, worker.Result{Cand: c, Length: length, Meta: res.Meta})
				return true
			}
		}

		switch rej.Kind {
		case format.RejectStructural:
			out.Tally.Structural++
		case format.RejectSemantic:
			out.Tally.Semantic++
		case format.RejectFault:
			out.Tally.Fault++
			p.o.log.Warn("plugin fault", "format", c.FormatID, "offset", c.Offset, "reason", rej.Reason)
		}
		return true
	})
	return out
}
