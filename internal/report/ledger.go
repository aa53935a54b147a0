package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

// LedgerName is the ledger file kept in the output root.
const LedgerName = "carve-ledger.cbor"

// Ledger records what earlier runs already extracted, keyed by absolute
// offset and by content hash. Re-running a carve against the same dump
// therefore extracts nothing twice.
type Ledger struct {
	// Offsets maps extracted offset to format id.
	Offsets map[int64]string `cbor:"offsets"`
	// Content maps xxhash64 of the carved bytes to the first offset the
	// content was seen at, catching identical instances mapped at
	// several addresses.
	Content map[uint64]int64 `cbor:"content"`
}

func NewLedger() *Ledger {
	return &Ledger{
		Offsets: make(map[int64]string),
		Content: make(map[uint64]int64),
	}
}

// LoadLedger reads a ledger file. A missing file is a fresh ledger, not an
// error; a corrupt one is reported so the caller can decide to start over.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	l := NewLedger()
	if err := cbor.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", path, err)
	}
	if l.Offsets == nil {
		l.Offsets = make(map[int64]string)
	}
	if l.Content == nil {
		l.Content = make(map[uint64]int64)
	}
	return l, nil
}

func (l *Ledger) Save(path string) error {
	data, err := cbor.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// SeenOffset reports whether offset was extracted by a previous run.
func (l *Ledger) SeenOffset(offset int64) bool {
	_, ok := l.Offsets[offset]
	return ok
}

// SeenContent reports whether identical bytes were already extracted at a
// different offset.
func (l *Ledger) SeenContent(data []byte) (int64, bool) {
	off, ok := l.Content[xxhash.Sum64(data)]
	return off, ok
}

// Record marks an extraction in the ledger.
func (l *Ledger) Record(offset int64, formatID string, data []byte) {
	l.Offsets[offset] = formatID
	sum := xxhash.Sum64(data)
	if _, ok := l.Content[sum]; !ok {
		l.Content[sum] = offset
	}
}

// Len returns the number of recorded offsets.
func (l *Ledger) Len() int { return len(l.Offsets) }
