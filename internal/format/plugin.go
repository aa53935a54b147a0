package format

import "fmt"

// RejectKind classifies why a candidate failed header validation.
type RejectKind int

const (
	// RejectStructural means the window is too short to hold the format's
	// minimum header, or the header is visibly cut off.
	RejectStructural RejectKind = iota
	// RejectSemantic means header fields failed format-specific validity
	// checks.
	RejectSemantic
	// RejectFault means Parse panicked and the panic was contained.
	RejectFault
)

func (k RejectKind) String() string {
	switch k {
	case RejectStructural:
		return "structural"
	case RejectSemantic:
		return "semantic"
	case RejectFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Reject is a non-match outcome from Parse. The carve loop treats every
// kind identically (drop the candidate); the kind exists so accounting and
// tests can tell them apart.
type Reject struct {
	Kind   RejectKind
	Reason string
}

func Rejectf(kind RejectKind, format string, args ...any) *Reject {
	return &Reject{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Pair is one reported header field.
type Pair struct {
	Key   string
	Value string
}

// Metadata exposes decoded header fields as ordered key/value pairs for
// reporting. Concrete plugins back it with typed structs.
type Metadata interface {
	Pairs() []Pair
}

// ParseResult is the outcome of a successful header parse.
type ParseResult struct {
	FormatID string
	// Size is the estimated instance length in bytes. Zero means the
	// format has no usable size field.
	Size int
	// SizeTrusted marks Size as coming from a sane self-declared field.
	// Untrusted sizes go through boundary resolution.
	SizeTrusted bool
	Meta        Metadata
}

// Candidate is an unconfirmed signature match awaiting header validation.
type Candidate struct {
	Offset      int
	SignatureID string
	FormatID    string
}

// Plugin is the contract each concrete format satisfies: recognize and
// bound one binary format inside an untrusted buffer.
type Plugin interface {
	Descriptor() *Descriptor

	// Parse attempts to interpret a format header at offset. It must do
	// all bounds checking itself; every failure mode maps to a Reject,
	// never a panic (a panic is still contained by SafeParse).
	Parse(buf []byte, offset int) (*ParseResult, *Reject)

	// Describe builds a human-readable label for reporting. Pure.
	Describe(signatureID string, meta Metadata) string
}

// SafeParse invokes p.Parse and converts a panic into a fault reject, so a
// misbehaving plugin can never abort a run.
func SafeParse(p Plugin, buf []byte, offset int) (res *ParseResult, rej *Reject) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			rej = Rejectf(RejectFault, "parse panic at %d: %v", offset, r)
		}
	}()
	return p.Parse(buf, offset)
}
