package carve

import (
	"dumpcarve/internal/format"
	"dumpcarve/internal/scan"
)

// boundaryScanCap bounds the forward search for a boundary so a single
// candidate can never cost more than a few MiB of scanning, whatever its
// descriptor claims as MaxSize.
const boundaryScanCap = 8 << 20

// resolveLength decides the carved length for a validated candidate.
// In priority order: the header's own size when it lands inside the
// plausibility window, the distance to the next foreign signature, the
// format's fixed default. Dumps carry no end-of-record markers for most
// formats; the next plausible signature is the best available proxy for
// the instance's end, at the cost of occasionally truncating an instance
// whose body happens to contain another format's magic.
func resolveLength(s *scan.Scanner, buf []byte, offset int, d *format.Descriptor, res *format.ParseResult) (int, *format.Reject) {
	remaining := len(buf) - offset

	if res.SizeTrusted && res.Size >= d.MinSize && res.Size <= d.MaxSize {
		if res.Size > remaining {
			// Instance runs off the end of the capture; keep what is
			// there if it still clears the minimum.
			if remaining < d.MinSize {
				return 0, format.Rejectf(format.RejectStructural, "%s at %d: %d bytes left of declared %d", d.ID, offset, remaining, res.Size)
			}
			return remaining, nil
		}
		return res.Size, nil
	}

	limit := offset + d.MaxSize
	if hard := offset + boundaryScanCap; limit > hard {
		limit = hard
	}
	if limit > len(buf) {
		limit = len(buf)
	}

	if next, ok := s.NextSignature(buf, offset+d.MinSize, limit, d.ID); ok {
		return next - offset, nil
	}

	size := d.DefaultSize
	if size > remaining {
		size = remaining
	}
	if size < d.MinSize {
		return 0, format.Rejectf(format.RejectStructural, "%s at %d: only %d bytes before buffer end", d.ID, offset, remaining)
	}
	return size, nil
}
