package convert

import (
	"bytes"
	"fmt"
)

var gamebryoHeader = []byte("Gamebryo File Format, Version ")

// ModelHeaderSwapper flips a carved Gamebryo header to the PC byte order:
// the binary version word is swapped and the endian flag set to
// little-endian. Geometry and skin partition expansion is the model
// pipeline's job downstream; this pass only makes the file recognizable
// to PC-side tooling.
type ModelHeaderSwapper struct{}

func (c *ModelHeaderSwapper) Convert(data []byte, offset int64) ([]byte, error) {
	if !bytes.HasPrefix(data, gamebryoHeader) {
		return nil, fmt.Errorf("model at %d: missing Gamebryo header", offset)
	}

	nl := bytes.IndexByte(data, '\n')
	if nl < 0 || nl+5 >= len(data) {
		return nil, fmt.Errorf("model at %d: truncated header", offset)
	}

	out := append([]byte(nil), data...)
	v := out[nl+1 : nl+5]
	v[0], v[1], v[2], v[3] = v[3], v[2], v[1], v[0]
	out[nl+5] = 1 // little-endian flag
	return out, nil
}
