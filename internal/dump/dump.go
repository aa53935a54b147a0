// Package dump loads the input memory image. A dump is raw bytes with no
// required structure; the only convenience handled here is transparent
// decompression of lz4-framed captures, the form large dumps are usually
// passed around in.
package dump

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// ErrOpenInput marks the fatal cannot-read-the-dump class.
var ErrOpenInput = errors.New("cannot open input dump")

var lz4FrameMagic = []byte{0x04, 0x22, 0x4D, 0x18}

// Read loads the whole dump read-only, decompressing an lz4 frame when
// the file starts with one.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenInput, err)
	}

	if !bytes.HasPrefix(data, lz4FrameMagic) {
		return data, nil
	}

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 frame: %v", ErrOpenInput, err)
	}
	return decompressed, nil
}
