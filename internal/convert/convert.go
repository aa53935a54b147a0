// Package convert is the seam to the PC-side reconstruction collaborators.
// The carve core treats a converter as a plain bytes-to-bytes function
// with its own failure mode; a conversion failure never invalidates the
// raw carve it was fed.
package convert

import "dumpcarve/internal/format"

// Converter turns carved 360-side bytes into their PC-compatible
// equivalent.
type Converter interface {
	Convert(data []byte, offset int64) ([]byte, error)
}

// Default returns the converters shipped with the tool, keyed by output
// category. Categories without an entry keep their raw carve only.
func Default() map[format.Category]Converter {
	return map[format.Category]Converter{
		format.CategoryGameData: &RecordInflater{},
		format.CategoryModel:    &ModelHeaderSwapper{},
	}
}
