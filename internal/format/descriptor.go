package format

// Category groups formats by the kind of asset they carry. The category
// decides the output folder and the precedence used when two carved ranges
// overlap.
type Category string

const (
	CategoryTexture    Category = "textures"
	CategoryAudio      Category = "audio"
	CategoryVideo      Category = "video"
	CategoryModel      Category = "models"
	CategoryGameData   Category = "gamedata"
	CategoryScript     Category = "scripts"
	CategoryUI         Category = "ui"
	CategoryExecutable Category = "executables"
	CategoryUnknown    Category = "unclassified"
)

// Rank returns the overlap precedence of the category; lower wins.
// Executable-looking signatures are common false positives inside memory
// dumps, so executables rank below every asset category.
func (c Category) Rank() int {
	switch c {
	case CategoryTexture, CategoryAudio, CategoryVideo:
		return 0
	case CategoryModel:
		return 1
	case CategoryGameData, CategoryScript, CategoryUI:
		return 2
	case CategoryExecutable:
		return 3
	default:
		return 4
	}
}

// Folder is the per-category output directory name.
func (c Category) Folder() string { return string(c) }

// Signature is one magic-byte pattern identifying the start of a format
// instance. Patterns are fixed bytes, 2-8 long, no wildcards.
type Signature struct {
	ID          string
	Magic       []byte
	Description string
}

// Descriptor is the static metadata for one supported format. Descriptors
// are built once at startup and shared read-only across all scanning.
type Descriptor struct {
	ID       string
	Name     string
	Ext      string
	Category Category

	// MinSize and MaxSize bound a plausible instance; sizes outside the
	// window are rejected or resolved heuristically.
	MinSize int
	MaxSize int

	// DefaultSize is the carved length used when neither the header nor a
	// subsequent signature yields a boundary.
	DefaultSize int

	// EnableSignatureScanning controls whether the format contributes
	// patterns to the scan pass. A format with this off is only labeled
	// when encountered through companion metadata.
	EnableSignatureScanning bool

	Signatures []Signature
}
