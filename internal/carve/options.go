package carve

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Options configures one carve run. Read-only once the run starts.
type Options struct {
	// OutputRoot receives one folder per output category.
	OutputRoot string `yaml:"output_root"`

	// Workers is the scan parallelism; zero means one per physical core.
	Workers int `yaml:"workers"`

	// PerTypeCap bounds accepted entries per format; zero is unlimited.
	// Caps overrides the global cap for single format ids.
	PerTypeCap int            `yaml:"per_type_cap"`
	Caps       map[string]int `yaml:"caps"`

	// Formats is an allow-list of format id glob patterns; empty admits
	// every format.
	Formats []string `yaml:"formats"`

	// Convert runs the PC-side converters on carved entries.
	Convert bool `yaml:"convert"`

	Verbose bool `yaml:"verbose"`
}

// LoadOptions reads a YAML options profile.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse options %s: %w", path, err)
	}
	return &o, nil
}

// AllowFunc compiles the format allow-list into a predicate. A nil
// predicate (empty list) admits everything.
func (o *Options) AllowFunc() (func(string) bool, error) {
	if len(o.Formats) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(o.Formats))
	for _, pattern := range o.Formats {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("format pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return func(id string) bool {
		for _, g := range globs {
			if g.Match(id) {
				return true
			}
		}
		return false
	}, nil
}

// CapFor returns the extraction cap for a format; zero means unlimited.
func (o *Options) CapFor(formatID string) int {
	if n, ok := o.Caps[formatID]; ok {
		return n
	}
	return o.PerTypeCap
}
