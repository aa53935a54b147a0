package format

import "fmt"

// Registry is the read-only set of format plugins consulted during a run.
// It is built once at startup; adding a format means registering a new
// plugin here, nothing in the carve loop changes.
type Registry struct {
	ordered     []Plugin
	byFormat    map[string]Plugin
	bySignature map[string]Plugin
}

func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{
		byFormat:    make(map[string]Plugin, len(plugins)),
		bySignature: make(map[string]Plugin),
	}
	for _, p := range plugins {
		d := p.Descriptor()
		if d.ID == "" {
			return nil, fmt.Errorf("plugin with empty format id")
		}
		if _, dup := r.byFormat[d.ID]; dup {
			return nil, fmt.Errorf("duplicate format id %q", d.ID)
		}
		if d.MinSize <= 0 || d.MaxSize < d.MinSize {
			return nil, fmt.Errorf("format %q: bad size bounds [%d, %d]", d.ID, d.MinSize, d.MaxSize)
		}
		for _, sig := range d.Signatures {
			if len(sig.Magic) < 2 {
				return nil, fmt.Errorf("format %q: signature %q shorter than 2 bytes", d.ID, sig.ID)
			}
			if _, dup := r.bySignature[sig.ID]; dup {
				return nil, fmt.Errorf("duplicate signature id %q", sig.ID)
			}
			r.bySignature[sig.ID] = p
		}
		r.byFormat[d.ID] = p
		r.ordered = append(r.ordered, p)
	}
	return r, nil
}

// Plugins returns the registration-ordered plugin list.
func (r *Registry) Plugins() []Plugin { return r.ordered }

// ByFormat returns the plugin owning a format id.
func (r *Registry) ByFormat(id string) (Plugin, bool) {
	p, ok := r.byFormat[id]
	return p, ok
}

// BySignature returns the plugin owning a signature id; dispatch is by
// matched signature, never by probing every plugin.
func (r *Registry) BySignature(id string) (Plugin, bool) {
	p, ok := r.bySignature[id]
	return p, ok
}

// Default builds the registry of every supported dump format.
func Default() *Registry {
	r, err := NewRegistry(
		NewDDS(),
		NewDDX(),
		NewXMA(),
		NewBink(),
		NewNIF(),
		NewESM(),
		NewSWF(),
		NewXUI(),
		NewXEX(),
		NewLIP(),
	)
	if err != nil {
		// Descriptors are compile-time constants; a conflict is a
		// programming error.
		panic(err)
	}
	return r
}
