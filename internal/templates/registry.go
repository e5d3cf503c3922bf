package templates

import (
	"github.com/pkg/errors"
)

// Definition describes one pre-approved gateway template. The argument
// metadata is what the gateway registered for the template, so ArgCount is a
// hard contract: a send with any other number of arguments is rejected by the
// gateway anyway, we just reject it earlier and with a better error.
type Definition struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ArgCount        int      `json:"argCount"`
	ArgDescriptions []string `json:"argDescriptions"`
	SampleArgs      []string `json:"sampleArgs"`
	HasImage        bool     `json:"hasImage"`

	// Body is the display text of the template with {{1}}, {{2}}, ...
	// placeholders. Used for previews only, never sent to the gateway.
	Body string `json:"-"`
}

// Registry is an immutable catalog of template definitions, fixed at startup.
type Registry struct {
	order []string
	byID  map[string]Definition
}

// NewRegistry validates and indexes the given definitions. Declaration order
// is preserved for listing. A duplicate id or an argument metadata mismatch is
// a configuration error and fails construction.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(defs)),
		byID:  make(map[string]Definition, len(defs)),
	}

	for _, def := range defs {
		if def.ID == "" {
			return nil, errors.New("template with empty id")
		}
		if _, exists := r.byID[def.ID]; exists {
			return nil, errors.Errorf("duplicate template id %q", def.ID)
		}
		if len(def.ArgDescriptions) != def.ArgCount {
			return nil, errors.Errorf("template %q: argCount %d but %d argDescriptions",
				def.ID, def.ArgCount, len(def.ArgDescriptions))
		}
		if len(def.SampleArgs) != def.ArgCount {
			return nil, errors.Errorf("template %q: argCount %d but %d sampleArgs",
				def.ID, def.ArgCount, len(def.SampleArgs))
		}

		r.order = append(r.order, def.ID)
		r.byID[def.ID] = def
	}

	return r, nil
}

// MustNewRegistry is NewRegistry for static catalogs: a bad catalog is a
// programming error, so it panics and the process never comes up.
func MustNewRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(id string) (Definition, bool) {
	def, ok := r.byID[id]
	return def, ok
}

// List returns all definitions in declaration order.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns all template ids in declaration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}
