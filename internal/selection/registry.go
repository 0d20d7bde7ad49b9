package selection

import (
	"github.com/davrell/tablegql/internal/language"
	"github.com/davrell/tablegql/internal/meta"
)

// Generator produces the sub-selection shape for a wire type that cannot
// be requested as a bare scalar. Generators return a fresh selection set
// on every call so documents never share AST nodes.
type Generator func() language.SelectionSet

// Registry maps expandable wire types to their generators. It is
// configuration established at startup: register everything before the
// first compile and treat it as read-only afterwards.
type Registry struct {
	generators map[meta.WireType]Generator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[meta.WireType]Generator)}
}

// Register installs g for wire type t, replacing any previous generator.
func (r *Registry) Register(t meta.WireType, g Generator) {
	r.generators[t] = g
}

// Generator returns the generator for t.
func (r *Registry) Generator(t meta.WireType) (Generator, bool) {
	g, ok := r.generators[t]
	return g, ok
}

// DefaultRegistry returns a registry with the builtin expansions the
// backend schema defines for its composite scalar types. FullText is
// deliberately absent: its sub-selection depends on the backend's
// search configuration, so selecting a full-text field requires a
// caller-registered generator.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(meta.WireTypeGeometry, leafFields("geojson", "srid"))
	r.Register(meta.WireTypeInterval, leafFields("years", "months", "days", "hours", "minutes", "seconds"))
	r.Register(meta.WireTypeMoney, leafFields("amount", "currency"))
	r.Register(meta.WireTypeFile, leafFields("id", "filename", "mimeType", "url"))
	return r
}

func leafFields(names ...string) Generator {
	return func() language.SelectionSet {
		ss := make(language.SelectionSet, 0, len(names))
		for _, name := range names {
			ss = append(ss, &language.Field{Name: name})
		}
		return ss
	}
}
