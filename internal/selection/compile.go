package selection

import (
	"strconv"

	"github.com/davrell/tablegql/internal/language"
	"github.com/davrell/tablegql/internal/meta"
)

// RelationPageSize caps the fan-out of nested plural relations. The cap
// is a wire constant, independent of caller-level pagination: callers
// cannot request unbounded nested lists through a selection spec.
const RelationPageSize = 10

// Compiler turns selection specs into wire selection sets. It is a pure
// transform over the catalog and registry it was built with, so a single
// Compiler is safe for concurrent use.
type Compiler struct {
	catalog  *meta.Catalog
	registry *Registry
}

// NewCompiler creates a compiler over the given catalog. A nil registry
// falls back to DefaultRegistry.
func NewCompiler(catalog *meta.Catalog, registry *Registry) *Compiler {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Compiler{catalog: catalog, registry: registry}
}

// Compile produces the query selection set for a table. A nil or empty
// spec selects every non-relational field (scalars bare, expandables
// expanded) and no relations.
func (c *Compiler) Compile(table *meta.Table, spec *Spec) (language.SelectionSet, error) {
	return c.compile(table, spec, false)
}

// CompilePayload produces the mutation return-payload selection for a
// table. Relation keys in the spec are dropped, not errored: mutation
// callers already hold the related input they sent, and excluding
// relations keeps payloads cycle-free. A spec left empty by the drop
// falls back to the default selection, like an empty spec would.
func (c *Compiler) CompilePayload(table *meta.Table, spec *Spec) (language.SelectionSet, error) {
	return c.compile(table, spec, true)
}

func (c *Compiler) compile(table *meta.Table, spec *Spec, excludeRelations bool) (language.SelectionSet, error) {
	if spec.Len() == 0 {
		return c.defaultSelection(table)
	}

	ss := make(language.SelectionSet, 0, spec.Len())
	for _, e := range spec.Entries() {
		if e.Nested == nil {
			f, ok := table.Field(e.Name)
			if !ok {
				return nil, &UnknownFieldError{Table: table.Name, Field: e.Name}
			}
			node, err := c.fieldNode(table, f)
			if err != nil {
				return nil, err
			}
			ss = append(ss, node)
			continue
		}

		rel, ok := table.Relation(e.Name)
		if !ok {
			return nil, &UnknownRelationError{Table: table.Name, Field: e.Name}
		}
		if excludeRelations {
			continue
		}
		node, err := c.relationNode(rel, e.Nested)
		if err != nil {
			return nil, err
		}
		ss = append(ss, node)
	}
	if len(ss) == 0 {
		// Every entry was a dropped relation. An object field with no
		// sub-selection is invalid wire syntax, so degrade to the
		// default selection instead.
		return c.defaultSelection(table)
	}
	return ss, nil
}

// defaultSelection selects all of the table's own fields, skipping any
// field name shadowed by a relation. Relations are never auto-included.
func (c *Compiler) defaultSelection(table *meta.Table) (language.SelectionSet, error) {
	ss := make(language.SelectionSet, 0, len(table.Fields))
	for _, f := range table.Fields {
		if _, isRelation := table.Relation(f.Name); isRelation {
			continue
		}
		node, err := c.fieldNode(table, f)
		if err != nil {
			return nil, err
		}
		ss = append(ss, node)
	}
	return ss, nil
}

func (c *Compiler) fieldNode(table *meta.Table, f *meta.Field) (*language.Field, error) {
	if !f.RequiresExpansion {
		return &language.Field{Name: f.Name}, nil
	}
	gen, ok := c.registry.Generator(f.WireType)
	if !ok {
		return nil, &UnsupportedFieldTypeError{Table: table.Name, Field: f.Name, WireType: f.WireType}
	}
	return &language.Field{Name: f.Name, SelectionSet: gen()}, nil
}

func (c *Compiler) relationNode(rel *meta.Relation, nested *Spec) (*language.Field, error) {
	related, err := c.catalog.Related(rel)
	if err != nil {
		return nil, err
	}
	inner, err := c.compile(related, nested, false)
	if err != nil {
		return nil, err
	}

	if !rel.Kind.Plural() {
		return &language.Field{Name: rel.FieldName, SelectionSet: inner}, nil
	}

	// Plural relations always go through the bounded connection shape.
	return &language.Field{
		Name: rel.FieldName,
		Arguments: language.ArgumentList{{
			Name:  "first",
			Value: &language.Value{Raw: strconv.Itoa(RelationPageSize), Kind: language.IntValue},
		}},
		SelectionSet: language.SelectionSet{
			&language.Field{Name: "nodes", SelectionSet: inner},
		},
	}, nil
}
