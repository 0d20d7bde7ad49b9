package meta

// Table describes one database table as reported by the schema
// introspection service. Instances are immutable for the lifetime of a
// compile call; the compiler never mutates them.
type Table struct {
	Name      string    `json:"name" yaml:"name"`
	Fields    []*Field  `json:"fields" yaml:"fields"`
	Relations Relations `json:"relations" yaml:"relations"`
}

// Field describes a single column-backed field.
type Field struct {
	Name              string   `json:"name" yaml:"name"`
	WireType          WireType `json:"wireType" yaml:"wireType"`
	IsArray           bool     `json:"isArray,omitempty" yaml:"isArray,omitempty"`
	Nullable          bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	RequiresExpansion bool     `json:"requiresExpansion,omitempty" yaml:"requiresExpansion,omitempty"`
}

// Relations groups a table's relations by kind.
type Relations struct {
	BelongsTo  []*Relation `json:"belongsTo,omitempty" yaml:"belongsTo,omitempty"`
	HasOne     []*Relation `json:"hasOne,omitempty" yaml:"hasOne,omitempty"`
	HasMany    []*Relation `json:"hasMany,omitempty" yaml:"hasMany,omitempty"`
	ManyToMany []*Relation `json:"manyToMany,omitempty" yaml:"manyToMany,omitempty"`
}

// Relation describes a link from one table to another.
type Relation struct {
	FieldName       string       `json:"fieldName" yaml:"fieldName"`
	Kind            RelationKind `json:"kind" yaml:"kind"`
	ReferencedTable string       `json:"referencedTable" yaml:"referencedTable"`
}

type RelationKind string

const (
	BelongsTo  RelationKind = "belongsTo"
	HasOne     RelationKind = "hasOne"
	HasMany    RelationKind = "hasMany"
	ManyToMany RelationKind = "manyToMany"
)

// Plural reports whether the relation resolves to zero or more records.
// Plural relations must always be fetched through a bounded connection
// shape, never inlined.
func (k RelationKind) Plural() bool {
	return k == HasMany || k == ManyToMany
}

// WireType is the closed enumeration of backend scalar wire types.
type WireType string

const (
	WireTypeID       WireType = "ID"
	WireTypeString   WireType = "String"
	WireTypeInt      WireType = "Int"
	WireTypeFloat    WireType = "Float"
	WireTypeBoolean  WireType = "Boolean"
	WireTypeDatetime WireType = "Datetime"
	WireTypeDate     WireType = "Date"
	WireTypeUUID     WireType = "UUID"
	WireTypeJSON     WireType = "JSON"

	// Types below cannot be requested as bare scalars. A field carrying
	// one of them must be expanded through a registered sub-selection
	// generator. FullText has no builtin generator because its shape
	// depends on the backend's search configuration; callers that use
	// full-text fields must register one.
	WireTypeGeometry WireType = "Geometry"
	WireTypeInterval WireType = "Interval"
	WireTypeMoney    WireType = "Money"
	WireTypeFile     WireType = "File"
	WireTypeFullText WireType = "FullText"
)

// Field returns the field with the given name.
func (t *Table) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Relation returns the relation with the given field name, searching all
// four kinds. Every relation lookup in the compiler goes through here so
// cardinality handling cannot diverge between call sites.
func (t *Table) Relation(name string) (*Relation, bool) {
	for _, r := range t.AllRelations() {
		if r.FieldName == name {
			return r, true
		}
	}
	return nil, false
}

// AllRelations returns the table's relations in a fixed kind-major order.
func (t *Table) AllRelations() []*Relation {
	out := make([]*Relation, 0,
		len(t.Relations.BelongsTo)+len(t.Relations.HasOne)+
			len(t.Relations.HasMany)+len(t.Relations.ManyToMany))
	out = append(out, t.Relations.BelongsTo...)
	out = append(out, t.Relations.HasOne...)
	out = append(out, t.Relations.HasMany...)
	out = append(out, t.Relations.ManyToMany...)
	return out
}
