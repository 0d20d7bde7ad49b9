package meta

import "fmt"

// Catalog is the complete set of tables reachable via relations. The
// compiler needs the full set to resolve nested selections; a relation
// pointing outside the catalog is a fatal input error.
type Catalog struct {
	tables map[string]*Table
	order  []string
}

// NewCatalog builds a catalog from the given tables. Duplicate table
// names are rejected.
func NewCatalog(tables ...*Table) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if t.Name == "" {
			return nil, fmt.Errorf("table with empty name")
		}
		if _, ok := c.tables[t.Name]; ok {
			return nil, fmt.Errorf("duplicate table %q", t.Name)
		}
		c.tables[t.Name] = t
		c.order = append(c.order, t.Name)
	}
	return c, nil
}

// Table returns the table with the given name.
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Tables returns the tables in registration order.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tables[name])
	}
	return out
}

// Related resolves the table a relation points at.
func (c *Catalog) Related(rel *Relation) (*Table, error) {
	t, ok := c.tables[rel.ReferencedTable]
	if !ok {
		return nil, &UnknownRelatedTableError{Relation: rel.FieldName, Table: rel.ReferencedTable}
	}
	return t, nil
}

// Validate checks cross-table integrity: every relation must reference a
// table present in the catalog and carry a known kind. All problems are
// reported at once.
func (c *Catalog) Validate() error {
	var verr ValidationError
	for _, name := range c.order {
		t := c.tables[name]
		for _, rel := range t.AllRelations() {
			switch rel.Kind {
			case BelongsTo, HasOne, HasMany, ManyToMany:
			default:
				verr = append(verr, &Violation{
					Table:   name,
					Message: fmt.Sprintf("relation %q has unknown kind %q", rel.FieldName, rel.Kind),
				})
			}
			if _, ok := c.tables[rel.ReferencedTable]; !ok {
				verr = append(verr, &Violation{
					Table:   name,
					Message: fmt.Sprintf("relation %q references missing table %q", rel.FieldName, rel.ReferencedTable),
				})
			}
		}
	}
	if len(verr) > 0 {
		return verr
	}
	return nil
}
