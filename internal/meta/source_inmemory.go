package meta

import "context"

// InMemorySource serves a fixed table set. Used by tests and by callers
// that already hold introspection output.
type InMemorySource struct {
	tables []*Table
}

func NewInMemorySource(tables ...*Table) *InMemorySource {
	return &InMemorySource{tables: tables}
}

func (s *InMemorySource) Load(ctx context.Context) (*Catalog, error) {
	c, err := NewCatalog(s.tables...)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
