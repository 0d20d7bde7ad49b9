package document

import (
	"github.com/davrell/tablegql/internal/meta"
	"github.com/davrell/tablegql/internal/naming"
	"github.com/davrell/tablegql/internal/selection"
)

// CreateVariables builds the $input bag for a create document. Values
// are nested under the table's singular field name per the backend's
// input convention, and every key must name a writable field.
func CreateVariables(table *meta.Table, values map[string]any) (map[string]any, error) {
	if err := checkWritable(table, values); err != nil {
		return nil, err
	}
	return map[string]any{
		"input": map[string]any{
			naming.Singular(table.Name): values,
		},
	}, nil
}

// UpdateVariables builds the $input bag for an update document:
// {id, patch: <Table>Patch}. Patch semantics are always partial — every
// patch key is individually optional regardless of the field's own
// nullability — so only the keys present are validated.
func UpdateVariables(table *meta.Table, id any, patch map[string]any) (map[string]any, error) {
	if err := checkWritable(table, patch); err != nil {
		return nil, err
	}
	return map[string]any{
		"input": map[string]any{
			"id":    id,
			"patch": patch,
		},
	}, nil
}

// DeleteVariables builds the $input bag for a delete document.
func DeleteVariables(id any) map[string]any {
	return map[string]any{
		"input": map[string]any{"id": id},
	}
}

// checkWritable rejects keys that do not name a field on the table.
// Relation field names are not writable through inputs.
func checkWritable(table *meta.Table, values map[string]any) error {
	for key := range values {
		if _, ok := table.Field(key); !ok {
			return &selection.UnknownFieldError{Table: table.Name, Field: key}
		}
	}
	return nil
}
