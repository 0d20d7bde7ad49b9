package selection

import (
	"fmt"

	"github.com/davrell/tablegql/internal/meta"
)

// UnknownFieldError reports a spec key that does not resolve to a field
// on the table (relations selected as leaves land here too: a relation
// requires a nested selection).
type UnknownFieldError struct {
	Table string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("table %q has no selectable field %q", e.Table, e.Field)
}

// UnknownRelationError reports a nested spec key that does not resolve to
// a relation on the table.
type UnknownRelationError struct {
	Table string
	Field string
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("table %q has no relation %q", e.Table, e.Field)
}

// UnsupportedFieldTypeError reports an expandable field whose wire type
// has no registered sub-selection generator. Emitting the field bare
// would itself be invalid wire syntax, so this is fatal.
type UnsupportedFieldTypeError struct {
	Table    string
	Field    string
	WireType meta.WireType
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("field %q on table %q: no sub-selection generator registered for wire type %q",
		e.Field, e.Table, e.WireType)
}
