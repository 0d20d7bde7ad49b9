package document

import (
	"fmt"

	"github.com/davrell/tablegql/internal/selection"
)

// QueryOptions drive which variables and arguments a query document
// declares. Option presence is strict: an absent option emits neither a
// variable declaration nor an argument binding. Pointer fields carry
// both the presence bit and the value placed into the variable bag.
type QueryOptions struct {
	Limit           *int           `json:"limit,omitempty"`
	Offset          *int           `json:"offset,omitempty"`
	After           *string        `json:"after,omitempty"`
	Before          *string        `json:"before,omitempty"`
	Where           map[string]any `json:"where,omitempty"`
	OrderBy         []string       `json:"orderBy,omitempty"`
	IncludePageInfo bool           `json:"includePageInfo,omitempty"`
}

func (o *QueryOptions) offsetMode() bool { return o.Limit != nil || o.Offset != nil }
func (o *QueryOptions) cursorMode() bool { return o.After != nil || o.Before != nil }

func (o *QueryOptions) validate() error {
	if o.offsetMode() && o.cursorMode() {
		return &InvalidOptionsError{Reason: "offset pagination (limit/offset) cannot be combined with cursor pagination (after/before)"}
	}
	return nil
}

// MutationOptions configure the return payload of create and update
// documents. Delete documents take no options: their payload is fixed.
type MutationOptions struct {
	FieldSelection *selection.Spec `json:"select,omitempty"`
}

// InvalidOptionsError reports mutually-inconsistent query options.
type InvalidOptionsError struct {
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid query options: %s", e.Reason)
}
