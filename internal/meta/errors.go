package meta

import "fmt"

// UnknownRelatedTableError reports a relation pointing at a table absent
// from the supplied catalog. Nested field validity cannot be established
// for such a relation, so compilation stops.
type UnknownRelatedTableError struct {
	Relation string
	Table    string
}

func (e *UnknownRelatedTableError) Error() string {
	return fmt.Sprintf("relation %q references unknown table %q", e.Relation, e.Table)
}

// Violation is one catalog-integrity problem found during validation.
type Violation struct {
	Table   string `json:"table"`
	Message string `json:"message"`
}

// ValidationError aggregates all violations found in a catalog so callers
// see every problem in one pass.
type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "catalog violations:\n"
	for _, v := range e {
		msg += fmt.Sprintf("- %s: %s\n", v.Table, v.Message)
	}
	return msg
}
