// Package naming derives the wire-level identifiers the backend schema
// exposes for a table: root field names, operation names, and the fixed
// filter/orderBy/input/patch type names. The backend's conventions are
// pluralization-aware, so everything funnels through one inflection
// ruleset; a mismatch here surfaces server-side as a type-not-found error.
package naming

import "github.com/go-openapi/inflect"

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	r := inflect.NewDefaultRuleset()
	for _, w := range []string{"ID", "SKU", "API", "URL", "UUID", "JSON"} {
		r.AddAcronym(w)
	}
	return r
}

// Plural returns the root query field name for a table, e.g.
// "LineItem" -> "lineItems", "person" -> "people".
func Plural(table string) string {
	return rules.CamelizeDownFirst(pluralWords(table))
}

// Singular returns the singular payload field name for a table, e.g.
// "Order" -> "order", "line_items" -> "lineItem".
func Singular(table string) string {
	return rules.CamelizeDownFirst(singularWords(table))
}

// TypeName returns the singular PascalCase entity type name.
func TypeName(table string) string {
	return rules.Camelize(singularWords(table))
}

// PluralTypeName returns the plural PascalCase form used by list-level
// type names and query operation names.
func PluralTypeName(table string) string {
	return rules.Camelize(pluralWords(table))
}

// OrderByTypeName returns the orderBy enum type name, e.g. "ProductsOrderBy".
func OrderByTypeName(table string) string {
	return PluralTypeName(table) + "OrderBy"
}

// FilterTypeName returns the filter input type name, e.g. "ProductFilter".
func FilterTypeName(table string) string {
	return TypeName(table) + "Filter"
}

// CreateInputTypeName returns the create mutation input type name.
func CreateInputTypeName(table string) string {
	return "Create" + TypeName(table) + "Input"
}

// UpdateInputTypeName returns the update mutation input type name.
func UpdateInputTypeName(table string) string {
	return "Update" + TypeName(table) + "Input"
}

// DeleteInputTypeName returns the delete mutation input type name.
func DeleteInputTypeName(table string) string {
	return "Delete" + TypeName(table) + "Input"
}

// PatchTypeName returns the partial-update patch type name, e.g. "OrderPatch".
func PatchTypeName(table string) string {
	return TypeName(table) + "Patch"
}

// CreateFieldName returns the create mutation root field name, e.g. "createOrder".
func CreateFieldName(table string) string {
	return "create" + TypeName(table)
}

// UpdateFieldName returns the update mutation root field name.
func UpdateFieldName(table string) string {
	return "update" + TypeName(table)
}

// DeleteFieldName returns the delete mutation root field name.
func DeleteFieldName(table string) string {
	return "delete" + TypeName(table)
}

// pluralWords normalizes a table name to underscored words and pluralizes
// the trailing word, so both "LineItem" and "line_item" yield "line_items".
func pluralWords(table string) string {
	return rules.Pluralize(rules.Underscore(table))
}

func singularWords(table string) string {
	return rules.Singularize(rules.Underscore(table))
}
