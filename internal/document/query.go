// Package document assembles complete wire-protocol request documents
// (one query shape, three mutation shapes) from table metadata and
// selection specs, and renders them to canonical text. All errors are
// raised before any text is produced; a caller never receives a partial
// document.
package document

import (
	"fmt"

	"github.com/davrell/tablegql/internal/language"
	"github.com/davrell/tablegql/internal/meta"
	"github.com/davrell/tablegql/internal/naming"
	"github.com/davrell/tablegql/internal/selection"
)

// Compiled is one ready-to-send request: canonical document text plus
// the variable-value bag assembled from the options. For mutations the
// bag is left to the caller (see CreateVariables and friends), since the
// compiler only fixes the input's shape, not its content.
type Compiled struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// Compiler assembles documents over a fixed catalog. It holds no
// per-call state and is safe for concurrent use.
type Compiler struct {
	catalog    *meta.Catalog
	selections *selection.Compiler
}

// NewCompiler creates a document compiler. A nil registry falls back to
// the builtin expansion generators.
func NewCompiler(catalog *meta.Catalog, registry *selection.Registry) *Compiler {
	return &Compiler{
		catalog:    catalog,
		selections: selection.NewCompiler(catalog, registry),
	}
}

func (c *Compiler) table(name string) (*meta.Table, error) {
	t, ok := c.catalog.Table(name)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}

// Query compiles a connection query for a table. The root field is the
// table's plural name; its selection is always
// { totalCount, nodes { … }, pageInfo? }.
func (c *Compiler) Query(tableName string, spec *selection.Spec, opts QueryOptions) (*Compiled, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	table, err := c.table(tableName)
	if err != nil {
		return nil, err
	}
	inner, err := c.selections.Compile(table, spec)
	if err != nil {
		return nil, err
	}

	var varDefs language.VariableDefinitionList
	var args language.ArgumentList
	vars := map[string]any{}
	bind := func(varName, argName string, typ *language.Type, value any) {
		varDefs = append(varDefs, &language.VariableDefinition{Variable: varName, Type: typ})
		args = append(args, &language.Argument{
			Name:  argName,
			Value: &language.Value{Raw: varName, Kind: language.Variable},
		})
		vars[varName] = value
	}

	if opts.Limit != nil {
		bind("limit", "limit", language.NamedType("Int"), *opts.Limit)
	}
	if opts.Offset != nil {
		bind("offset", "offset", language.NamedType("Int"), *opts.Offset)
	}
	if opts.After != nil {
		bind("after", "after", language.NamedType("Cursor"), *opts.After)
	}
	if opts.Before != nil {
		bind("before", "before", language.NamedType("Cursor"), *opts.Before)
	}
	if len(opts.Where) > 0 {
		bind("where", "filter", language.NamedType(naming.FilterTypeName(table.Name)), opts.Where)
	}
	if len(opts.OrderBy) > 0 {
		bind("orderBy", "orderBy", language.NonNullListOfNonNull(naming.OrderByTypeName(table.Name)), opts.OrderBy)
	}

	rootSS := language.SelectionSet{
		&language.Field{Name: "totalCount"},
		&language.Field{Name: "nodes", SelectionSet: inner},
	}
	if opts.IncludePageInfo || opts.cursorMode() {
		rootSS = append(rootSS, pageInfoField())
	}

	opName := naming.PluralTypeName(table.Name)
	doc := &language.QueryDocument{
		Operations: []*language.OperationDefinition{{
			Operation:           language.Query,
			Name:                opName,
			VariableDefinitions: varDefs,
			SelectionSet: language.SelectionSet{
				&language.Field{
					Name:         naming.Plural(table.Name),
					Arguments:    args,
					SelectionSet: rootSS,
				},
			},
		}},
	}
	return &Compiled{
		OperationName: opName,
		Query:         language.Format(doc),
		Variables:     vars,
	}, nil
}

func pageInfoField() *language.Field {
	return &language.Field{
		Name: "pageInfo",
		SelectionSet: language.SelectionSet{
			&language.Field{Name: "hasNextPage"},
			&language.Field{Name: "hasPreviousPage"},
			&language.Field{Name: "startCursor"},
			&language.Field{Name: "endCursor"},
		},
	}
}
