package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davrell/tablegql/internal/language"
	"github.com/davrell/tablegql/internal/meta"
	"github.com/davrell/tablegql/internal/selection"
)

func testCompiler(t *testing.T) *Compiler {
	t.Helper()
	catalog, err := meta.NewCatalog(
		&meta.Table{
			Name: "Product",
			Fields: []*meta.Field{
				{Name: "id", WireType: meta.WireTypeID},
				{Name: "name", WireType: meta.WireTypeString},
				{Name: "price", WireType: meta.WireTypeMoney, RequiresExpansion: true},
			},
			Relations: meta.Relations{
				BelongsTo: []*meta.Relation{
					{FieldName: "supplier", Kind: meta.BelongsTo, ReferencedTable: "Supplier"},
				},
			},
		},
		&meta.Table{
			Name: "Supplier",
			Fields: []*meta.Field{
				{Name: "id", WireType: meta.WireTypeID},
				{Name: "name", WireType: meta.WireTypeString},
			},
		},
		&meta.Table{
			Name: "Order",
			Fields: []*meta.Field{
				{Name: "id", WireType: meta.WireTypeID},
				{Name: "reference", WireType: meta.WireTypeString},
			},
			Relations: meta.Relations{
				HasMany: []*meta.Relation{
					{FieldName: "lineItems", Kind: meta.HasMany, ReferencedTable: "LineItem"},
				},
			},
		},
		&meta.Table{
			Name: "LineItem",
			Fields: []*meta.Field{
				{Name: "sku", WireType: meta.WireTypeString},
				{Name: "qty", WireType: meta.WireTypeInt},
			},
		},
	)
	require.NoError(t, err)
	return NewCompiler(catalog, nil)
}

// reparse feeds compiled text back through the parser so shape assertions
// are not whitespace-sensitive.
func reparse(t *testing.T, compiled *Compiled) *language.OperationDefinition {
	t.Helper()
	doc, err := language.ParseQuery(compiled.Query)
	require.NoError(t, err, "compiled document must be valid wire syntax:\n%s", compiled.Query)
	require.Len(t, doc.Operations, 1)
	return doc.Operations[0]
}

func rootField(t *testing.T, op *language.OperationDefinition) *language.Field {
	t.Helper()
	require.Len(t, op.SelectionSet, 1)
	f, ok := op.SelectionSet[0].(*language.Field)
	require.True(t, ok)
	return f
}

func selectionNames(ss language.SelectionSet) []string {
	names := make([]string, 0, len(ss))
	for _, sel := range ss {
		if f, ok := sel.(*language.Field); ok {
			names = append(names, f.Name)
		}
	}
	return names
}

func child(t *testing.T, f *language.Field, name string) *language.Field {
	t.Helper()
	for _, sel := range f.SelectionSet {
		if c, ok := sel.(*language.Field); ok && c.Name == name {
			return c
		}
	}
	t.Fatalf("field %q has no child %q", f.Name, name)
	return nil
}

func TestQueryDefaultSelection(t *testing.T) {
	c := testCompiler(t)

	compiled, err := c.Query("Product", nil, QueryOptions{})
	require.NoError(t, err)
	require.Equal(t, "Products", compiled.OperationName)
	require.Empty(t, compiled.Variables)

	op := reparse(t, compiled)
	require.Empty(t, op.VariableDefinitions)

	root := rootField(t, op)
	require.Equal(t, "products", root.Name)
	require.Empty(t, root.Arguments)
	require.Equal(t, []string{"totalCount", "nodes"}, selectionNames(root.SelectionSet))

	nodes := child(t, root, "nodes")
	require.Equal(t, []string{"id", "name", "price"}, selectionNames(nodes.SelectionSet))
	price := child(t, nodes, "price")
	require.Equal(t, []string{"amount", "currency"}, selectionNames(price.SelectionSet))
}

func TestQuerySingularRelationInline(t *testing.T) {
	c := testCompiler(t)
	spec := selection.New().
		Leaf("id").
		Leaf("name").
		Relation("supplier", selection.New().Leaf("id").Leaf("name"))

	compiled, err := c.Query("Product", spec, QueryOptions{})
	require.NoError(t, err)

	nodes := child(t, rootField(t, reparse(t, compiled)), "nodes")
	supplier := child(t, nodes, "supplier")
	require.Empty(t, supplier.Arguments)
	require.Equal(t, []string{"id", "name"}, selectionNames(supplier.SelectionSet))
}

func TestQueryPluralRelationBounded(t *testing.T) {
	c := testCompiler(t)
	spec := selection.New().
		Leaf("id").
		Relation("lineItems", selection.New().Leaf("sku").Leaf("qty"))

	compiled, err := c.Query("Order", spec, QueryOptions{})
	require.NoError(t, err)

	nodes := child(t, rootField(t, reparse(t, compiled)), "nodes")
	li := child(t, nodes, "lineItems")
	require.Len(t, li.Arguments, 1)
	require.Equal(t, "first", li.Arguments[0].Name)
	require.Equal(t, "10", li.Arguments[0].Value.Raw)
	inner := child(t, li, "nodes")
	require.Equal(t, []string{"sku", "qty"}, selectionNames(inner.SelectionSet))
}

func TestQueryVariableBindings(t *testing.T) {
	c := testCompiler(t)
	limit, offset := 20, 40
	opts := QueryOptions{
		Limit:   &limit,
		Offset:  &offset,
		Where:   map[string]any{"name": map[string]any{"includes": "chair"}},
		OrderBy: []string{"NAME_ASC"},
	}

	compiled, err := c.Query("Product", nil, opts)
	require.NoError(t, err)

	op := reparse(t, compiled)
	require.Len(t, op.VariableDefinitions, 4)
	byName := map[string]*language.VariableDefinition{}
	for _, vd := range op.VariableDefinitions {
		byName[vd.Variable] = vd
	}
	require.Equal(t, "Int", byName["limit"].Type.NamedType)
	require.Equal(t, "Int", byName["offset"].Type.NamedType)
	require.Equal(t, "ProductFilter", byName["where"].Type.NamedType)

	orderBy := byName["orderBy"].Type
	require.True(t, orderBy.NonNull)
	require.Equal(t, "ProductsOrderBy", orderBy.Elem.NamedType)
	require.True(t, orderBy.Elem.NonNull)

	root := rootField(t, op)
	argValues := map[string]string{}
	for _, a := range root.Arguments {
		argValues[a.Name] = a.Value.Raw
	}
	// where binds to the filter argument
	require.Equal(t, map[string]string{
		"limit": "limit", "offset": "offset", "filter": "where", "orderBy": "orderBy",
	}, argValues)

	require.Equal(t, 20, compiled.Variables["limit"])
	require.Equal(t, 40, compiled.Variables["offset"])
	require.Equal(t, []string{"NAME_ASC"}, compiled.Variables["orderBy"])
}

func TestQueryOmitsAbsentOptions(t *testing.T) {
	c := testCompiler(t)

	compiled, err := c.Query("Product", nil, QueryOptions{OrderBy: []string{}})
	require.NoError(t, err)

	// No dangling declarations or arguments anywhere in the text.
	require.NotContains(t, compiled.Query, "orderBy")
	require.NotContains(t, compiled.Query, "filter")
	require.NotContains(t, compiled.Query, "$")
}

func TestQueryCursorPagination(t *testing.T) {
	c := testCompiler(t)
	after := "opaque-cursor"

	compiled, err := c.Query("Product", nil, QueryOptions{After: &after})
	require.NoError(t, err)

	op := reparse(t, compiled)
	require.Len(t, op.VariableDefinitions, 1)
	require.Equal(t, "Cursor", op.VariableDefinitions[0].Type.NamedType)

	// Cursor mode forces pageInfo even without IncludePageInfo.
	root := rootField(t, op)
	pi := child(t, root, "pageInfo")
	require.Equal(t,
		[]string{"hasNextPage", "hasPreviousPage", "startCursor", "endCursor"},
		selectionNames(pi.SelectionSet))

	require.Equal(t, "opaque-cursor", compiled.Variables["after"])
}

func TestQueryPageInfoOptIn(t *testing.T) {
	c := testCompiler(t)

	compiled, err := c.Query("Product", nil, QueryOptions{})
	require.NoError(t, err)
	require.NotContains(t, compiled.Query, "pageInfo")

	compiled, err = c.Query("Product", nil, QueryOptions{IncludePageInfo: true})
	require.NoError(t, err)
	require.Contains(t, compiled.Query, "pageInfo")
}

func TestQueryRejectsMixedPagination(t *testing.T) {
	c := testCompiler(t)
	limit := 10
	after := "cur"

	_, err := c.Query("Product", nil, QueryOptions{Limit: &limit, After: &after})
	var ioe *InvalidOptionsError
	require.True(t, errors.As(err, &ioe))
}

func TestQueryErrorBeforeRender(t *testing.T) {
	c := testCompiler(t)

	compiled, err := c.Query("Product", selection.New().Leaf("bogus"), QueryOptions{})
	require.Error(t, err)
	require.Nil(t, compiled)
}

func TestCreateDocument(t *testing.T) {
	c := testCompiler(t)

	compiled, err := c.Create("Order", MutationOptions{})
	require.NoError(t, err)
	require.Equal(t, "CreateOrder", compiled.OperationName)

	op := reparse(t, compiled)
	require.Equal(t, language.Mutation, op.Operation)
	require.Len(t, op.VariableDefinitions, 1)
	vd := op.VariableDefinitions[0]
	require.Equal(t, "input", vd.Variable)
	require.Equal(t, "CreateOrderInput", vd.Type.NamedType)
	require.True(t, vd.Type.NonNull)

	root := rootField(t, op)
	require.Equal(t, "createOrder", root.Name)
	require.Len(t, root.Arguments, 1)
	require.Equal(t, "input", root.Arguments[0].Name)

	payload := child(t, root, "order")
	require.Equal(t, []string{"id", "reference"}, selectionNames(payload.SelectionSet))
}

func TestUpdateDocument(t *testing.T) {
	c := testCompiler(t)
	spec := selection.New().Leaf("id").Relation("supplier", selection.New().Leaf("id"))

	compiled, err := c.Update("Product", MutationOptions{FieldSelection: spec})
	require.NoError(t, err)

	op := reparse(t, compiled)
	require.Equal(t, "UpdateProductInput", op.VariableDefinitions[0].Type.NamedType)

	root := rootField(t, op)
	require.Equal(t, "updateProduct", root.Name)

	// The requested relation never reaches the payload.
	payload := child(t, root, "product")
	require.Equal(t, []string{"id"}, selectionNames(payload.SelectionSet))
	require.NotContains(t, compiled.Query, "supplier")
}

func TestCreateRelationsOnlySelection(t *testing.T) {
	c := testCompiler(t)
	spec := selection.New().Relation("supplier", selection.New().Leaf("id"))

	compiled, err := c.Create("Product", MutationOptions{FieldSelection: spec})
	require.NoError(t, err)

	// The payload field must never be emitted bare when the selection
	// dropped every relation entry.
	root := rootField(t, reparse(t, compiled))
	payload := child(t, root, "product")
	require.Equal(t, []string{"id", "name", "price"}, selectionNames(payload.SelectionSet))
	require.NotContains(t, compiled.Query, "supplier")
}

func TestDeleteDocument(t *testing.T) {
	c := testCompiler(t)

	compiled, err := c.Delete("Order")
	require.NoError(t, err)
	require.Equal(t, "DeleteOrder", compiled.OperationName)

	op := reparse(t, compiled)
	require.Equal(t, "DeleteOrderInput", op.VariableDefinitions[0].Type.NamedType)

	root := rootField(t, op)
	require.Equal(t, "deleteOrder", root.Name)
	require.Equal(t, []string{"clientMutationId"}, selectionNames(root.SelectionSet))

	// Never an entity payload on delete.
	require.NotContains(t, compiled.Query, "order {")
}

func TestCompileDeterminism(t *testing.T) {
	c := testCompiler(t)
	limit := 5
	spec := selection.New().
		Leaf("id").
		Relation("lineItems", selection.New().Leaf("sku"))
	opts := QueryOptions{Limit: &limit, OrderBy: []string{"ID_DESC"}, IncludePageInfo: true}

	first, err := c.Query("Order", spec, opts)
	require.NoError(t, err)
	second, err := c.Query("Order", spec, opts)
	require.NoError(t, err)
	require.Equal(t, first.Query, second.Query)

	for _, build := range []func() (*Compiled, error){
		func() (*Compiled, error) { return c.Create("Product", MutationOptions{}) },
		func() (*Compiled, error) { return c.Update("Product", MutationOptions{}) },
		func() (*Compiled, error) { return c.Delete("Product") },
	} {
		a, err := build()
		require.NoError(t, err)
		b, err := build()
		require.NoError(t, err)
		require.Equal(t, a.Query, b.Query)
	}
}

func TestUnknownTable(t *testing.T) {
	c := testCompiler(t)

	_, err := c.Query("Widget", nil, QueryOptions{})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "Widget"))
}

func TestCreateVariables(t *testing.T) {
	c := testCompiler(t)
	tbl, _ := c.catalog.Table("Order")

	vars, err := CreateVariables(tbl, map[string]any{"reference": "A-100"})
	require.NoError(t, err)
	input := vars["input"].(map[string]any)
	require.Equal(t, map[string]any{"reference": "A-100"}, input["order"])
}

func TestUpdateVariables(t *testing.T) {
	c := testCompiler(t)
	tbl, _ := c.catalog.Table("Product")

	vars, err := UpdateVariables(tbl, "42", map[string]any{"name": "Desk"})
	require.NoError(t, err)
	input := vars["input"].(map[string]any)
	require.Equal(t, "42", input["id"])
	require.Equal(t, map[string]any{"name": "Desk"}, input["patch"])

	_, err = UpdateVariables(tbl, "42", map[string]any{"supplier": "x"})
	var ufe *selection.UnknownFieldError
	require.True(t, errors.As(err, &ufe))
}

func TestDeleteVariables(t *testing.T) {
	vars := DeleteVariables("42")
	input := vars["input"].(map[string]any)
	require.Equal(t, "42", input["id"])
}
