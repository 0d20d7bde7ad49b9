package document

import (
	"github.com/davrell/tablegql/internal/language"
	"github.com/davrell/tablegql/internal/naming"
)

// Create compiles a create mutation. The document declares exactly one
// variable, $input: Create<Table>Input!, and returns the created row
// under the table's singular field name with relations excluded.
func (c *Compiler) Create(tableName string, opts MutationOptions) (*Compiled, error) {
	table, err := c.table(tableName)
	if err != nil {
		return nil, err
	}
	payload, err := c.selections.CompilePayload(table, opts.FieldSelection)
	if err != nil {
		return nil, err
	}
	return c.mutation(
		"Create"+naming.TypeName(table.Name),
		naming.CreateFieldName(table.Name),
		naming.CreateInputTypeName(table.Name),
		language.SelectionSet{
			&language.Field{Name: naming.Singular(table.Name), SelectionSet: payload},
		},
	), nil
}

// Update compiles an update mutation. Its input nests {id, patch} on the
// caller side (see UpdateVariables); the return shape matches Create.
func (c *Compiler) Update(tableName string, opts MutationOptions) (*Compiled, error) {
	table, err := c.table(tableName)
	if err != nil {
		return nil, err
	}
	payload, err := c.selections.CompilePayload(table, opts.FieldSelection)
	if err != nil {
		return nil, err
	}
	return c.mutation(
		"Update"+naming.TypeName(table.Name),
		naming.UpdateFieldName(table.Name),
		naming.UpdateInputTypeName(table.Name),
		language.SelectionSet{
			&language.Field{Name: naming.Singular(table.Name), SelectionSet: payload},
		},
	), nil
}

// Delete compiles a delete mutation. Deletions never return row data:
// the payload is always the fixed mutation-tracking token field.
func (c *Compiler) Delete(tableName string) (*Compiled, error) {
	table, err := c.table(tableName)
	if err != nil {
		return nil, err
	}
	return c.mutation(
		"Delete"+naming.TypeName(table.Name),
		naming.DeleteFieldName(table.Name),
		naming.DeleteInputTypeName(table.Name),
		language.SelectionSet{
			&language.Field{Name: "clientMutationId"},
		},
	), nil
}

func (c *Compiler) mutation(opName, rootField, inputType string, payload language.SelectionSet) *Compiled {
	doc := &language.QueryDocument{
		Operations: []*language.OperationDefinition{{
			Operation: language.Mutation,
			Name:      opName,
			VariableDefinitions: language.VariableDefinitionList{
				{Variable: "input", Type: language.NonNullNamedType(inputType)},
			},
			SelectionSet: language.SelectionSet{
				&language.Field{
					Name: rootField,
					Arguments: language.ArgumentList{{
						Name:  "input",
						Value: &language.Value{Raw: "input", Kind: language.Variable},
					}},
					SelectionSet: payload,
				},
			},
		}},
	}
	return &Compiled{
		OperationName: opName,
		Query:         language.Format(doc),
		Variables:     map[string]any{},
	}
}
