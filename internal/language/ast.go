package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	QueryDocument          = ast.QueryDocument
	OperationDefinition    = ast.OperationDefinition
	SelectionSet           = ast.SelectionSet
	Selection              = ast.Selection
	Field                  = ast.Field
	Argument               = ast.Argument
	ArgumentList           = ast.ArgumentList
	Value                  = ast.Value
	VariableDefinition     = ast.VariableDefinition
	VariableDefinitionList = ast.VariableDefinitionList
	Type                   = ast.Type
	Position               = ast.Position
)

type Operation = ast.Operation

type ValueKind = ast.ValueKind

const (
	Query    Operation = ast.Query
	Mutation Operation = ast.Mutation

	Variable    ValueKind = ast.Variable
	IntValue    ValueKind = ast.IntValue
	StringValue ValueKind = ast.StringValue
	EnumValue   ValueKind = ast.EnumValue
)

// NamedType returns a nullable named type reference.
func NamedType(name string) *Type { return ast.NamedType(name, nil) }

// NonNullNamedType returns a non-null named type reference.
func NonNullNamedType(name string) *Type { return ast.NonNullNamedType(name, nil) }

// NonNullListOfNonNull returns the [T!]! form used for orderBy variables.
func NonNullListOfNonNull(name string) *Type {
	return ast.NonNullListType(ast.NonNullNamedType(name, nil), nil)
}
