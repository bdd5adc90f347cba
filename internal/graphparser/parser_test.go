package graphparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basyx-graph/query-compiler/internal/graphast"
)

func TestParseSimpleComparison(t *testing.T) {
	cond, err := Parse([]byte(`{"$condition":{"$eq":[{"$field":"$sme.Material#value"},{"$strVal":"Plastic"}]}}`))
	require.NoError(t, err)

	cmp, ok := cond.Expr.(graphast.BinaryCompare)
	require.True(t, ok, "expected BinaryCompare, got %T", cond.Expr)
	assert.Equal(t, graphast.OpEq, cmp.Op)
	assert.Equal(t, graphast.Field{Name: "$sme.Material#value"}, cmp.Left)
	assert.Equal(t, graphast.StringValue{Value: "Plastic"}, cmp.Right)
}

func TestParseAllComparators(t *testing.T) {
	ops := map[string]graphast.CompareOp{
		"$eq":          graphast.OpEq,
		"$ne":          graphast.OpNe,
		"$gt":          graphast.OpGt,
		"$ge":          graphast.OpGe,
		"$lt":          graphast.OpLt,
		"$le":          graphast.OpLe,
		"$contains":    graphast.OpContains,
		"$starts-with": graphast.OpStartsWith,
		"$ends-with":   graphast.OpEndsWith,
		"$regex":       graphast.OpRegex,
	}
	for key, want := range ops {
		doc := `{"$condition":{"` + key + `":[{"$field":"$sm#idShort"},{"$strVal":"x"}]}}`
		cond, err := Parse([]byte(doc))
		require.NoError(t, err, "operator %s", key)
		cmp := cond.Expr.(graphast.BinaryCompare)
		assert.Equal(t, want, cmp.Op, "operator %s", key)
	}
}

func TestParseCombinators(t *testing.T) {
	doc := `{"$condition":{"$and":[
		{"$eq":[{"$field":"$sm#idShort"},{"$strVal":"TechnicalData"}]},
		{"$lt":[{"$field":"$sme.Weight#value"},{"$numVal":50}]}
	]}}`
	cond, err := Parse([]byte(doc))
	require.NoError(t, err)
	and, ok := cond.Expr.(graphast.And)
	require.True(t, ok)
	assert.Len(t, and.Operands, 2)
}

func TestParseNot(t *testing.T) {
	doc := `{"$condition":{"$not":{"$eq":[{"$field":"$sm#idShort"},{"$strVal":"x"}]}}}`
	cond, err := Parse([]byte(doc))
	require.NoError(t, err)
	_, ok := cond.Expr.(graphast.Not)
	assert.True(t, ok)
}

func TestParseCasts(t *testing.T) {
	doc := `{"$condition":{"$eq":[{"$numCast":{"$field":"$sme.Weight#value"}},{"$numVal":50}]}}`
	cond, err := Parse([]byte(doc))
	require.NoError(t, err)
	cmp := cond.Expr.(graphast.BinaryCompare)
	cast, ok := cmp.Left.(graphast.CastValue)
	require.True(t, ok)
	assert.Equal(t, graphast.CastNum, cast.Kind)
	assert.Equal(t, graphast.Field{Name: "$sme.Weight#value"}, cast.Inner)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing $condition":        `{"foo":{}}`,
		"unknown operator":          `{"$condition":{"$bogus":[]}}`,
		"duplicate operator keys":   `{"$condition":{"$eq":[],"$ne":[]}}`,
		"wrong arity":               `{"$condition":{"$eq":[{"$strVal":"a"}]}}`,
		"malformed value object":    `{"$condition":{"$eq":[{"$bogus":"a"},{"$strVal":"b"}]}}`,
		"and with one operand":      `{"$condition":{"$and":[{"$eq":[{"$strVal":"a"},{"$strVal":"b"}]}]}}`,
		"ambiguous value object":    `{"$condition":{"$eq":[{"$field":"$sm#idShort","$strVal":"x"},{"$strVal":"b"}]}}`,
		"extra top-level key":       `{"$condition":{"$eq":[{"$strVal":"a"},{"$strVal":"b"}]},"$extra":1}`,
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}
