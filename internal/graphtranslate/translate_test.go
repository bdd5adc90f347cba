package graphtranslate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, `"`, `'`)
}

func TestTranslateSimpleEquality(t *testing.T) {
	out, err := Translate([]byte(`{"$condition":{"$eq":[{"$field":"$sme.Material#value"},{"$strVal":"Plastic"}]}}`))
	require.NoError(t, err)
	n := normalize(out)
	assert.Contains(t, n, "(sm0:Submodel)-[:submodelElements]->(sme0:SubmodelElement {idShort: 'Material'})")
	assert.Contains(t, n, "WHERE sme0.value = 'Plastic'")
	assert.Contains(t, n, "RETURN sm0")
}

func TestTranslateNumericComparison(t *testing.T) {
	out, err := Translate([]byte(`{"$condition":{"$ge":[{"$field":"$sme.Weight#value"},{"$numVal":100}]}}`))
	require.NoError(t, err)
	n := normalize(out)
	assert.Contains(t, n, "WHERE sme0.value >= 100")
}

func TestTranslateRegexAndStartsWith(t *testing.T) {
	out, err := Translate([]byte(`{"$condition":{"$regex":[{"$field":"$sme.Serial#value"},{"$strVal":"SN[0-9]{4}"}]}}`))
	require.NoError(t, err)
	assert.Contains(t, normalize(out), "=~ 'SN[0-9]{4}'")

	out, err = Translate([]byte(`{"$condition":{"$starts-with":[{"$field":"$sme.Code#value"},{"$strVal":"ABC-"}]}}`))
	require.NoError(t, err)
	assert.Contains(t, normalize(out), "STARTS WITH 'ABC-'")
}

func TestTranslateRootLiteralLiftedIntoMatch(t *testing.T) {
	doc := `{"$condition":{"$and":[
		{"$eq":[{"$field":"$sm#idShort"},{"$strVal":"TechnicalData"}]},
		{"$lt":[{"$field":"$sme.Weight#value"},{"$numVal":50}]}
	]}}`
	out, err := Translate([]byte(doc))
	require.NoError(t, err)
	n := normalize(out)
	assert.Contains(t, n, "(sm0:Submodel {idShort: 'TechnicalData'})-[:submodelElements]->(sme0:SubmodelElement {idShort: 'Weight'})")
	assert.Contains(t, n, "WHERE sme0.value < 50")
	assert.NotContains(t, n, "idShort = 'TechnicalData'")
}

func TestTranslateCorrelatedArrayMatch(t *testing.T) {
	doc := `{"$condition":{"$match":[
		{"$eq":[{"$field":"$sme.FileVersion[].FileVersionId#value"},{"$strVal":"v1"}]},
		{"$eq":[{"$field":"$sme.FileVersion[].FileName#value"},{"$strVal":"a.pdf"}]}
	]}}`
	out, err := Translate([]byte(doc))
	require.NoError(t, err)
	n := normalize(out)
	// both operands correlate through the same FileVersion[] alias, reused
	// as the parent of both children
	assert.Equal(t, 2, strings.Count(n, "sme_match1:SubmodelElement)-[:value]->"))
	assert.Contains(t, n, "AND")
}

func TestTranslateMatchVsAndAliasCount(t *testing.T) {
	matchDoc := `{"$condition":{"$match":[
		{"$eq":[{"$field":"$sme.FileVersion[].FileVersionId#value"},{"$strVal":"v1"}]},
		{"$eq":[{"$field":"$sme.FileVersion[].FileName#value"},{"$strVal":"a.pdf"}]}
	]}}`
	andDoc := `{"$condition":{"$and":[
		{"$eq":[{"$field":"$sme.FileVersion[].FileVersionId#value"},{"$strVal":"v1"}]},
		{"$eq":[{"$field":"$sme.FileVersion[].FileName#value"},{"$strVal":"a.pdf"}]}
	]}}`

	matchOut, err := Translate([]byte(matchDoc))
	require.NoError(t, err)
	andOut, err := Translate([]byte(andDoc))
	require.NoError(t, err)

	matchAliases := countDistinctSMEAliases(matchOut)
	andAliases := countDistinctSMEAliases(andOut)
	assert.Less(t, matchAliases, andAliases, "match should correlate to fewer distinct array-all aliases than and")
}

func countDistinctSMEAliases(query string) int {
	seen := map[string]bool{}
	for _, node := range strings.Split(query, "(")[1:] {
		colon := strings.IndexByte(node, ':')
		if colon >= 0 && strings.HasPrefix(node, "sme") && strings.HasPrefix(node[colon:], ":SubmodelElement") {
			seen[node[:colon]] = true
		}
	}
	return len(seen)
}

func TestTranslateListEqualityPromotion(t *testing.T) {
	out, err := Translate([]byte(`{"$condition":{"$eq":[{"$field":"$sme.Colors[]#value"},{"$strVal":"red"}]}}`))
	require.NoError(t, err)
	assert.Contains(t, normalize(out), "'red' IN")
}

func TestTranslateBothSidesListUnsupported(t *testing.T) {
	doc := `{"$condition":{"$eq":[{"$field":"$sme.A[]#value"},{"$field":"$sme.B[]#value"}]}}`
	_, err := Translate([]byte(doc))
	require.Error(t, err)
}

func TestTranslateHexAndTimeCastUnsupported(t *testing.T) {
	for _, key := range []string{"$hexCast", "$timeCast"} {
		doc := `{"$condition":{"$eq":[{"` + key + `":{"$field":"$sme.A#value"}},{"$strVal":"x"}]}}`
		_, err := Translate([]byte(doc))
		assert.Error(t, err, key)
	}
}

func TestTranslateDeterministic(t *testing.T) {
	doc := []byte(`{"$condition":{"$eq":[{"$field":"$sme.Material#value"},{"$strVal":"Plastic"}]}}`)
	a, err := Translate(doc)
	require.NoError(t, err)
	b, err := Translate(doc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTranslateAliasSharingAcrossLeaves(t *testing.T) {
	doc := `{"$condition":{"$and":[
		{"$eq":[{"$field":"$sme.Material#value"},{"$strVal":"Plastic"}]},
		{"$eq":[{"$field":"$sme.Material#idShort"},{"$strVal":"Material"}]}
	]}}`
	out, err := Translate([]byte(doc))
	require.NoError(t, err)
	n := normalize(out)
	assert.Contains(t, n, "sme0")
	assert.NotContains(t, n, "sme1")
}
