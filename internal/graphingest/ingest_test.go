package graphingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basyx-graph/query-compiler/internal/graphschema"
)

func TestWalkFlattensParallelLists(t *testing.T) {
	obj := map[string]any{
		"idShort": "Material",
		"value": []any{
			map[string]any{"language": "en", "text": "Plastic"},
			map[string]any{"language": "de", "text": "Kunststoff"},
		},
	}

	w := NewWalker(NewDeduplicator(NewStats()))
	id, err := w.WalkRoot(graphschema.LabelSubmodelElement, obj)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, w.Graph().Nodes, 1)
	node := w.Graph().Nodes[0]
	assert.Equal(t, []any{"en", "de"}, node.Props["value_language"])
	assert.Equal(t, []any{"Plastic", "Kunststoff"}, node.Props["value_text"])
	_, hasRawValue := node.Props["value"]
	assert.False(t, hasRawValue)
}

func TestWalkFlattensPrefixedScalars(t *testing.T) {
	obj := map[string]any{
		"defaultThumbnail": map[string]any{
			"path":        "/thumb.png",
			"contentType": "image/png",
		},
	}
	w := NewWalker(NewDeduplicator(NewStats()))
	_, err := w.WalkRoot(graphschema.LabelAssetInformation, obj)
	require.NoError(t, err)

	node := w.Graph().Nodes[0]
	assert.Equal(t, "/thumb.png", node.Props["defaultThumbnail_path"])
	assert.Equal(t, "image/png", node.Props["defaultThumbnail_contentType"])
}

func TestWalkCreatesChildRelationshipAndVirtualChild(t *testing.T) {
	obj := map[string]any{
		"idShort": "Parent",
		"submodelElements": []any{
			map[string]any{"idShort": "Child"},
		},
	}
	w := NewWalker(NewDeduplicator(NewStats()))
	parentID, err := w.WalkRoot(graphschema.LabelSubmodelElement, obj)
	require.NoError(t, err)

	require.Len(t, w.Graph().Nodes, 2)

	var structural, virtual int
	for _, rel := range w.Graph().Relationships {
		if rel.From != parentID {
			continue
		}
		switch rel.Type {
		case graphschema.RelSubmodelElements:
			structural++
			assert.Equal(t, 0, rel.Props["list_index"])
		case graphschema.RelChild:
			virtual++
		}
	}
	assert.Equal(t, 1, structural)
	assert.Equal(t, 1, virtual)
	assert.Equal(t, 2, w.Stats().TotalRelationshipsCreated)
}

func TestDeduplicatorCollapsesIdenticalReferences(t *testing.T) {
	dedup := NewDeduplicator(NewStats())
	props := map[string]any{"keys_type": []any{"Submodel"}, "keys_value": []any{"urn:x"}}

	id1, err := dedup.Resolve(graphschema.LabelReference, props)
	require.NoError(t, err)
	id2, err := dedup.Resolve(graphschema.LabelReference, props)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, dedup.Stats().TotalNodesDeduplicated)
}

func TestDeduplicatorKeepsNonDedupedLabelsDistinct(t *testing.T) {
	dedup := NewDeduplicator(NewStats())
	props := map[string]any{"idShort": "Weight"}

	id1, err := dedup.Resolve(graphschema.LabelSubmodelElement, props)
	require.NoError(t, err)
	id2, err := dedup.Resolve(graphschema.LabelSubmodelElement, props)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestStatsFinishComputesProcessingTime(t *testing.T) {
	stats := NewStats()
	stats.TotalNodesCreated = 3
	stats.TotalRelationshipsCreated = 2

	stats.Finish()

	assert.False(t, stats.FinishedAt.Before(stats.StartedAt))
	assert.True(t, stats.TotalProcessingTime >= 0)
}
