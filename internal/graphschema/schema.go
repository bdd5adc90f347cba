// Package graphschema is the Schema Contract: the fixed, compile-time
// mapping between AAS metamodel concepts and the graph's labels,
// relationship names, and property-flattening rules. Both the Condition
// Lowerer (reading) and the Ingestion Writer (writing) consult these tables
// so the two sides can never silently drift apart.
//
// Grounded on original_source/aas_mapping/aas_neo4j_adapter/base.py's
// Neo4jModelConfig dataclass (list_of_dicts_prop_as_multiple_list_props,
// dict_prop_as_multiple_props, virtual_relationships,
// list_item_relationships_with_index, deduplicated_object_types), expressed
// here as Go maps/slices fixed at package init rather than a runtime-loaded
// config object: the schema is part of the compiler's compiled behavior,
// not an external input, so there is no config file or registry to keep
// in sync.
package graphschema

// Node labels.
const (
	LabelAssetAdministrationShell = "AssetAdministrationShell"
	LabelSubmodel                 = "Submodel"
	LabelConceptDescription       = "ConceptDescription"
	LabelSubmodelElement          = "SubmodelElement"
	LabelReference                = "Reference"
	LabelAdministrativeInfo       = "AdministrativeInformation"
	LabelQualifier                = "Qualifier"
	LabelExtension                = "Extension"
	LabelSpecificAssetID          = "SpecificAssetId"
	LabelAssetInformation         = "AssetInformation"

	// Marker labels. A concrete node label may carry zero or more of these
	// in addition to its primary label; see Lineage.
	LabelIdentifiable = "Identifiable"
	LabelReferable    = "Referable"
	LabelQualifiable  = "Qualifiable"
	LabelHasSemantics = "HasSemantics"
)

// Lineage records which marker labels a concrete node label also carries.
// Grounded on the AAS metamodel's Identifiable/Referable/Qualifiable
// interface lineage: an AssetAdministrationShell and a Submodel are both
// Identifiable and Referable; a SubmodelElement is Referable, Qualifiable,
// and HasSemantics but never Identifiable.
var Lineage = map[string][]string{
	LabelAssetAdministrationShell: {LabelIdentifiable, LabelReferable},
	LabelSubmodel:                 {LabelIdentifiable, LabelReferable, LabelQualifiable, LabelHasSemantics},
	LabelConceptDescription:       {LabelIdentifiable, LabelReferable},
	LabelSubmodelElement:          {LabelReferable, LabelQualifiable, LabelHasSemantics},
}

// HasLabel reports whether concreteLabel carries markerLabel, either as
// its primary label or via Lineage.
func HasLabel(concreteLabel, markerLabel string) bool {
	if concreteLabel == markerLabel {
		return true
	}
	for _, m := range Lineage[concreteLabel] {
		if m == markerLabel {
			return true
		}
	}
	return false
}

// Relationship names. Structural relationships mirror a JSON property name
// of the same name; virtual relationships have no corresponding JSON
// property and are synthesized during ingestion (§4.7).
const (
	RelSubmodelElements  = "submodelElements"
	RelValue             = "value"
	RelAssetInformation  = "assetInformation"
	RelSemanticID        = "semanticId"
	RelSubmodels         = "submodels"
	RelSpecificAssetIDs  = "specificAssetIds"
	RelExternalSubjectID = "externalSubjectId"
	RelAdministration    = "administration"
	RelQualifiers        = "qualifiers"
	RelExtensions        = "extensions"
	RelDefaultThumbnail  = "defaultThumbnail"

	// RelChild is a virtual relationship added alongside every structural
	// parent/child edge whose parent and child labels both carry
	// Referable, letting a query walk "any child" without knowing the
	// specific relationship name.
	RelChild = "child"
	// RelReferences names the `references` virtual relationship, from a
	// node that owns a Reference-typed property to the deduplicated
	// Reference node it points at. graphingest's Walker does not emit it.
	RelReferences = "references"
)

// ListFlatten describes a JSON property whose value is a list of
// object-shaped items, flattened into N parallel scalar-list properties
// rather than becoming a relationship. Grounded on
// base.py's list_of_dicts_prop_as_multiple_list_props and
// neo4j_import.py's _process_dict list-of-dicts branch.
type ListFlatten struct {
	// Fields are the item dict's keys, in the order their parallel list
	// properties are emitted: property "keys" with Fields
	// ["type","value"] produces "keys_type" and "keys_value".
	Fields []string
}

// ListOfDictsAsParallelLists is keyed by JSON property name.
var ListOfDictsAsParallelLists = map[string]ListFlatten{
	"keys":  {Fields: []string{"type", "value"}},
	"value": {Fields: []string{"language", "text"}}, // MultiLanguageProperty only; the Walker flattens only items whose keys are all in Fields
}

// DictAsPrefixedScalars lists JSON properties whose value is a single
// nested object of scalar fields, flattened into prefixed scalar properties
// on the owning node instead of becoming a child relationship. Grounded on
// base.py's dict_prop_as_multiple_props.
var DictAsPrefixedScalars = map[string]bool{
	"defaultThumbnail": true,
}

// ListIndexRelationships is the set of (parentLabel, relationshipName)
// pairs whose edges carry a list_index property, because the JSON source
// property is an ordered list rather than an unordered collection.
// Grounded on base.py's list_item_relationships_with_index /
// all_list_item_relationships_have_index.
var ListIndexRelationships = map[[2]string]bool{
	{LabelSubmodelElement, RelValue}:               true, // SubmodelElementCollection/List children
	{LabelSubmodelElement, RelSubmodelElements}:     true,
	{LabelSubmodel, RelSubmodelElements}:            true,
	{LabelAssetAdministrationShell, RelSubmodels}:   true,
	{LabelAssetInformation, RelSpecificAssetIDs}:    true,
}

// HasListIndex reports whether edges of relationship rel from a node
// labeled parentLabel carry a list_index property.
func HasListIndex(parentLabel, rel string) bool {
	return ListIndexRelationships[[2]string{parentLabel, rel}]
}

// DeduplicatedLabels is the set of node labels that are content-addressed:
// two structurally identical instances anywhere in a single ingestion batch
// collapse to one node. Grounded on base.py's deduplicated_object_types and
// neo4j_import.py's _deduplicate_nodes (SHA-256 of sorted-key JSON, uid
// excluded from the hash).
var DeduplicatedLabels = map[string]bool{
	LabelReference:          true,
	LabelConceptDescription: true,
}

// ValueKind classifies what a generic "value"/"language" attribute step
// resolves to once the alias it is read from has a known context: a plain
// scalar, a MultiLanguageProperty's flattened language/text pair, a
// Reference's keys_value/keys_type, or a nested child element. Neither the
// Condition Lowerer nor the Ingestion Writer can tell these apart from a
// path string alone, since "value" and "language" are spelled the same way
// regardless of the owning element's shape; callers classify the alias
// first (graphtranslate.valueKindFor) and consult ValueKind to pick the
// right resolution.
type ValueKind int

const (
	ValueKindScalar ValueKind = iota
	ValueKindMultiLanguage
	ValueKindReference
	ValueKindChildElement
)
