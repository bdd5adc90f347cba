// Package graphingest is the write-side counterpart to
// internal/graphschema: it walks an AAS JSON document and produces the
// same node/relationship shape the Condition Lowerer assumes when it
// builds MATCH fragments. A live graph database and its concrete ingestion
// pipeline are out of scope here; this package only produces the
// in-memory node/relationship shape a real writer would emit, so the
// schema contract has a symmetric, testable counterpart on the write
// side.
//
// Grounded on original_source/aas_mapping/aas_neo4j_adapter/jsonification/
// neo4j_import.py's JsonToNeo4jImporter._process_dict (the flattening
// algorithm), _deduplicate_nodes (SHA-256 content addressing), and
// UploadStats (batch counters); adapted to build an in-memory graph value
// rather than execute Cypher, since query execution itself is out of
// scope.
package graphingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/basyx-graph/query-compiler/internal/graphquerylogger"
	"github.com/basyx-graph/query-compiler/internal/graphschema"
)

// Node is one graph node produced by ingestion.
type Node struct {
	ID    string
	Label string
	Props map[string]any
}

// Relationship is one directed, typed edge between two ingested nodes.
type Relationship struct {
	From, To string
	Type     string
	Props    map[string]any
}

// Graph is the full set of nodes and relationships produced from one
// top-level AAS JSON document.
type Graph struct {
	Nodes         []Node
	Relationships []Relationship
}

// Stats counts and times what a batch ingestion produced, ported from the
// original's UploadStats: cheap, load-bearing observability for an
// ingestion run, shared by every Deduplicator and Walker working on the
// same batch so the counts and the wall-clock they cover line up.
type Stats struct {
	TotalNodesCreated             int
	TotalNodesDeduplicated        int
	TotalRelationshipsCreated     int
	TotalProcessingTime           time.Duration
	TotalNodeCreationTime         time.Duration
	TotalRelationshipCreationTime time.Duration
	StartedAt                     time.Time
	FinishedAt                    time.Time
}

// NewStats starts a Stats clock. Pass the result to NewDeduplicator and
// NewWalker so they accumulate into the same batch totals.
func NewStats() *Stats {
	return &Stats{StartedAt: time.Now()}
}

// Finish stops the clock, computes TotalProcessingTime, and logs a summary
// at INFO, mirroring the original's UploadStats.finish().
func (s *Stats) Finish() {
	s.FinishedAt = time.Now()
	s.TotalProcessingTime = s.FinishedAt.Sub(s.StartedAt)
	graphquerylogger.LogInfo(
		"ingestion finished in %s: %d nodes created (%d deduplicated, %s), %d relationships created (%s)",
		s.TotalProcessingTime, s.TotalNodesCreated, s.TotalNodesDeduplicated, s.TotalNodeCreationTime,
		s.TotalRelationshipsCreated, s.TotalRelationshipCreationTime,
	)
}

// Deduplicator content-addresses nodes whose label is in
// graphschema.DeduplicatedLabels: two structurally identical instances
// collapse to one node ID. Grounded on neo4j_import.py's
// _deduplicate_nodes, which SHA-256-hashes each node's sorted-key JSON
// representation, excluding its generated uid from the hash.
type Deduplicator struct {
	byHash map[string]string // content hash -> node ID
	stats  *Stats
}

// NewDeduplicator returns an empty Deduplicator that accumulates node
// counts and timing into stats.
func NewDeduplicator(stats *Stats) *Deduplicator {
	return &Deduplicator{byHash: make(map[string]string), stats: stats}
}

// Stats returns the shared counters this Deduplicator writes into.
func (d *Deduplicator) Stats() *Stats { return d.stats }

// Resolve returns the ID to use for a node with the given label and
// properties: either a fresh uuid, or the ID of a previously seen node
// with identical content, if label is deduplicated.
func (d *Deduplicator) Resolve(label string, props map[string]any) (string, error) {
	start := time.Now()
	defer func() { d.stats.TotalNodeCreationTime += time.Since(start) }()

	if !graphschema.DeduplicatedLabels[label] {
		d.stats.TotalNodesCreated++
		return uuid.NewString(), nil
	}

	hash, err := contentHash(label, props)
	if err != nil {
		return "", fmt.Errorf("graphingest: hashing %s node: %w", label, err)
	}
	if id, ok := d.byHash[hash]; ok {
		d.stats.TotalNodesDeduplicated++
		return id, nil
	}
	id := uuid.NewString()
	d.byHash[hash] = id
	d.stats.TotalNodesCreated++
	return id, nil
}

func contentHash(label string, props map[string]any) (string, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]any, 0, len(keys)*2+1)
	ordered = append(ordered, label)
	for _, k := range keys {
		ordered = append(ordered, k, props[k])
	}
	encoded, err := json.Marshal(ordered)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// Walker flattens AAS JSON objects into a Graph, following the Schema
// Contract's flattening, list-index, and virtual-relationship rules.
type Walker struct {
	dedup *Deduplicator
	graph *Graph
}

// NewWalker returns a Walker backed by dedup, which may be shared across
// multiple top-level documents in one batch so that Reference and
// ConceptDescription nodes dedupe across the whole batch, not just within
// one document.
func NewWalker(dedup *Deduplicator) *Walker {
	return &Walker{dedup: dedup, graph: &Graph{}}
}

// Graph returns the accumulated graph after one or more WalkRoot calls.
func (w *Walker) Graph() *Graph { return w.graph }

// Stats returns the batch-wide counters this Walker's Deduplicator
// accumulates into.
func (w *Walker) Stats() *Stats { return w.dedup.stats }

func (w *Walker) addRelationship(rel Relationship) {
	start := time.Now()
	w.graph.Relationships = append(w.graph.Relationships, rel)
	w.dedup.stats.TotalRelationshipsCreated++
	w.dedup.stats.TotalRelationshipCreationTime += time.Since(start)
}

// WalkRoot ingests one top-level AAS object (an AssetAdministrationShell,
// Submodel, or ConceptDescription) under label, returning its node ID.
func (w *Walker) WalkRoot(label string, obj map[string]any) (string, error) {
	return w.walkObject(label, obj)
}

func (w *Walker) walkObject(label string, obj map[string]any) (string, error) {
	scalarProps := map[string]any{}
	var pending []pendingEdge

	for key, value := range obj {
		switch v := value.(type) {
		case []any:
			if flatten, ok := graphschema.ListOfDictsAsParallelLists[key]; ok && isListOfDicts(v) && hasOnlyFields(v, flatten.Fields) {
				flattenParallelLists(scalarProps, key, flatten, v)
				continue
			}
			pending = append(pending, pendingEdge{rel: key, items: v})

		case map[string]any:
			if graphschema.DictAsPrefixedScalars[key] {
				flattenPrefixedScalars(scalarProps, key, v)
				continue
			}
			pending = append(pending, pendingEdge{rel: key, items: []any{v}})

		default:
			scalarProps[key] = v
		}
	}

	id, err := w.dedup.Resolve(label, scalarProps)
	if err != nil {
		return "", err
	}
	w.graph.Nodes = append(w.graph.Nodes, Node{ID: id, Label: label, Props: scalarProps})

	isReferable := graphschema.HasLabel(label, graphschema.LabelReferable)
	for _, edge := range pending {
		childLabel := childLabelFor(label, edge.rel)
		withIndex := graphschema.HasListIndex(label, edge.rel) || len(edge.items) > 1
		for i, item := range edge.items {
			childObj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			childID, err := w.walkObject(childLabel, childObj)
			if err != nil {
				return "", err
			}
			props := map[string]any{}
			if withIndex && graphschema.HasListIndex(label, edge.rel) {
				props["list_index"] = i
			}
			w.addRelationship(Relationship{From: id, To: childID, Type: edge.rel, Props: props})
			if isReferable && graphschema.HasLabel(childLabel, graphschema.LabelReferable) {
				w.addRelationship(Relationship{From: id, To: childID, Type: graphschema.RelChild})
			}
		}
	}

	return id, nil
}

type pendingEdge struct {
	rel   string
	items []any
}

func isListOfDicts(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// hasOnlyFields reports whether every item's keys are among fields, which
// tells a MultiLanguageProperty's language/text pairs (or a Reference's
// type/value keys) apart from a collection's list of child elements.
func hasOnlyFields(items []any, fields []string) bool {
	for _, item := range items {
		dict, _ := item.(map[string]any)
		for k := range dict {
			if !slices.Contains(fields, k) {
				return false
			}
		}
	}
	return true
}

func flattenParallelLists(scalarProps map[string]any, key string, flatten graphschema.ListFlatten, items []any) {
	lists := make(map[string][]any, len(flatten.Fields))
	for _, field := range flatten.Fields {
		lists[field] = make([]any, 0, len(items))
	}
	for _, item := range items {
		dict, _ := item.(map[string]any)
		for _, field := range flatten.Fields {
			lists[field] = append(lists[field], dict[field])
		}
	}
	for _, field := range flatten.Fields {
		scalarProps[key+"_"+field] = lists[field]
	}
}

func flattenPrefixedScalars(scalarProps map[string]any, key string, dict map[string]any) {
	for field, value := range dict {
		scalarProps[key+"_"+field] = value
	}
}

// childLabelFor names the label a nested object reached via rel from a
// node labeled parentLabel should carry. The Schema Contract fixes this
// for the relationships the compiler actually traverses; everything else
// falls back to the generic SubmodelElement label, since the full AAS
// submodel-element-type lattice (Property, Range, Blob, Entity, ...) is
// out of scope for the query-compiler-facing contract.
func childLabelFor(parentLabel, rel string) string {
	switch rel {
	case graphschema.RelAssetInformation:
		return graphschema.LabelAssetInformation
	case graphschema.RelSemanticID, graphschema.RelExternalSubjectID:
		return graphschema.LabelReference
	case graphschema.RelSubmodels:
		return graphschema.LabelSubmodel
	case graphschema.RelSpecificAssetIDs:
		return graphschema.LabelSpecificAssetID
	case graphschema.RelQualifiers:
		return graphschema.LabelQualifier
	case graphschema.RelExtensions:
		return graphschema.LabelExtension
	case graphschema.RelAdministration:
		return graphschema.LabelAdministrativeInfo
	case graphschema.RelSubmodelElements, graphschema.RelValue:
		return graphschema.LabelSubmodelElement
	default:
		return graphschema.LabelSubmodelElement
	}
}
