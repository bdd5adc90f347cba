// Package graphpath implements the Path Model: decomposition of AASQL field
// paths ("<root>#<attribute_path>") into a typed, structured form the Alias
// Registry and Condition Lowerer can walk without re-parsing strings.
//
// Grounded on original_source/aas_mapping/aas_neo4j_adapter/querification/
// ast_to_cypher.py's _convert_root/_convert_sme/_convert_attribute_elements,
// which perform this decomposition inline via Python string slicing and
// match/case; here it is a standalone, pre-validated parse step so that
// field resolution walks the typed form instead of raw strings. The $match
// correlation pre-pass in graphtranslate (arrayAllPrefixes) still scans the
// raw path text for array-all segments.
package graphpath

import (
	"strconv"
	"strings"

	"github.com/basyx-graph/query-compiler/internal/grapherrors"
)

// RootKind identifies which of the four path roots a field path starts
// from.
type RootKind int

const (
	RootAAS RootKind = iota
	RootSM
	RootCD
	RootSME
)

// SegmentKind distinguishes the three shapes an $sme path segment may take.
type SegmentKind int

const (
	SegmentNamed SegmentKind = iota
	SegmentArrayAll
	SegmentArrayIndexed
)

// SMESegment is one step of an $sme root's dotted child chain.
type SMESegment struct {
	Name  string
	Kind  SegmentKind
	Index int // meaningful only when Kind == SegmentArrayIndexed
}

// StepKind is the closed set of attribute steps recognized after the '#'.
type StepKind int

const (
	StepID StepKind = iota
	StepIDShort
	StepAssetInformation
	StepAssetKind
	StepAssetType
	StepGlobalAssetID
	StepName
	StepValue
	StepExternalSubjectID
	StepType
	StepSubmodels
	StepSemanticID
	StepValueType
	StepLanguage
	StepKeys
	StepSpecificAssetIDs
)

// AttributeStep is one dot-separated element of the attribute path. Keys
// and SpecificAssetIDs steps may carry an explicit non-negative index;
// HasIndex distinguishes "keys[0]" from the unindexed "keys"/"keys[]".
type AttributeStep struct {
	Kind     StepKind
	Raw      string
	HasIndex bool
	Index    int
}

// ParsedPath is the decomposed form of a field path.
type ParsedPath struct {
	Raw         string
	Root        RootKind
	SMESegments []SMESegment // non-empty only when Root == RootSME
	Attributes  []AttributeStep
}

var namedAttributeSteps = map[string]StepKind{
	"id":                StepID,
	"idShort":           StepIDShort,
	"assetInformation":  StepAssetInformation,
	"assetKind":         StepAssetKind,
	"assetType":         StepAssetType,
	"globalAssetId":     StepGlobalAssetID,
	"name":              StepName,
	"value":             StepValue,
	"externalSubjectId": StepExternalSubjectID,
	"type":              StepType,
	"submodels":         StepSubmodels,
	"semanticId":        StepSemanticID,
	"valueType":         StepValueType,
	"language":          StepLanguage,
}

// Parse decomposes a field path of the form "<root>#<attribute_path>" into
// a ParsedPath. It returns *grapherrors.InvalidPath for every malformed
// shape named in §4.2: missing '#', unknown root, unknown attribute name,
// or a malformed list index.
func Parse(path string) (ParsedPath, error) {
	parts := strings.Split(path, "#")
	if len(parts) != 2 {
		return ParsedPath{}, &grapherrors.InvalidPath{Reason: "path must contain exactly one '#'", Path: path}
	}
	rootStr, attrStr := parts[0], parts[1]

	pp := ParsedPath{Raw: path}

	switch {
	case rootStr == "$aas":
		pp.Root = RootAAS
	case rootStr == "$sm":
		pp.Root = RootSM
	case rootStr == "$cd":
		pp.Root = RootCD
	case strings.HasPrefix(rootStr, "$sme"):
		pp.Root = RootSME
		segs, err := parseSMESegments(rootStr, path)
		if err != nil {
			return ParsedPath{}, err
		}
		pp.SMESegments = segs
	default:
		return ParsedPath{}, &grapherrors.InvalidPath{Reason: "unknown root", Path: path}
	}

	steps, err := parseAttributeSteps(attrStr, path)
	if err != nil {
		return ParsedPath{}, err
	}
	pp.Attributes = steps

	return pp, nil
}

func parseSMESegments(rootStr, fullPath string) ([]SMESegment, error) {
	rest := strings.TrimPrefix(rootStr, "$sme")
	if rest == "" {
		return nil, &grapherrors.InvalidPath{Reason: "$sme root requires at least one segment", Path: fullPath}
	}
	if !strings.HasPrefix(rest, ".") {
		return nil, &grapherrors.InvalidPath{Reason: "$sme root segments must be dot-separated", Path: fullPath}
	}
	rawSegments := strings.Split(rest[1:], ".")

	segs := make([]SMESegment, 0, len(rawSegments))
	for _, raw := range rawSegments {
		seg, err := parseSMESegment(raw, fullPath)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseSMESegment(raw, fullPath string) (SMESegment, error) {
	open := strings.IndexByte(raw, '[')
	if open < 0 {
		if raw == "" {
			return SMESegment{}, &grapherrors.InvalidPath{Reason: "empty $sme segment", Path: fullPath}
		}
		return SMESegment{Name: raw, Kind: SegmentNamed}, nil
	}
	if !strings.HasSuffix(raw, "]") {
		return SMESegment{}, &grapherrors.InvalidPath{Reason: "malformed list index", Path: fullPath}
	}
	name := raw[:open]
	inner := raw[open+1 : len(raw)-1]
	if inner == "" {
		return SMESegment{Name: name, Kind: SegmentArrayAll}, nil
	}
	idx, err := strconv.Atoi(inner)
	if err != nil || idx < 0 {
		return SMESegment{}, &grapherrors.InvalidPath{Reason: "malformed list index", Path: fullPath}
	}
	return SMESegment{Name: name, Kind: SegmentArrayIndexed, Index: idx}, nil
}

func parseAttributeSteps(attrStr, fullPath string) ([]AttributeStep, error) {
	if attrStr == "" {
		return nil, &grapherrors.InvalidPath{Reason: "empty attribute path", Path: fullPath}
	}
	rawParts := strings.Split(attrStr, ".")
	steps := make([]AttributeStep, 0, len(rawParts))
	for _, part := range rawParts {
		step, err := parseAttributeStep(part, fullPath)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseAttributeStep(part, fullPath string) (AttributeStep, error) {
	name := part
	hasIndex := false
	index := 0

	if open := strings.IndexByte(part, '['); open >= 0 {
		if !strings.HasSuffix(part, "]") {
			return AttributeStep{}, &grapherrors.InvalidPath{Reason: "malformed list index", Path: fullPath}
		}
		name = part[:open]
		inner := part[open+1 : len(part)-1]
		if inner != "" {
			idx, err := strconv.Atoi(inner)
			if err != nil || idx < 0 {
				return AttributeStep{}, &grapherrors.InvalidPath{Reason: "malformed list index", Path: fullPath}
			}
			hasIndex = true
			index = idx
		}
		switch name {
		case "keys":
			return AttributeStep{Kind: StepKeys, Raw: part, HasIndex: hasIndex, Index: index}, nil
		case "specificAssetIds":
			return AttributeStep{Kind: StepSpecificAssetIDs, Raw: part, HasIndex: hasIndex, Index: index}, nil
		default:
			return AttributeStep{}, &grapherrors.InvalidPath{Reason: "unknown indexed attribute", Path: fullPath}
		}
	}

	if name == "keys" {
		return AttributeStep{Kind: StepKeys, Raw: part}, nil
	}
	if name == "specificAssetIds" {
		return AttributeStep{Kind: StepSpecificAssetIDs, Raw: part}, nil
	}
	if kind, ok := namedAttributeSteps[name]; ok {
		return AttributeStep{Kind: kind, Raw: part}, nil
	}
	return AttributeStep{}, &grapherrors.InvalidPath{Reason: "unknown attribute", Path: fullPath}
}

// String renders the canonical textual form of a parsed path. For every
// path accepted by Parse whose $sme list indices are plain decimals (no
// sign, no leading zeros), String(Parse(path)) reproduces path verbatim —
// the round-trip property exercised in the test suite (§8). An index such
// as "[01]" or "[+1]" is accepted but rendered as "[1]".
func (p ParsedPath) String() string {
	var b strings.Builder
	switch p.Root {
	case RootAAS:
		b.WriteString("$aas")
	case RootSM:
		b.WriteString("$sm")
	case RootCD:
		b.WriteString("$cd")
	case RootSME:
		b.WriteString("$sme")
		for _, seg := range p.SMESegments {
			b.WriteByte('.')
			b.WriteString(seg.Name)
			switch seg.Kind {
			case SegmentArrayAll:
				b.WriteString("[]")
			case SegmentArrayIndexed:
				b.WriteByte('[')
				b.WriteString(strconv.Itoa(seg.Index))
				b.WriteByte(']')
			}
		}
	}
	b.WriteByte('#')
	for i, step := range p.Attributes {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(step.Raw)
	}
	return b.String()
}
