package graphtranslate

import (
	"fmt"

	"github.com/basyx-graph/query-compiler/internal/grapherrors"
	"github.com/basyx-graph/query-compiler/internal/graphpath"
	"github.com/basyx-graph/query-compiler/internal/graphquerylogger"
	"github.com/basyx-graph/query-compiler/internal/graphschema"
)

// aliasKind tags what kind of node a chain alias currently represents, so
// that the context-sensitive leaf steps (value/type/language) in §4.5 can
// resolve correctly.
type aliasKind int

const (
	kindGeneric aliasKind = iota
	kindReference
	kindAssetInformation
)

// valueKindFor maps the alias kind tracked during traversal onto the
// schema's ValueKind, the classification resolveAttributeSteps's
// value/language steps consult to pick a resolution.
func valueKindFor(kind aliasKind) graphschema.ValueKind {
	switch kind {
	case kindReference:
		return graphschema.ValueKindReference
	case kindAssetInformation:
		return graphschema.ValueKindChildElement
	default:
		return graphschema.ValueKindScalar
	}
}

// resolveField walks a parsed field path, emitting whatever MATCH
// fragments are newly required, and returns the flat property expression
// plus whether it is list-valued. arrayAllOverride maps an SME array-all
// segment's chain-prefix key to a pre-allocated alias; it is non-nil only
// while lowering the operands of a $match, where the correlation invariant
// (§4.6) forces every operand that shares an array-all prefix onto the
// same alias. Outside $match it is nil, and every array-all occurrence
// gets its own fresh alias (§8: "replacing $match with $and produces one
// alias per operand").
func resolveField(ctx *Context, path string, arrayAllOverride map[string]string) (string, bool, error) {
	pp, err := graphpath.Parse(path)
	if err != nil {
		return "", false, err
	}

	var alias string
	var chainKey string
	var terminalIsArrayAll bool
	kind := kindGeneric

	switch pp.Root {
	case graphpath.RootAAS:
		alias = ctx.resolveSingletonRoot("aas", graphschema.LabelAssetAdministrationShell, "$aas")
		chainKey = "$aas"
	case graphpath.RootSM:
		alias = ctx.resolveSingletonRoot("sm", graphschema.LabelSubmodel, "$sm")
		chainKey = "$sm"
	case graphpath.RootCD:
		alias = ctx.resolveSingletonRoot("cd", graphschema.LabelConceptDescription, "$cd")
		chainKey = "$cd"
	case graphpath.RootSME:
		alias, chainKey, terminalIsArrayAll, err = resolveSMEChain(ctx, pp.SMESegments, arrayAllOverride)
		if err != nil {
			return "", false, err
		}
	}

	return resolveAttributeSteps(ctx, alias, chainKey, kind, terminalIsArrayAll, pp.Attributes)
}

// resolveSMEChain builds the combined Submodel-to-leaf-SubmodelElement
// MATCH fragment for an $sme root, reusing cached aliases for segment
// prefixes already seen and allocating fresh ones otherwise.
func resolveSMEChain(ctx *Context, segments []graphpath.SMESegment, arrayAllOverride map[string]string) (alias, chainKey string, terminalIsArrayAll bool, err error) {
	smAlias := ctx.rootAliasOnly("sm", "$sm")
	chainKey = "$sm"
	chainText := ctx.rootNodeText(smAlias, graphschema.LabelSubmodel, "$sm")
	parentAlias := smAlias

	for i, seg := range segments {
		rel := graphschema.RelValue
		if i == 0 {
			rel = graphschema.RelSubmodelElements
		}

		segKey := segmentKey(seg)
		prefixKey := chainKey + "." + segKey

		var segAlias string
		switch seg.Kind {
		case graphpath.SegmentArrayAll:
			if override, ok := arrayAllOverride[prefixKey]; ok {
				segAlias = override
				ctx.aliases[prefixKey] = segAlias
			} else {
				segAlias = ctx.freshAlias("sme")
			}
		default:
			segAlias = ctx.rootAliasOnly("sme", prefixKey)
		}

		var edgeProps, nodeProps string
		switch seg.Kind {
		case graphpath.SegmentNamed:
			nodeProps = fmt.Sprintf(" {idShort: '%s'}", seg.Name)
		case graphpath.SegmentArrayIndexed:
			edgeProps = fmt.Sprintf(" {list_index: %d}", seg.Index)
		case graphpath.SegmentArrayAll:
			// no idShort predicate: matches any child of this name
		}

		chainText += fmt.Sprintf("-[:%s%s]->(%s:%s%s)", rel, edgeProps, segAlias, graphschema.LabelSubmodelElement, nodeProps)
		chainKey = prefixKey
		parentAlias = segAlias
		terminalIsArrayAll = seg.Kind == graphpath.SegmentArrayAll
	}

	ctx.addFragment(chainText, smAlias)
	return parentAlias, chainKey, terminalIsArrayAll, nil
}

func segmentKey(seg graphpath.SMESegment) string {
	switch seg.Kind {
	case graphpath.SegmentArrayAll:
		return seg.Name + "[]"
	case graphpath.SegmentArrayIndexed:
		return fmt.Sprintf("%s[%d]", seg.Name, seg.Index)
	default:
		return seg.Name
	}
}

// resolveAttributeSteps walks the attribute path after the '#', updating
// alias/kind as traversal steps (assetInformation, semanticId,
// externalSubjectId, submodels, specificAssetIds, keys) are consumed, and
// returns the final flat property expression for the terminal step.
func resolveAttributeSteps(ctx *Context, alias, chainKey string, kind aliasKind, terminalIsArrayAll bool, steps []graphpath.AttributeStep) (string, bool, error) {
	var pendingIndex *int

	for i, step := range steps {
		isLast := i == len(steps)-1

		switch step.Kind {
		case graphpath.StepID:
			return alias + ".id", false, nil
		case graphpath.StepIDShort:
			return alias + ".idShort", false, nil
		case graphpath.StepAssetKind:
			return alias + ".assetKind", false, nil
		case graphpath.StepAssetType:
			return alias + ".assetType", false, nil
		case graphpath.StepGlobalAssetID:
			return alias + ".globalAssetId", false, nil
		case graphpath.StepName:
			return alias + ".name", false, nil
		case graphpath.StepValueType:
			return alias + ".valueType", false, nil

		case graphpath.StepLanguage:
			// Undecidable without a live schema lookup: a "language" step
			// only makes sense on a MultiLanguageProperty alias, but the
			// alias kind tracked here never distinguishes one SME from
			// another. This is the documented best-effort raw-access
			// fallback rather than a SchemaViolation, so it is logged at
			// DEBUG instead of silently swallowed.
			graphquerylogger.LogDebug("alias %s: language step resolved as best-effort raw access (assumed %v)", alias, graphschema.ValueKindMultiLanguage)
			return alias + ".value_language", true, nil

		case graphpath.StepValue:
			if valueKindFor(kind) == graphschema.ValueKindReference {
				if pendingIndex != nil {
					return fmt.Sprintf("%s.keys_value[%d]", alias, *pendingIndex), false, nil
				}
				return alias + ".keys_value", true, nil
			}
			// A value step read directly off an SME reached through an
			// array-all ("[]") segment denotes every matching element's
			// value, not one scalar — the list-equality promotion case
			// (§8 scenario 6).
			return alias + ".value", i == 0 && terminalIsArrayAll, nil

		case graphpath.StepType:
			if valueKindFor(kind) == graphschema.ValueKindReference {
				if pendingIndex != nil {
					return fmt.Sprintf("%s.keys_type[%d]", alias, *pendingIndex), false, nil
				}
				return alias + ".keys_type", true, nil
			}
			return alias + ".type", false, nil

		case graphpath.StepKeys:
			if kind != kindReference {
				return "", false, &grapherrors.SchemaViolation{Reason: "keys step on a non-Reference alias", Alias: alias, Step: step.Raw}
			}
			if step.HasIndex {
				idx := step.Index
				pendingIndex = &idx
			} else {
				pendingIndex = nil
			}
			if isLast {
				return "", false, &grapherrors.SchemaViolation{Reason: "keys step requires a following value or type step", Alias: alias, Step: step.Raw}
			}
			continue

		case graphpath.StepSemanticID:
			key := chainKey + ".semanticId"
			refAlias, isNew := ctx.aliasForKey("semanticId", key)
			if isNew {
				ctx.addFragment(fmt.Sprintf("(%s)-[:%s]->(%s:%s)", alias, graphschema.RelSemanticID, refAlias, graphschema.LabelReference), refAlias)
			}
			if isLast {
				return refAlias + ".keys_value[0]", false, nil
			}
			alias, chainKey, kind, terminalIsArrayAll = refAlias, key, kindReference, false
			continue

		case graphpath.StepExternalSubjectID:
			key := chainKey + ".externalSubjectId"
			refAlias, isNew := ctx.aliasForKey("externalSubjectId", key)
			if isNew {
				ctx.addFragment(fmt.Sprintf("(%s)-[:%s]->(%s:%s)", alias, graphschema.RelExternalSubjectID, refAlias, graphschema.LabelReference), refAlias)
			}
			if isLast {
				return "", false, &grapherrors.SchemaViolation{Reason: "externalSubjectId requires a following step", Alias: alias, Step: step.Raw}
			}
			alias, chainKey, kind, terminalIsArrayAll = refAlias, key, kindReference, false
			continue

		case graphpath.StepAssetInformation:
			key := chainKey + ".assetInformation"
			aiAlias, isNew := ctx.aliasForKey("assetInformation", key)
			if isNew {
				ctx.addFragment(fmt.Sprintf("(%s)-[:%s]->(%s:%s)", alias, graphschema.RelAssetInformation, aiAlias, graphschema.LabelAssetInformation), aiAlias)
			}
			if isLast {
				return "", false, &grapherrors.SchemaViolation{Reason: "assetInformation requires a following step", Alias: alias, Step: step.Raw}
			}
			alias, chainKey, kind, terminalIsArrayAll = aiAlias, key, kindAssetInformation, false
			continue

		case graphpath.StepSubmodels:
			key := chainKey + ".submodels"
			smAlias, isNew := ctx.aliasForKey("submodels", key)
			if isNew {
				ctx.addFragment(fmt.Sprintf("(%s)-[:%s]->(%s:%s)", alias, graphschema.RelSubmodels, smAlias, graphschema.LabelSubmodel), smAlias)
			}
			if isLast {
				return "", false, &grapherrors.SchemaViolation{Reason: "submodels requires a following step", Alias: alias, Step: step.Raw}
			}
			alias, chainKey, kind, terminalIsArrayAll = smAlias, key, kindGeneric, false
			continue

		case graphpath.StepSpecificAssetIDs:
			key := chainKey + ".specificAssetIds"
			if step.HasIndex {
				key = fmt.Sprintf("%s[%d]", key, step.Index)
			}
			saAlias, isNew := ctx.aliasForKey("specificAssetIds", key)
			if isNew {
				edgeProps := ""
				if step.HasIndex {
					edgeProps = fmt.Sprintf(" {list_index: %d}", step.Index)
				}
				ctx.addFragment(fmt.Sprintf("(%s)-[:%s%s]->(%s:%s)", alias, graphschema.RelSpecificAssetIDs, edgeProps, saAlias, graphschema.LabelSpecificAssetID), saAlias)
			}
			if isLast {
				return "", false, &grapherrors.SchemaViolation{Reason: "specificAssetIds requires a following step", Alias: alias, Step: step.Raw}
			}
			alias, chainKey, kind, terminalIsArrayAll = saAlias, key, kindGeneric, false
			continue
		}
	}

	return "", false, &grapherrors.InvalidPath{Reason: "attribute path resolves to no property", Path: chainKey}
}
