package graphtranslate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/basyx-graph/query-compiler/internal/graphast"
	"github.com/basyx-graph/query-compiler/internal/grapherrors"
)

// lowerValue reduces a Value to its flat target-language expression plus
// whether it is list-valued, per §4.2/§4.5.
func lowerValue(ctx *Context, v graphast.Value, arrayAllOverride map[string]string) (string, bool, error) {
	switch val := v.(type) {
	case graphast.Field:
		return resolveField(ctx, val.Name, arrayAllOverride)
	case graphast.StringValue:
		return quoteString(val.Value), false, nil
	case graphast.NumberValue:
		return formatNumber(val.Value), false, nil
	case graphast.BooleanValue:
		return strconv.FormatBool(val.Value), false, nil
	case graphast.CastValue:
		return lowerCast(ctx, val, arrayAllOverride)
	default:
		return "", false, &grapherrors.Unsupported{Reason: "unrecognized value node"}
	}
}

func lowerCast(ctx *Context, v graphast.CastValue, arrayAllOverride map[string]string) (string, bool, error) {
	switch v.Kind {
	case graphast.CastHex, graphast.CastTime:
		return "", false, &grapherrors.Unsupported{Reason: "cast not supported by the target dialect", Offending: v.Kind.String()}
	}
	inner, isList, err := lowerValue(ctx, v.Inner, arrayAllOverride)
	if err != nil {
		return "", false, err
	}
	fn, ok := castFunctions[v.Kind]
	if !ok {
		return "", false, &grapherrors.Unsupported{Reason: "unrecognized cast", Offending: v.Kind.String()}
	}
	return fmt.Sprintf("%s(%s)", fn, inner), isList, nil
}

// castFunctions fixes, per implementation (§9 Open Questions: "the exact
// function names depend on the target dialect; they must be fixed at
// implementation time"), the conversion function names for the target
// Cypher-family dialect.
var castFunctions = map[graphast.Cast]string{
	graphast.CastStr:      "toString",
	graphast.CastNum:      "toFloat",
	graphast.CastBool:     "toBoolean",
	graphast.CastDateTime: "datetime",
}

func quoteString(s string) string {
	escaped := strings.ReplaceAll(s, "'", "\\'")
	return "'" + escaped + "'"
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// lowerExpression folds an Expression into its WHERE predicate string.
// arrayAllOverride is threaded through unchanged except at a Match node,
// which computes its own correlation map for its operands (§4.6).
func lowerExpression(ctx *Context, e graphast.Expression, arrayAllOverride map[string]string) (string, error) {
	switch ex := e.(type) {
	case graphast.BinaryCompare:
		return lowerCompare(ctx, ex, arrayAllOverride)

	case graphast.And:
		return lowerJoin(ctx, ex.Operands, " AND ", arrayAllOverride)

	case graphast.Or:
		return lowerJoin(ctx, ex.Operands, " OR ", arrayAllOverride)

	case graphast.Not:
		inner, err := lowerExpression(ctx, ex.Operand, arrayAllOverride)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil

	case graphast.Match:
		correlated := correlateArrayAll(ex.Operands)
		return lowerJoin(ctx, ex.Operands, " AND ", correlated)

	default:
		return "", &grapherrors.Unsupported{Reason: "unrecognized expression node"}
	}
}

func lowerJoin(ctx *Context, operands []graphast.Expression, sep string, arrayAllOverride map[string]string) (string, error) {
	parts := make([]string, 0, len(operands))
	for _, op := range operands {
		s, err := lowerExpression(ctx, op, arrayAllOverride)
		if err != nil {
			return "", err
		}
		if needsParens(op) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

func needsParens(e graphast.Expression) bool {
	switch e.(type) {
	case graphast.And, graphast.Or, graphast.Match:
		return true
	default:
		return false
	}
}

func lowerCompare(ctx *Context, ex graphast.BinaryCompare, arrayAllOverride map[string]string) (string, error) {
	left, leftList, err := lowerValue(ctx, ex.Left, arrayAllOverride)
	if err != nil {
		return "", err
	}
	right, rightList, err := lowerValue(ctx, ex.Right, arrayAllOverride)
	if err != nil {
		return "", err
	}

	if ex.Op == graphast.OpEq {
		switch {
		case leftList && rightList:
			return "", &grapherrors.Unsupported{Reason: "equality between two list-valued operands is unspecified"}
		case leftList && !rightList:
			return fmt.Sprintf("%s IN %s", right, left), nil
		case rightList && !leftList:
			return fmt.Sprintf("%s IN %s", left, right), nil
		}
	}

	return fmt.Sprintf("%s %s %s", left, ex.Op.Symbol(), right), nil
}

// correlateArrayAll implements the $match correlation invariant (§4.6):
// every array-all SME segment prefix shared by more than one operand is
// forced onto a single fresh alias before any operand is lowered. Field
// paths are collected from the full operand subtree so that correlation
// also works for nested combinators inside a $match operand.
func correlateArrayAll(operands []graphast.Expression) map[string]string {
	counts := map[string]int{}
	for _, op := range operands {
		seen := map[string]bool{}
		for _, path := range collectFieldPaths(op) {
			for _, prefix := range arrayAllPrefixes(path) {
				if !seen[prefix] {
					seen[prefix] = true
					counts[prefix]++
				}
			}
		}
	}

	prefixes := make([]string, 0, len(counts))
	for prefix := range counts {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	overrides := map[string]string{}
	counter := 0
	for _, prefix := range prefixes {
		if counts[prefix] > 1 {
			counter++
			overrides[prefix] = fmt.Sprintf("sme_match%d", counter)
		}
	}
	return overrides
}

func collectFieldPaths(e graphast.Expression) []string {
	var out []string
	switch ex := e.(type) {
	case graphast.BinaryCompare:
		out = append(out, fieldPathOf(ex.Left)...)
		out = append(out, fieldPathOf(ex.Right)...)
	case graphast.And:
		for _, op := range ex.Operands {
			out = append(out, collectFieldPaths(op)...)
		}
	case graphast.Or:
		for _, op := range ex.Operands {
			out = append(out, collectFieldPaths(op)...)
		}
	case graphast.Not:
		out = append(out, collectFieldPaths(ex.Operand)...)
	case graphast.Match:
		for _, op := range ex.Operands {
			out = append(out, collectFieldPaths(op)...)
		}
	}
	return out
}

func fieldPathOf(v graphast.Value) []string {
	switch val := v.(type) {
	case graphast.Field:
		return []string{val.Name}
	case graphast.CastValue:
		return fieldPathOf(val.Inner)
	default:
		return nil
	}
}

// arrayAllPrefixes returns every "$sme.<chain prefix up to and including
// an array-all segment>" key present in path, e.g. for
// "$sme.FileVersion[].FileName#value" it returns ["$sm.FileVersion[]"].
func arrayAllPrefixes(path string) []string {
	hashIdx := strings.IndexByte(path, '#')
	if hashIdx < 0 {
		return nil
	}
	root := path[:hashIdx]
	if !strings.HasPrefix(root, "$sme.") {
		return nil
	}
	segments := strings.Split(strings.TrimPrefix(root, "$sme."), ".")

	var out []string
	prefix := "$sm"
	for _, seg := range segments {
		if strings.HasSuffix(seg, "[]") {
			prefix = prefix + "." + seg
			out = append(out, prefix)
		} else {
			prefix = prefix + "." + seg
		}
	}
	return out
}
