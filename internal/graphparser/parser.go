// Package graphparser turns an AASQL query document (JSON) into a
// graphast.Condition. Every expression and value object is a single-key
// JSON object; the parser dispatches exhaustively on which key is present
// and rejects anything else — no permissive "first match wins" fallback,
// per the error handling design (§7).
//
// Grounded on original_source/aas_mapping/aas_neo4j_adapter/querification/
// aasql_to_ast.py's parse_aasql_query/parse_aasql_expression/
// parse_aasql_value, and on a dispatch-on-single-present-key
// UnmarshalJSON idiom. Unlike the Python original, cast values here
// correctly unwrap the cast's own nested value rather than re-reading the
// preceding loop variable — the original's parse_aasql_value has a latent
// bug where every *Cast branch re-parses data[value_prop] (the
// literal-value key from the prior check) instead of
// data[value_cast_prop]; that bug is not reproduced here.
package graphparser

import (
	"encoding/json"
	"fmt"

	"github.com/basyx-graph/query-compiler/internal/graphast"
	"github.com/basyx-graph/query-compiler/internal/grapherrors"
)

// Parse decodes data as an AASQL query document and returns its AST.
func Parse(data []byte) (*graphast.Condition, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &grapherrors.InvalidQuery{Reason: "document is not a JSON object", Offending: err.Error()}
	}
	raw, ok := doc["$condition"]
	if !ok {
		return nil, &grapherrors.InvalidQuery{Reason: "missing $condition", Offending: string(data)}
	}
	if len(doc) != 1 {
		return nil, &grapherrors.InvalidQuery{Reason: "top-level document must contain only $condition", Offending: string(data)}
	}
	expr, err := parseExpression(raw)
	if err != nil {
		return nil, err
	}
	return &graphast.Condition{Expr: expr}, nil
}

var comparatorOps = map[string]graphast.CompareOp{
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

const (
	keyMatch = "$match"
	keyAnd   = "$and"
	keyOr    = "$or"
	keyNot   = "$not"
)

func parseExpression(raw json.RawMessage) (graphast.Expression, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &grapherrors.InvalidQuery{Reason: "expression is not a JSON object", Offending: string(raw)}
	}

	present := make([]string, 0, 1)
	for k := range obj {
		if k == keyMatch || k == keyAnd || k == keyOr || k == keyNot {
			present = append(present, k)
			continue
		}
		if _, ok := comparatorOps[k]; ok {
			present = append(present, k)
		}
	}
	switch len(present) {
	case 0:
		return nil, &grapherrors.InvalidQuery{Reason: "unknown or missing operator in expression", Offending: string(raw)}
	case 1:
		// fallthrough to dispatch below
	default:
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("ambiguous expression: multiple operator keys %v", present), Offending: string(raw)}
	}
	if len(obj) != 1 {
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("unknown key alongside operator %s", present[0]), Offending: string(raw)}
	}

	key := present[0]
	switch key {
	case keyNot:
		inner, err := parseExpression(obj[keyNot])
		if err != nil {
			return nil, err
		}
		return graphast.Not{Operand: inner}, nil
	case keyAnd, keyOr, keyMatch:
		operands, err := parseExpressionList(obj[key], key, raw)
		if err != nil {
			return nil, err
		}
		switch key {
		case keyAnd:
			return graphast.And{Operands: operands}, nil
		case keyOr:
			return graphast.Or{Operands: operands}, nil
		default:
			return graphast.Match{Operands: operands}, nil
		}
	default:
		op := comparatorOps[key]
		operands, err := parseValueList(obj[key], key, raw)
		if err != nil {
			return nil, err
		}
		if len(operands) != 2 {
			return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("%s requires exactly 2 operands, got %d", key, len(operands)), Offending: string(raw)}
		}
		return graphast.BinaryCompare{Op: op, Left: operands[0], Right: operands[1]}, nil
	}
}

func parseExpressionList(raw json.RawMessage, key string, parent json.RawMessage) ([]graphast.Expression, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("%s must be a JSON array", key), Offending: string(parent)}
	}
	if len(items) < 2 {
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("%s requires at least 2 operands, got %d", key, len(items)), Offending: string(parent)}
	}
	out := make([]graphast.Expression, 0, len(items))
	for _, item := range items {
		e, err := parseExpression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

var valueKeys = map[string]bool{
	"$field":        true,
	"$strVal":       true,
	"$numVal":       true,
	"$boolean":      true,
	"$strCast":      true,
	"$numCast":      true,
	"$hexCast":      true,
	"$boolCast":     true,
	"$dateTimeCast": true,
	"$timeCast":     true,
}

var castKinds = map[string]graphast.Cast{
	"$strCast":      graphast.CastStr,
	"$numCast":      graphast.CastNum,
	"$hexCast":      graphast.CastHex,
	"$boolCast":     graphast.CastBool,
	"$dateTimeCast": graphast.CastDateTime,
	"$timeCast":     graphast.CastTime,
}

func parseValueList(raw json.RawMessage, key string, parent json.RawMessage) ([]graphast.Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("%s must be a JSON array", key), Offending: string(parent)}
	}
	out := make([]graphast.Value, 0, len(items))
	for _, item := range items {
		v, err := parseValue(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseValue(raw json.RawMessage) (graphast.Value, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &grapherrors.InvalidQuery{Reason: "value is not a JSON object", Offending: string(raw)}
	}

	present := make([]string, 0, 1)
	for k := range obj {
		if valueKeys[k] {
			present = append(present, k)
		}
	}
	switch len(present) {
	case 0:
		return nil, &grapherrors.InvalidQuery{Reason: "unknown or missing value key", Offending: string(raw)}
	case 1:
	default:
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("ambiguous value: multiple keys %v", present), Offending: string(raw)}
	}
	if len(obj) != 1 {
		return nil, &grapherrors.InvalidQuery{Reason: fmt.Sprintf("unknown key alongside value key %s", present[0]), Offending: string(raw)}
	}

	key := present[0]
	if kind, ok := castKinds[key]; ok {
		inner, err := parseValue(obj[key])
		if err != nil {
			return nil, err
		}
		return graphast.CastValue{Kind: kind, Inner: inner}, nil
	}

	switch key {
	case "$field":
		var name string
		if err := json.Unmarshal(obj[key], &name); err != nil {
			return nil, &grapherrors.InvalidQuery{Reason: "$field must be a string", Offending: string(raw)}
		}
		return graphast.Field{Name: name}, nil
	case "$strVal":
		var s string
		if err := json.Unmarshal(obj[key], &s); err != nil {
			return nil, &grapherrors.InvalidQuery{Reason: "$strVal must be a string", Offending: string(raw)}
		}
		return graphast.StringValue{Value: s}, nil
	case "$numVal":
		var n float64
		if err := json.Unmarshal(obj[key], &n); err != nil {
			return nil, &grapherrors.InvalidQuery{Reason: "$numVal must be a number", Offending: string(raw)}
		}
		return graphast.NumberValue{Value: n}, nil
	case "$boolean":
		var b bool
		if err := json.Unmarshal(obj[key], &b); err != nil {
			return nil, &grapherrors.InvalidQuery{Reason: "$boolean must be a bool", Offending: string(raw)}
		}
		return graphast.BooleanValue{Value: b}, nil
	default:
		return nil, &grapherrors.InvalidQuery{Reason: "unreachable value key " + key, Offending: string(raw)}
	}
}
