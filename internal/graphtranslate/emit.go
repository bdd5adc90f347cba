package graphtranslate

import (
	"strings"

	"github.com/basyx-graph/query-compiler/internal/grapherrors"
	"github.com/basyx-graph/query-compiler/internal/graphast"
	"github.com/basyx-graph/query-compiler/internal/graphparser"
	"github.com/basyx-graph/query-compiler/internal/graphschema"
)

// Translate is the top-level entry point: P(json) -> AST -> CL -> E ->
// string, per §2's control-flow line. It builds one fresh Context per
// call; nothing here escapes the call or is shared across translations.
func Translate(queryJSON []byte) (string, error) {
	cond, err := graphparser.Parse(queryJSON)
	if err != nil {
		return "", err
	}

	ctx := newContext()

	expr := liftRootLiterals(ctx, cond.Expr)

	where, err := lowerExpression(ctx, expr, nil)
	if err != nil {
		return "", err
	}

	// A lifted literal lives only in its root's node pattern, so emit that
	// pattern even when no remaining operand reached the root.
	for _, root := range []struct{ family, label, key string }{
		{"aas", graphschema.LabelAssetAdministrationShell, "$aas"},
		{"sm", graphschema.LabelSubmodel, "$sm"},
		{"cd", graphschema.LabelConceptDescription, "$cd"},
	} {
		if _, lifted := ctx.inlineRootProps[root.key]; lifted {
			ctx.resolveSingletonRoot(root.family, root.label, root.key)
		}
	}

	return emit(ctx, where)
}

func emit(ctx *Context, where string) (string, error) {
	if len(ctx.fragments) == 0 {
		return "", &grapherrors.Unsupported{Reason: "query resolves to no MATCH fragment"}
	}
	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(strings.Join(ctx.fragments, ",\n      "))
	b.WriteString("\nWHERE ")
	b.WriteString(where)
	b.WriteString("\nRETURN ")
	b.WriteString(ctx.returnVar)
	return b.String(), nil
}

// liftRootLiterals implements §8 scenario 4: a top-level equality on a
// singleton root's own idShort ("$aas#idShort", "$sm#idShort",
// "$cd#idShort") is folded into that root's node pattern instead of the
// WHERE clause. Only direct operands of a top-level And are considered —
// the documented shape of the scenario — leaving nested And/Or/Not/Match
// untouched.
func liftRootLiterals(ctx *Context, expr graphast.Expression) graphast.Expression {
	and, ok := expr.(graphast.And)
	if !ok {
		return expr
	}

	kept := make([]graphast.Expression, 0, len(and.Operands))
	for _, op := range and.Operands {
		if key, literal, ok := rootIDShortEquality(op); ok {
			ctx.inlineRootProps[key] = literal
			continue
		}
		kept = append(kept, op)
	}

	if len(kept) == len(and.Operands) {
		return expr
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return graphast.And{Operands: kept}
}

var rootIDShortPaths = map[string]string{
	"$aas#idShort": "$aas",
	"$sm#idShort":  "$sm",
	"$cd#idShort":  "$cd",
}

func rootIDShortEquality(e graphast.Expression) (key, literal string, ok bool) {
	cmp, isCompare := e.(graphast.BinaryCompare)
	if !isCompare || cmp.Op != graphast.OpEq {
		return "", "", false
	}
	if k, v, found := rootIDShortPair(cmp.Left, cmp.Right); found {
		return k, v, true
	}
	return rootIDShortPair(cmp.Right, cmp.Left)
}

func rootIDShortPair(maybeField, maybeLiteral graphast.Value) (key, literal string, ok bool) {
	field, isField := maybeField.(graphast.Field)
	if !isField {
		return "", "", false
	}
	root, found := rootIDShortPaths[field.Name]
	if !found {
		return "", "", false
	}
	str, isString := maybeLiteral.(graphast.StringValue)
	if !isString {
		return "", "", false
	}
	return root, quoteString(str.Value), true
}
