// Package graphtranslate implements the Alias Registry, Match Builder,
// Condition Lowerer, and Emitter, wired together by a single top-level
// Translate entry point. All mutable state lives in a *Context created
// fresh per call; nothing here is package-level mutable state, so two
// concurrent translations never interfere.
//
// Grounded on original_source/aas_mapping/aas_neo4j_adapter/querification/
// ast_to_cypher.py's converter()/_convert_root()/_convert_sme()/
// _convert_attribute_elements(), and on a fluent SelectBuilder's
// fragment-accumulation-with-dedup shape.
package graphtranslate

import (
	"fmt"
	"strings"
)

// Context is the TranslationContext of §3: the alias map, per-family
// counters, the ordered deduplicated MATCH fragment list, and the chosen
// return variable. Built fresh by Translate and discarded after emission.
type Context struct {
	aliases     map[string]string
	counters    map[string]int
	fragments   []string
	fragmentSet map[string]bool
	returnVar   string
	nextAnon    int

	// inlineRootProps holds idShort literals folded into a singleton
	// root's node pattern instead of the WHERE clause (§8 scenario 4:
	// "Identifiable filter lifted into MATCH"). Keyed by root token
	// ("$aas", "$sm", "$cd"); populated by liftRootLiterals before
	// lowering begins.
	inlineRootProps map[string]string
}

func newContext() *Context {
	return &Context{
		aliases:         make(map[string]string),
		counters:        make(map[string]int),
		fragmentSet:     make(map[string]bool),
		inlineRootProps: make(map[string]string),
	}
}

func (c *Context) nextAlias(family string) string {
	n := c.counters[family]
	c.counters[family] = n + 1
	return fmt.Sprintf("%s%d", family, n)
}

// aliasForKey returns the variable bound to canonicalKey, allocating one
// from family's counter if this is the first time the key is seen.
func (c *Context) aliasForKey(family, canonicalKey string) (alias string, isNew bool) {
	if a, ok := c.aliases[canonicalKey]; ok {
		return a, false
	}
	a := c.nextAlias(family)
	c.aliases[canonicalKey] = a
	return a, true
}

// freshAlias allocates a variable that is never looked up again by key —
// used for array-all segments outside a $match correlation, where each
// occurrence denotes an independent element (§4.6).
func (c *Context) freshAlias(family string) string {
	return c.nextAlias(family)
}

// normalizeFragment collapses whitespace and unifies quote style so that
// fragments differing only in formatting compare equal, per the MB
// dedup invariant (§4.5: "deduplication is by exact string equality after
// normalization").
func normalizeFragment(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, `"`, `'`)
	return s
}

// addFragment appends fragment to the MATCH section if an equal (after
// normalization) fragment has not already been added. The alias of the
// very first fragment ever added becomes the return variable.
func (c *Context) addFragment(fragment, rootAlias string) {
	key := normalizeFragment(fragment)
	if c.fragmentSet[key] {
		return
	}
	c.fragmentSet[key] = true
	c.fragments = append(c.fragments, fragment)
	if c.returnVar == "" {
		c.returnVar = rootAlias
	}
}

// rootNodeText renders a root node pattern, folding in an inline idShort
// literal if liftRootLiterals registered one for key.
func (c *Context) rootNodeText(alias, label, key string) string {
	if v, ok := c.inlineRootProps[key]; ok {
		return fmt.Sprintf("(%s:%s {idShort: %s})", alias, label, v)
	}
	return fmt.Sprintf("(%s:%s)", alias, label)
}

// resolveSingletonRoot returns the alias bound to one of the three
// singleton roots ($aas, $sm, $cd), emitting its standalone node pattern
// the first time it is reached.
func (c *Context) resolveSingletonRoot(family, label, key string) string {
	alias, isNew := c.aliasForKey(family, key)
	if isNew {
		c.addFragment(c.rootNodeText(alias, label, key), alias)
	}
	return alias
}

// rootAliasOnly allocates or returns the alias bound to key without
// emitting a standalone fragment — used when the root is about to be
// chained into a larger fragment by the caller (the $sme SubmodelElement
// chain, which embeds the root's node text as its own opening segment).
func (c *Context) rootAliasOnly(family, key string) string {
	alias, _ := c.aliasForKey(family, key)
	return alias
}
