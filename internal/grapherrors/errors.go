// Package grapherrors defines the error taxonomy of the query compiler:
// InvalidQuery (parser-level), InvalidPath (path-model level), Unsupported
// (lowering-level), and SchemaViolation (an attribute step that is
// syntactically valid but inapplicable in its context). Each carries the
// offending sub-expression serialized back, per the error handling design —
// no partial query is ever returned, and no error is swallowed.
//
// Grounded on a one-var-block-per-concern convention and a
// ParsingError{Param, Err} wrap-with-context shape, adapted to carry a
// reproducible offending-expression string rather than an HTTP status
// code, since these errors are raised deep in a pure compiler, not a
// request handler.
package grapherrors

import "fmt"

// InvalidQuery reports a parser-level failure: a missing $condition, an
// unknown or duplicated operator key, wrong operand arity, or a malformed
// Value object.
type InvalidQuery struct {
	Reason    string
	Offending string
}

func (e *InvalidQuery) Error() string {
	if e.Offending == "" {
		return fmt.Sprintf("invalid query: %s", e.Reason)
	}
	return fmt.Sprintf("invalid query: %s: %s", e.Reason, e.Offending)
}

// InvalidPath reports a Path Model failure: a missing '#', an unknown
// attribute name, a malformed list index, or an impossible root form.
type InvalidPath struct {
	Reason string
	Path   string
}

func (e *InvalidPath) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Unsupported reports a lowering-level rejection: $hexCast, $timeCast,
// both-sides-list equality, or any other construct the compiler
// deliberately declines to lower.
type Unsupported struct {
	Reason    string
	Offending string
}

func (e *Unsupported) Error() string {
	if e.Offending == "" {
		return fmt.Sprintf("unsupported: %s", e.Reason)
	}
	return fmt.Sprintf("unsupported: %s: %s", e.Reason, e.Offending)
}

// SchemaViolation reports an attribute step that parses but is
// inapplicable in its resolved context — e.g. "language" on an alias that
// is not a MultiLanguageProperty. internal/graphtranslate returns it as a
// translation error (for example a keys step on a non-Reference alias, or
// a traversal step such as externalSubjectId used as the last step), so
// no query is produced. The "language" step does not raise it: that step
// always resolves to the raw value_language property and is only logged
// at DEBUG.
type SchemaViolation struct {
	Reason string
	Alias  string
	Step   string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation on alias %q at step %q: %s", e.Alias, e.Step, e.Reason)
}
