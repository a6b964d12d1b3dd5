// Package mutate contains the pure business logic of the formula mutation
// engine: replacement rules, ordered plan construction, buffer application,
// and the post-patch version safety check. Nothing here touches the
// filesystem; committing a patched buffer is the application layer's job.
package mutate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/recipebump/internal/bumperr"
)

type ruleKind int

const (
	kindLiteral ruleKind = iota + 1
	kindPattern
)

// Rule is one ordered text substitution: a literal match or a compiled
// pattern with capture groups, paired with a replacement template. Rules
// are built by the plan builder and applied in plan order against a single
// mutable buffer, so earlier rules may create or remove the text a later
// rule anchors on.
type Rule struct {
	kind        ruleKind
	literal     string
	pattern     *regexp.Regexp
	replacement string
	note        string
}

// Literal builds a rule replacing every occurrence of match with
// replacement. An empty match value is a plan error: it almost certainly
// means the caller derived the rule from a field that was never set.
func Literal(match, replacement, note string) (Rule, error) {
	if match == "" {
		return Rule{}, bumperr.Newf(bumperr.KindPlan, "rule %q has no match value", note)
	}
	return Rule{kind: kindLiteral, literal: match, replacement: replacement, note: note}, nil
}

// Pattern builds a rule replacing every match of expr with a template that
// may use ${n} back-references. An empty or non-compiling expression is a
// plan error.
func Pattern(expr, replacement, note string) (Rule, error) {
	if expr == "" {
		return Rule{}, bumperr.Newf(bumperr.KindPlan, "rule %q has no match pattern", note)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, bumperr.Wrap(bumperr.KindPlan, fmt.Sprintf("rule %q has an invalid pattern", note), err)
	}
	return Rule{kind: kindPattern, pattern: re, replacement: replacement, note: note}, nil
}

// Note returns the rule's human-readable description.
func (r Rule) Note() string { return r.note }

// String renders the rule for verbose pipeline tracing.
func (r Rule) String() string {
	switch r.kind {
	case kindLiteral:
		return fmt.Sprintf("%s: %q -> %q", r.note, r.literal, r.replacement)
	default:
		return fmt.Sprintf("%s: /%s/ -> %q", r.note, r.pattern, r.replacement)
	}
}

// apply runs the rule against the buffer, returning the mutated buffer.
// A buffer the rule cannot match is an application error.
func (r Rule) apply(buf string) (string, error) {
	switch r.kind {
	case kindLiteral:
		if !strings.Contains(buf, r.literal) {
			return buf, fmt.Errorf("%s: %q not found in declaration text", r.note, r.literal)
		}
		return strings.ReplaceAll(buf, r.literal, r.replacement), nil
	default:
		if !r.pattern.MatchString(buf) {
			return buf, fmt.Errorf("%s: no match for pattern in declaration text", r.note)
		}
		return r.pattern.ReplaceAllString(buf, r.replacement), nil
	}
}

// quote escapes a literal value for embedding in a rule pattern.
func quote(s string) string { return regexp.QuoteMeta(s) }

// tmpl escapes a literal value for embedding in a replacement template,
// protecting $ from back-reference expansion.
func tmpl(s string) string { return strings.ReplaceAll(s, "$", "$$") }
