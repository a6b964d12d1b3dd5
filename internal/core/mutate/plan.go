package mutate

import (
	"fmt"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/core/recipe"
	"github.com/example/recipebump/internal/core/resolve"
	"github.com/example/recipebump/internal/models"
)

// Plan is an ordered sequence of replacement rules for one version bump.
// Order is load-bearing: earlier rules create or remove the text later
// rules anchor on (revision-line removal must precede mirror insertion,
// the URL substitution must precede the anchored inserts).
type Plan struct {
	rules []Rule
}

// Rules returns the rules in application order.
func (p Plan) Rules() []Rule { return p.rules }

// Len returns the number of rules in the plan.
func (p Plan) Len() int { return len(p.rules) }

// Input is everything the plan builder needs: the old spec snapshot, the
// resolver's decision, and the optional forced version ("0" means remove
// the version override).
type Input struct {
	Spec          *models.Spec
	Decision      resolve.Decision
	ForcedVersion string
}

// Build constructs the mutation plan for one bump. It is a pure function;
// any rule that would carry an empty match value aborts construction with
// a plan error.
func Build(in Input) (Plan, error) {
	b := &planBuilder{}
	spec := in.Spec
	d := in.Decision
	stable := spec.Kind != models.SpecDevel

	// 1. Packaging revision counter resets on a real version bump. The
	// trailing blank line goes too, but only when the next line opens the
	// devel block (otherwise the blank line separates unrelated fields).
	if stable && spec.PackageRevision > 0 {
		b.pattern(
			fmt.Sprintf(`(?m)^[ \t]*revision %d[ \t]*\n(?:\n([ \t]*devel do[ \t]*\n))?`, spec.PackageRevision),
			"$1",
			"remove revision line",
		)
	}

	// 2. Old mirrors point at the old version; drop their lines.
	for _, m := range spec.Mirrors {
		b.pattern(`(?m)^[ \t]*mirror "`+quote(m)+`"[ \t]*\n`, "", "remove mirror line")
	}

	// 3. Primary substitution.
	if d.Style == models.StyleTagRevision {
		b.require(spec.Tag, "replace tag")
		b.pattern(`tag:([ \t]*)"`+quote(spec.Tag)+`"`, `tag:${1}"`+tmpl(d.Tag)+`"`, "replace tag")
		b.literal(spec.Revision, d.Revision, "replace revision")
	} else {
		b.literal(spec.URL, d.URL, "replace url")
		b.literal(spec.Sha256, d.Sha256, "replace sha256")
	}

	// 4. New mirror goes immediately after the (already rewritten) URL
	// line, at matching indentation.
	if d.Mirror != "" {
		b.pattern(
			`(?m)^([ \t]*)url "`+quote(d.URL)+`"(.*)$`,
			`${1}url "`+tmpl(d.URL)+`"${2}`+"\n"+`${1}mirror "`+tmpl(d.Mirror)+`"`,
			"insert mirror line",
		)
	}

	// 5. Forced-version handling.
	b.forcedVersion(spec, d, in.ForcedVersion, stable)

	if b.err != nil {
		return Plan{}, b.err
	}
	return Plan{rules: b.rules}, nil
}

func (b *planBuilder) forcedVersion(spec *models.Spec, d resolve.Decision, forced string, stable bool) {
	if forced == "" {
		return
	}

	if forced == recipe.NoneVersion {
		// Explicit override removal.
		if stable {
			b.pattern(`(?m)^  version "[^"]+"[ \t]*\n`, "", "remove version override")
		} else {
			b.pattern(`(?s)(devel do.*?)\n[ \t]*version "[^"]+"`, "${1}", "remove devel version override")
		}
		return
	}

	if !stable {
		// Scoped to the devel block; a stable version line is never touched.
		old := `[^"]+`
		if spec.VersionOverride != "" {
			old = quote(spec.VersionOverride)
		}
		b.pattern(`(?s)(devel do.*?version ")`+old+`(")`, `${1}`+tmpl(forced)+`${2}`, "replace devel version override")
		return
	}

	switch {
	case spec.VersionOverride != "":
		// The old version appears verbatim as an override line; rewrite it
		// in place.
		b.pattern(`(?m)^(  version ")`+quote(spec.VersionOverride)+`(")`, `${1}`+tmpl(forced)+`${2}`, "replace version override")
	case d.Mirror != "":
		b.pattern(
			`(?m)^([ \t]*)(mirror "`+quote(d.Mirror)+`")[ \t]*$`,
			`${1}${2}`+"\n"+`${1}version "`+tmpl(forced)+`"`,
			"insert version override after mirror",
		)
	default:
		b.pattern(
			`(?m)^([ \t]*)(url "`+quote(d.URL)+`".*)$`,
			`${1}${2}`+"\n"+`${1}version "`+tmpl(forced)+`"`,
			"insert version override after url",
		)
	}
}

// planBuilder accumulates rules and stops at the first construction error.
type planBuilder struct {
	rules []Rule
	err   error
}

func (b *planBuilder) require(value, note string) {
	if b.err != nil {
		return
	}
	if value == "" {
		b.err = bumperr.Newf(bumperr.KindPlan, "rule %q has no match value", note)
	}
}

func (b *planBuilder) literal(match, replacement, note string) {
	if b.err != nil {
		return
	}
	r, err := Literal(match, replacement, note)
	if err != nil {
		b.err = err
		return
	}
	b.rules = append(b.rules, r)
}

func (b *planBuilder) pattern(expr, replacement, note string) {
	if b.err != nil {
		return
	}
	r, err := Pattern(expr, replacement, note)
	if err != nil {
		b.err = err
		return
	}
	b.rules = append(b.rules, r)
}
