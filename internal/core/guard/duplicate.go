// Package guard contains the pure pre-flight logic run before any change
// proposal is opened. Guards evaluate policy without side effects.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// Proposal is one open change proposal returned by the code-host search.
type Proposal struct {
	Title string
	URL   string
}

// Action is the guard's verdict on how the pipeline should continue.
type Action int

const (
	// Proceed continues silently.
	Proceed Action = iota
	// ProceedWarn continues but the duplicates should be listed as a warning.
	ProceedWarn
	// AbortShort stops with a one-line duplicate error, no listing.
	AbortShort
	// AbortListed stops with the full duplicate listing plus guidance.
	AbortListed
)

// Decision is the evaluated duplicate-guard outcome.
type Decision struct {
	Action     Action
	Duplicates []Proposal
}

// Aborts reports whether the decision terminates the pipeline.
func (d Decision) Aborts() bool {
	return d.Action == AbortShort || d.Action == AbortListed
}

// MatchOpenProposals filters raw search results down to genuine duplicates:
// the title must contain the declaration name as a whole word
// (case-insensitive) and the URL must be a pull-request link, not a plain
// issue.
func MatchOpenProposals(name string, results []Proposal) []Proposal {
	wordRe := regexp.MustCompile(`(?i)(^|[^a-z0-9_])` + regexp.QuoteMeta(strings.ToLower(name)) + `($|[^a-z0-9_])`)

	var dups []Proposal
	for _, r := range results {
		if !strings.Contains(r.URL, "/pull/") {
			continue
		}
		if !wordRe.MatchString(r.Title) {
			continue
		}
		dups = append(dups, r)
	}
	return dups
}

// Evaluate applies the (force, quiet) policy matrix to the matched
// duplicates:
//
//	force  & !quiet => warn with listing, proceed
//	!force &  quiet => abort short
//	!force & !quiet => abort with listing
//	force  &  quiet => proceed silently
func Evaluate(force, quiet bool, dups []Proposal) Decision {
	if len(dups) == 0 {
		return Decision{Action: Proceed}
	}
	switch {
	case force && quiet:
		return Decision{Action: Proceed, Duplicates: dups}
	case force:
		return Decision{Action: ProceedWarn, Duplicates: dups}
	case quiet:
		return Decision{Action: AbortShort, Duplicates: dups}
	default:
		return Decision{Action: AbortListed, Duplicates: dups}
	}
}

// ErrorMessage renders the abort message for a terminating decision.
func (d Decision) ErrorMessage(name string) string {
	if d.Action == AbortShort {
		return fmt.Sprintf("duplicate proposals for %s found, aborting", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "these open proposals may be duplicates:\n")
	for _, p := range d.Duplicates {
		fmt.Fprintf(&b, "  %s %s\n", p.Title, p.URL)
	}
	b.WriteString("use --force to continue anyway")
	return b.String()
}
