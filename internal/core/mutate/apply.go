package mutate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/recipebump/internal/bumperr"
)

// Result is the outcome of applying a plan to declaration text.
type Result struct {
	// Text is the fully patched buffer in canonical encoding.
	Text string
	// Notes lists structural fixes made while canonicalizing the source
	// encoding (BOM removal, invalid byte scrubbing). Preview callers
	// display these; they are not errors.
	Notes []string
}

// Apply executes the plan's rules strictly in order against one mutable
// buffer. Each rule matches against the buffer as mutated by prior rules.
// Unmatched rules are collected and the whole apply fails as a batch: a
// mutation with any unmatched rule is unsafe to commit. The buffer is
// canonicalized to UTF-8 before any matching and stays canonical on return.
func Apply(text string, plan Plan) (Result, error) {
	buf, notes := Canonicalize(text)

	var failures []error
	for _, rule := range plan.Rules() {
		next, err := rule.apply(buf)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		buf = next
	}
	if len(failures) > 0 {
		return Result{}, bumperr.Wrap(bumperr.KindApply,
			fmt.Sprintf("%d replacement rule(s) did not take effect", len(failures)),
			errors.Join(failures...))
	}

	return Result{Text: buf, Notes: notes}, nil
}

// Canonicalize normalizes declaration text to plain UTF-8 without a byte
// order mark. Invalid byte sequences are replaced with U+FFFD; every fix
// is reported as a note.
func Canonicalize(text string) (string, []string) {
	var notes []string

	if strings.HasPrefix(text, "\ufeff") {
		text = strings.TrimPrefix(text, "\ufeff")
		notes = append(notes, "removed UTF-8 byte order mark")
	}

	if !utf8.ValidString(text) {
		invalid := 0
		var b strings.Builder
		b.Grow(len(text))
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if r == utf8.RuneError && size == 1 {
				invalid++
				b.WriteRune(utf8.RuneError)
			} else {
				b.WriteString(text[i : i+size])
			}
			i += size
		}
		text = b.String()
		notes = append(notes, fmt.Sprintf("replaced %d invalid UTF-8 byte(s)", invalid))
	}

	return text, notes
}
