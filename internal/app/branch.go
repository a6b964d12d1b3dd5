package app

import (
	"fmt"
	"regexp"
	"strings"
)

// bumpBranchName generates the working branch name for a bump.
// Format: bump-{name}-{version}, slugged for ref safety.
func bumpBranchName(name, version string) string {
	return fmt.Sprintf("bump-%s-%s", refSlug(name), refSlug(version))
}

var refUnsafeRe = regexp.MustCompile(`[^a-zA-Z0-9.@_-]+`)

// refSlug strips characters git refuses in ref names.
func refSlug(s string) string {
	s = refUnsafeRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-.")
}
