// Package alias contains the pure logic for keeping a version-qualified
// alias in step with a bumped declaration.
package alias

import (
	"regexp"
	"strings"

	"github.com/example/recipebump/internal/core/recipe"
	"github.com/example/recipebump/internal/models"
)

// versionedAliasRe matches "name@2" and "name@2.1" shapes. Deeper suffixes
// are not alias versions.
var versionedAliasRe = regexp.MustCompile(`^(.+)@(\d+(?:\.\d+)?)$`)

// Rename inspects the declaration's aliases for a version-qualified name
// and proposes a rename to the new version at the old alias's own
// precision: a one-segment suffix stays major-only, a two-segment suffix
// stays major.minor. The rename is only proposed on a strict increase;
// anything else returns nil. Only the first versioned alias is considered.
func Rename(aliases []string, newVersion recipe.Version) *models.AliasRename {
	for _, a := range aliases {
		m := versionedAliasRe.FindStringSubmatch(a)
		if m == nil {
			continue
		}
		base, oldSuffix := m[1], m[2]

		precision := strings.Count(oldSuffix, ".") + 1
		newSuffix := newVersion.Truncate(precision)
		if newSuffix == "" {
			return nil
		}

		oldV, err := recipe.ParseVersion(oldSuffix)
		if err != nil {
			return nil
		}
		newV, err := recipe.ParseVersion(newSuffix)
		if err != nil {
			return nil
		}
		if newV.Compare(oldV) <= 0 {
			return nil
		}
		return &models.AliasRename{Old: a, New: base + "@" + newSuffix}
	}
	return nil
}
