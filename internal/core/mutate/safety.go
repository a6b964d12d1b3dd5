package mutate

import (
	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/core/recipe"
	"github.com/example/recipebump/internal/models"
)

// CheckUpgrade re-derives the spec's version from the patched text and
// rejects anything that is not a strict increase over the old version.
// The check deliberately runs on the patch result, not on values captured
// during planning: rules can fail to take effect exactly as intended on
// decorated declaration text, and re-derivation is the actual safety net.
func CheckUpgrade(patchedText string, kind models.SpecKind, oldVersion recipe.Version) (recipe.Version, error) {
	newVersion, err := recipe.DeriveVersion(patchedText, kind)
	if err != nil {
		return recipe.Version{}, bumperr.Wrap(bumperr.KindRegression,
			"cannot derive a version from the patched declaration", err)
	}

	switch newVersion.Compare(oldVersion) {
	case -1:
		return recipe.Version{}, bumperr.Newf(bumperr.KindRegression,
			"the bump from %s to %s would be a downgrade", oldVersion, newVersion)
	case 0:
		return recipe.Version{}, bumperr.Newf(bumperr.KindRegression,
			"old and new version are identical (%s)", newVersion)
	}
	return newVersion, nil
}
