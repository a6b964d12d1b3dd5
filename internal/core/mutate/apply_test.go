package mutate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/core/recipe"
	"github.com/example/recipebump/internal/models"
)

func TestApplyOrderSensitivity(t *testing.T) {
	plan, err := Build(Input{Spec: stableSpec(), Decision: stableDecision()})
	require.NoError(t, err)

	_, err = Apply(declText, plan)
	require.NoError(t, err)

	// The same rule set in reversed order is broken: the mirror insertion
	// anchors on the new URL line, which only exists after the URL
	// substitution has run.
	reversed := make([]Rule, plan.Len())
	for i, r := range plan.Rules() {
		reversed[plan.Len()-1-i] = r
	}
	_, err = Apply(declText, Plan{rules: reversed})
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindApply))
}

func TestApplyUnmatchedRulesFailAsBatch(t *testing.T) {
	r1, err := Literal("not-in-the-text", "x", "first missing")
	require.NoError(t, err)
	r2, err := Literal("wget", "curl", "present")
	require.NoError(t, err)
	r3, err := Literal("also-not-in-the-text", "y", "second missing")
	require.NoError(t, err)

	_, err = Apply(declText, Plan{rules: []Rule{r1, r2, r3}})
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindApply))
	assert.Contains(t, err.Error(), "2 replacement rule(s)")
	assert.Contains(t, err.Error(), "first missing")
	assert.Contains(t, err.Error(), "second missing")
}

func TestApplyMatchesAgainstMutatedBuffer(t *testing.T) {
	r1, err := Literal("alpha", "beta", "step one")
	require.NoError(t, err)
	r2, err := Literal("beta", "gamma", "step two")
	require.NoError(t, err)

	// "beta" is absent from the original text; it only exists after the
	// first rule has run.
	result, err := Apply("alpha\n", Plan{rules: []Rule{r1, r2}})
	require.NoError(t, err)
	assert.Equal(t, "gamma\n", result.Text)
}

func TestApplyCanonicalizesEncoding(t *testing.T) {
	text := "\ufeffrecipe \"x\" do\n  url \"https://example.com/x-1.0.tar.gz\"\n" + string([]byte{0xff}) + "\nend\n"

	result, err := Apply(text, Plan{})
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(result.Text, "\ufeff"))
	assert.Contains(t, result.Text, "�")
	require.Len(t, result.Notes, 2)
	assert.Contains(t, result.Notes[0], "byte order mark")
	assert.Contains(t, result.Notes[1], "invalid UTF-8")
}

func TestLiteralRejectsEmptyMatch(t *testing.T) {
	_, err := Literal("", "x", "broken")
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindPlan))
}

func TestPatternRejectsEmptyAndInvalid(t *testing.T) {
	_, err := Pattern("", "x", "broken")
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindPlan))

	_, err = Pattern("(unclosed", "x", "broken")
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindPlan))
}

func TestCheckUpgrade(t *testing.T) {
	patched := `recipe "wget" do
  url "https://ftp.gnu.org/gnu/wget/wget-1.21.4.tar.gz"
  sha256 "` + newSha + `"
end
`
	v, err := CheckUpgrade(patched, models.SpecStable, recipe.MustVersion("1.21.3"))
	require.NoError(t, err)
	assert.Equal(t, "1.21.4", v.String())
}

func TestCheckUpgradeRejectsDowngrade(t *testing.T) {
	patched := `recipe "tool" do
  url "https://example.com/tool-2.0.9.tar.gz"
  sha256 "` + newSha + `"
end
`
	_, err := CheckUpgrade(patched, models.SpecStable, recipe.MustVersion("2.1.0"))
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindRegression))
	assert.Contains(t, err.Error(), "downgrade")
}

func TestCheckUpgradeRejectsNoOp(t *testing.T) {
	patched := `recipe "tool" do
  url "https://example.com/tool-3.0.0.tar.gz"
  sha256 "` + newSha + `"
end
`
	_, err := CheckUpgrade(patched, models.SpecStable, recipe.MustVersion("3.0.0"))
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindRegression))
	assert.Contains(t, err.Error(), "identical")
}
