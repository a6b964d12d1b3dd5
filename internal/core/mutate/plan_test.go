package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/core/resolve"
	"github.com/example/recipebump/internal/models"
)

const (
	oldSha  = "5726bb8bc5ca0f6dc7110f6416e4bb7019e2d2ff5bf93d1ca2ffcc6656f220e5"
	newSha  = "be423a4f5b7e0177dd65b986fa9e5fe49a358a795a30fd60aedfb243a1d876a1"
	develSha = "0e1e09a110c834b960a6fb2a6ab8b2ae8b4d23e2ffd785998b0d149d1a972144"
)

const declText = `recipe "wget" do
  homepage "https://www.gnu.org/software/wget/"
  url "https://ftp.gnu.org/gnu/wget/wget-1.21.3.tar.gz"
  mirror "https://ftpmirror.gnu.org/wget/wget-1.21.3.tar.gz"
  sha256 "` + oldSha + `"
  revision 2

  devel do
    url "https://ftp.gnu.org/gnu/wget/wget-1.22-beta1.tar.gz"
    sha256 "` + develSha + `"
    version "1.22-beta1"
  end
end
`

func stableSpec() *models.Spec {
	return &models.Spec{
		Kind:            models.SpecStable,
		URL:             "https://ftp.gnu.org/gnu/wget/wget-1.21.3.tar.gz",
		Sha256:          oldSha,
		Mirrors:         []string{"https://ftpmirror.gnu.org/wget/wget-1.21.3.tar.gz"},
		Version:         "1.21.3",
		PackageRevision: 2,
	}
}

func develSpec() *models.Spec {
	return &models.Spec{
		Kind:            models.SpecDevel,
		URL:             "https://ftp.gnu.org/gnu/wget/wget-1.22-beta1.tar.gz",
		Sha256:          develSha,
		Version:         "1.22-beta1",
		VersionOverride: "1.22-beta1",
	}
}

func stableDecision() resolve.Decision {
	return resolve.Decision{
		Style:  models.StyleURLHash,
		URL:    "https://ftp.gnu.org/gnu/wget/wget-1.21.4.tar.gz",
		Sha256: newSha,
		Mirror: "https://ftpmirror.gnu.org/wget/wget-1.21.4.tar.gz",
	}
}

func TestBuildStableBump(t *testing.T) {
	plan, err := Build(Input{Spec: stableSpec(), Decision: stableDecision()})
	require.NoError(t, err)

	// revision removal, mirror removal, url, sha256, mirror insertion
	require.Equal(t, 5, plan.Len())

	result, err := Apply(declText, plan)
	require.NoError(t, err)

	assert.Contains(t, result.Text, `url "https://ftp.gnu.org/gnu/wget/wget-1.21.4.tar.gz"`)
	assert.Contains(t, result.Text, `mirror "https://ftpmirror.gnu.org/wget/wget-1.21.4.tar.gz"`)
	assert.Contains(t, result.Text, newSha)
	assert.NotContains(t, result.Text, "wget-1.21.3.tar.gz")
	assert.NotContains(t, result.Text, oldSha)
	assert.NotContains(t, result.Text, "revision 2")

	// The blank line after the revision line goes with it because the
	// devel block opener follows immediately.
	assert.Contains(t, result.Text, "\"\n  devel do\n")

	// The new mirror sits directly below the new URL line at matching
	// indentation.
	assert.Contains(t, result.Text,
		"  url \"https://ftp.gnu.org/gnu/wget/wget-1.21.4.tar.gz\"\n  mirror \"https://ftpmirror.gnu.org/wget/wget-1.21.4.tar.gz\"\n")

	// Devel block untouched.
	assert.Contains(t, result.Text, "wget-1.22-beta1.tar.gz")
	assert.Contains(t, result.Text, develSha)
}

func TestBuildDevelBumpKeepsRevisionLine(t *testing.T) {
	plan, err := Build(Input{
		Spec: develSpec(),
		Decision: resolve.Decision{
			Style:  models.StyleURLHash,
			URL:    "https://ftp.gnu.org/gnu/wget/wget-1.22-beta2.tar.gz",
			Sha256: newSha,
		},
		ForcedVersion: "1.22-beta2",
	})
	require.NoError(t, err)

	result, err := Apply(declText, plan)
	require.NoError(t, err)

	// A devel bump never deletes the stable packaging revision counter.
	assert.Contains(t, result.Text, "revision 2")
	assert.Contains(t, result.Text, "wget-1.22-beta2.tar.gz")
	assert.Contains(t, result.Text, `version "1.22-beta2"`)
	assert.NotContains(t, result.Text, "1.22-beta1")

	// Stable fields untouched.
	assert.Contains(t, result.Text, "wget-1.21.3.tar.gz")
	assert.Contains(t, result.Text, oldSha)
}

func TestBuildTagRevisionBump(t *testing.T) {
	text := `recipe "gitpick" do
  url "https://example.com/gitpick.git", tag: "v0.9.1", revision: "f5c0b1aee171ba23762e05cfb7076cf978e0ee04"
end
`
	spec := &models.Spec{
		Kind:     models.SpecStable,
		URL:      "https://example.com/gitpick.git",
		Tag:      "v0.9.1",
		Revision: "f5c0b1aee171ba23762e05cfb7076cf978e0ee04",
		Version:  "0.9.1",
	}
	plan, err := Build(Input{
		Spec: spec,
		Decision: resolve.Decision{
			Style:    models.StyleTagRevision,
			Tag:      "v0.10.0",
			Revision: "89eae3e314c68620abac90b0a92a5cbeb2cea10f",
		},
	})
	require.NoError(t, err)

	result, err := Apply(text, plan)
	require.NoError(t, err)

	assert.Contains(t, result.Text, `tag: "v0.10.0"`)
	assert.Contains(t, result.Text, `revision: "89eae3e314c68620abac90b0a92a5cbeb2cea10f"`)
	assert.NotContains(t, result.Text, "v0.9.1")
	assert.NotContains(t, result.Text, "f5c0b1aee171ba23762e05cfb7076cf978e0ee04")
}

func TestBuildForcedVersionReplacesExistingOverride(t *testing.T) {
	text := `recipe "tool" do
  url "https://example.com/tool-20240101.tar.gz"
  sha256 "` + oldSha + `"
  version "1.4.0"
end
`
	spec := &models.Spec{
		Kind:            models.SpecStable,
		URL:             "https://example.com/tool-20240101.tar.gz",
		Sha256:          oldSha,
		Version:         "1.4.0",
		VersionOverride: "1.4.0",
	}
	plan, err := Build(Input{
		Spec: spec,
		Decision: resolve.Decision{
			Style:  models.StyleURLHash,
			URL:    "https://example.com/tool-20240301.tar.gz",
			Sha256: newSha,
		},
		ForcedVersion: "1.5.0",
	})
	require.NoError(t, err)

	result, err := Apply(text, plan)
	require.NoError(t, err)
	assert.Contains(t, result.Text, `version "1.5.0"`)
	assert.NotContains(t, result.Text, `version "1.4.0"`)
}

func TestBuildForcedVersionInsertsAfterURL(t *testing.T) {
	text := `recipe "tool" do
  url "https://example.com/tool-20240101.tar.gz"
  sha256 "` + oldSha + `"
end
`
	spec := &models.Spec{
		Kind:    models.SpecStable,
		URL:     "https://example.com/tool-20240101.tar.gz",
		Sha256:  oldSha,
		Version: "20240101",
	}
	plan, err := Build(Input{
		Spec: spec,
		Decision: resolve.Decision{
			Style:  models.StyleURLHash,
			URL:    "https://example.com/tool-20240301.tar.gz",
			Sha256: newSha,
		},
		ForcedVersion: "20240301",
	})
	require.NoError(t, err)

	result, err := Apply(text, plan)
	require.NoError(t, err)
	assert.Contains(t, result.Text,
		"  url \"https://example.com/tool-20240301.tar.gz\"\n  version \"20240301\"\n")
}

func TestBuildForcedVersionInsertsAfterMirror(t *testing.T) {
	text := `recipe "tool" do
  url "https://ftp.gnu.org/gnu/tool/tool-20240101.tar.gz"
  sha256 "` + oldSha + `"
end
`
	spec := &models.Spec{
		Kind:    models.SpecStable,
		URL:     "https://ftp.gnu.org/gnu/tool/tool-20240101.tar.gz",
		Sha256:  oldSha,
		Version: "20240101",
	}
	plan, err := Build(Input{
		Spec: spec,
		Decision: resolve.Decision{
			Style:  models.StyleURLHash,
			URL:    "https://ftp.gnu.org/gnu/tool/tool-20240301.tar.gz",
			Sha256: newSha,
			Mirror: "https://ftpmirror.gnu.org/tool/tool-20240301.tar.gz",
		},
		ForcedVersion: "20240301",
	})
	require.NoError(t, err)

	result, err := Apply(text, plan)
	require.NoError(t, err)
	assert.Contains(t, result.Text,
		"  mirror \"https://ftpmirror.gnu.org/tool/tool-20240301.tar.gz\"\n  version \"20240301\"\n")
}

func TestBuildSentinelRemovesOverride(t *testing.T) {
	text := `recipe "tool" do
  url "https://example.com/tool-2.0.tar.gz"
  sha256 "` + oldSha + `"
  version "2.0.1"

  devel do
    url "https://example.com/tool-2.1-beta1.tar.gz"
    sha256 "` + develSha + `"
    version "2.1-beta1"
  end
end
`
	spec := &models.Spec{
		Kind:            models.SpecStable,
		URL:             "https://example.com/tool-2.0.tar.gz",
		Sha256:          oldSha,
		Version:         "2.0.1",
		VersionOverride: "2.0.1",
	}
	plan, err := Build(Input{
		Spec: spec,
		Decision: resolve.Decision{
			Style:  models.StyleURLHash,
			URL:    "https://example.com/tool-2.1.tar.gz",
			Sha256: newSha,
		},
		ForcedVersion: "0",
	})
	require.NoError(t, err)

	result, err := Apply(text, plan)
	require.NoError(t, err)
	assert.NotContains(t, result.Text, `version "2.0.1"`)
	// The devel override is out of scope for a stable removal.
	assert.Contains(t, result.Text, `version "2.1-beta1"`)
}

func TestBuildSentinelRemovesDevelOverride(t *testing.T) {
	text := `recipe "tool" do
  url "https://example.com/tool-2.0.tar.gz"
  sha256 "` + oldSha + `"
  version "2.0.1"

  devel do
    url "https://example.com/tool-2.1-beta1.tar.gz"
    sha256 "` + develSha + `"
    version "2.1-beta1"
  end
end
`
	spec := &models.Spec{
		Kind:            models.SpecDevel,
		URL:             "https://example.com/tool-2.1-beta1.tar.gz",
		Sha256:          develSha,
		Version:         "2.1-beta1",
		VersionOverride: "2.1-beta1",
	}
	plan, err := Build(Input{
		Spec: spec,
		Decision: resolve.Decision{
			Style:  models.StyleURLHash,
			URL:    "https://example.com/tool-2.1-beta2.tar.gz",
			Sha256: newSha,
		},
		ForcedVersion: "0",
	})
	require.NoError(t, err)

	result, err := Apply(text, plan)
	require.NoError(t, err)
	assert.NotContains(t, result.Text, `version "2.1-beta1"`)
	// The stable override is out of scope for a devel removal.
	assert.Contains(t, result.Text, `version "2.0.1"`)
}

func TestBuildRejectsEmptyMatchValue(t *testing.T) {
	spec := stableSpec()
	spec.Sha256 = ""

	_, err := Build(Input{Spec: spec, Decision: stableDecision()})
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindPlan))

	tagSpec := &models.Spec{Kind: models.SpecStable, URL: "https://example.com/x.git", Revision: "abcd"}
	_, err = Build(Input{Spec: tagSpec, Decision: resolve.Decision{
		Style: models.StyleTagRevision, Tag: "v2", Revision: "ef01",
	}})
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindPlan))
}
