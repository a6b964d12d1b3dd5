package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/recipebump/internal/core/recipe"
)

func TestRenamePrecisionMatching(t *testing.T) {
	tests := []struct {
		name       string
		aliases    []string
		newVersion string
		wantOld    string
		wantNew    string
	}{
		{
			name:       "major-only alias stays major-only",
			aliases:    []string{"foo@2"},
			newVersion: "3.5.2",
			wantOld:    "foo@2",
			wantNew:    "foo@3",
		},
		{
			name:       "major.minor alias stays major.minor",
			aliases:    []string{"foo@2.1"},
			newVersion: "3.5.2",
			wantOld:    "foo@2.1",
			wantNew:    "foo@3.5",
		},
		{
			name:       "minor bump at major.minor precision",
			aliases:    []string{"foo@2.1"},
			newVersion: "2.2.0",
			wantOld:    "foo@2.1",
			wantNew:    "foo@2.2",
		},
		{
			name:       "unversioned aliases are skipped",
			aliases:    []string{"foo-classic", "foo@2"},
			newVersion: "3.0.0",
			wantOld:    "foo@2",
			wantNew:    "foo@3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rename(tt.aliases, recipe.MustVersion(tt.newVersion))
			require.NotNil(t, r)
			assert.Equal(t, tt.wantOld, r.Old)
			assert.Equal(t, tt.wantNew, r.New)
		})
	}
}

func TestRenameNoProposal(t *testing.T) {
	tests := []struct {
		name       string
		aliases    []string
		newVersion string
	}{
		{name: "downgrade at matching precision", aliases: []string{"foo@2.1"}, newVersion: "2.0.9"},
		{name: "equal at matching precision", aliases: []string{"foo@2.1"}, newVersion: "2.1.7"},
		{name: "equal major-only", aliases: []string{"foo@3"}, newVersion: "3.9.1"},
		{name: "no versioned alias", aliases: []string{"foo-classic", "foo-legacy"}, newVersion: "9.0.0"},
		{name: "no aliases", aliases: nil, newVersion: "9.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Rename(tt.aliases, recipe.MustVersion(tt.newVersion)))
		})
	}
}

func TestRenameSingleAliasPolicy(t *testing.T) {
	// Only the first versioned alias is considered, by design.
	r := Rename([]string{"foo@2", "foo@2.1"}, recipe.MustVersion("3.0.0"))
	require.NotNil(t, r)
	assert.Equal(t, "foo@2", r.Old)
	assert.Equal(t, "foo@3", r.New)
}
