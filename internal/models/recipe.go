// Package models contains domain types for recipebump entities.
package models

// SpecKind selects which source description of a declaration is bumped.
type SpecKind string

// Spec kind constants
const (
	SpecStable SpecKind = "stable"
	SpecDevel  SpecKind = "devel"
)

// SourceStyle is the declaration's source addressing style. The two styles
// are mutually exclusive and never convertible within one bump.
type SourceStyle string

// Source style constants
const (
	StyleURLHash     SourceStyle = "url-hash"
	StyleTagRevision SourceStyle = "tag-revision"
)

// Declaration identifies a named build recipe on disk together with the
// field snapshots of its specs. It is loaded read-only at pipeline start.
type Declaration struct {
	Name   string
	Path   string
	Stable *Spec
	Devel  *Spec
}

// Spec is one source description of a declaration: either URL+checksum
// (plus optional mirrors) or tag+revision, never both.
type Spec struct {
	Kind     SpecKind
	URL      string
	Sha256   string
	Mirrors  []string
	Tag      string
	Revision string // VCS revision, not the packaging counter

	// Version is the derived semantic version string for this spec.
	Version string
	// VersionOverride is a literal version declared in the recipe text,
	// present only when the derived version needed correcting.
	VersionOverride string

	// PackageRevision is the packaging-only bump counter. Zero means the
	// recipe carries no revision line.
	PackageRevision int
}

// Spec returns the spec of the requested kind, or nil when the declaration
// does not carry one.
func (d *Declaration) Spec(kind SpecKind) *Spec {
	if kind == SpecDevel {
		return d.Devel
	}
	return d.Stable
}

// Style reports the spec's source addressing style.
func (s *Spec) Style() SourceStyle {
	if s.Tag != "" || s.Sha256 == "" {
		return StyleTagRevision
	}
	return StyleURLHash
}

// AliasRename is a proposed rename of a version-qualified alias. Old and new
// share a base name and differ only in the trailing numeric version suffix.
type AliasRename struct {
	Old string
	New string
}

// Proposal is the outcome of a created change proposal on the code host.
type Proposal struct {
	Title string
	URL   string
}
