// Package filesystem contains the filesystem-based declaration store.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store implements secondary.RecipeStore for a declaration file on disk.
type Store struct {
	path string
}

// NewStore creates a store for the declaration at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the declaration's filesystem location.
func (s *Store) Path() string { return s.path }

// Read returns the declaration text.
func (s *Store) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read declaration: %w", err)
	}
	return string(data), nil
}

// AtomicWrite replaces the declaration content as a whole file: the new
// text is written to a temporary file in the same directory, fsynced, then
// renamed over the original. A failure at any step leaves the prior
// content unchanged.
func (s *Store) AtomicWrite(_ context.Context, text string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Preserve the original file mode when possible.
	if info, err := os.Stat(s.path); err == nil {
		_ = os.Chmod(tmpName, info.Mode())
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace declaration: %w", err)
	}
	return nil
}

// Aliases lists version-qualified alias names for this declaration. The
// store layout keeps aliases as symlinks in an Aliases directory next to
// the declaration's parent directory, each pointing back at the recipe
// file.
func (s *Store) Aliases(_ context.Context) ([]string, error) {
	aliasDir := filepath.Join(filepath.Dir(s.path), "..", "Aliases")
	entries, err := os.ReadDir(aliasDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}

	base := filepath.Base(s.path)
	var aliases []string
	for _, e := range entries {
		if e.Type()&os.ModeSymlink == 0 {
			continue
		}
		target, err := os.Readlink(filepath.Join(aliasDir, e.Name()))
		if err != nil {
			continue
		}
		if filepath.Base(target) == base {
			aliases = append(aliases, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	return aliases, nil
}
