// Package secondary defines the secondary ports (driven adapters) for the
// bump pipeline: the declaration store, the resource fetcher, the git
// command layer, the code-host API and the audit runner. Each is a narrow
// call/response contract; all algorithmic work lives in internal/core.
package secondary

import "context"

// RecipeStore reads and atomically rewrites one declaration file. It is the
// only shared mutable resource in the pipeline.
type RecipeStore interface {
	// Path returns the declaration's filesystem location.
	Path() string

	// Read returns the declaration text.
	Read(ctx context.Context) (string, error)

	// AtomicWrite replaces the declaration's content as a whole file. It
	// either fully succeeds or leaves the prior content unchanged; a
	// partially written declaration must never be observable.
	AtomicWrite(ctx context.Context, text string) error

	// Aliases lists the declaration's alias names, if the store layout
	// carries any.
	Aliases(ctx context.Context) ([]string, error)
}
