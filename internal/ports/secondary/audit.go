package secondary

import "context"

// Auditor runs the external audit pass over a declaration file and reports
// pass/fail. The audit tool's output is carried in the returned error.
type Auditor interface {
	Audit(ctx context.Context, declarationPath string, strict bool) error
}
