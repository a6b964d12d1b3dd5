// Package auditcmd runs the external audit tool over a rewritten
// declaration and reports pass/fail.
package auditcmd

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/example/recipebump/internal/bumperr"
)

// DefaultCommand is the audit tool invoked when the configuration does not
// name one.
const DefaultCommand = "recipeaudit"

// Runner implements secondary.Auditor as a subprocess call.
type Runner struct {
	command string
	args    []string
}

// NewRunner creates an audit runner for the configured command line. An
// empty command falls back to DefaultCommand.
func NewRunner(commandLine string) *Runner {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		fields = []string{DefaultCommand}
	}
	return &Runner{command: fields[0], args: fields[1:]}
}

// Audit runs the audit tool against the declaration. A non-zero exit is an
// audit failure; the tool's combined output is carried in the error.
func (r *Runner) Audit(ctx context.Context, declarationPath string, strict bool) error {
	args := append([]string{}, r.args...)
	if strict {
		args = append(args, "--strict")
	}
	args = append(args, declarationPath)

	cmd := exec.CommandContext(ctx, r.command, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			msg = err.Error()
		}
		return bumperr.Newf(bumperr.KindAudit, "audit failed:\n%s", msg)
	}
	return nil
}
