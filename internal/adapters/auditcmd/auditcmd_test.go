package auditcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/recipebump/internal/bumperr"
)

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner("")
	assert.Equal(t, DefaultCommand, r.command)
	assert.Empty(t, r.args)

	r = NewRunner("mytool check --fix=never")
	assert.Equal(t, "mytool", r.command)
	assert.Equal(t, []string{"check", "--fix=never"}, r.args)
}

func TestAuditPass(t *testing.T) {
	r := NewRunner("true")
	assert.NoError(t, r.Audit(context.Background(), "/tmp/decl.rcp", false))
}

func TestAuditFail(t *testing.T) {
	r := NewRunner("false")
	err := r.Audit(context.Background(), "/tmp/decl.rcp", true)
	require.Error(t, err)
	assert.True(t, bumperr.IsKind(err, bumperr.KindAudit))
}
