package logx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)

	Info(l, "req-1", "projects.create", "ok", "id", 42, "slug", "my-post")
	Error(l, "req-2", "projects.create", "failed", errors.New("boom"), "odd")

	entries := logs.All()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "req-1", ctx["req_id"])
	assert.Equal(t, "projects.create", ctx["op"])
	assert.EqualValues(t, 42, ctx["id"])
	assert.Equal(t, "my-post", ctx["slug"])

	ctx = entries[1].ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "odd", ctx["extra"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}
