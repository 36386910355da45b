package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFields_AttachesToEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(zap.NewNop()) })

	ctx := WithFields(context.Background(), "request_id", "abc")
	Warnf(ctx, "parsed %d rows", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "parsed 3 rows", entries[0].Message)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestWithFields_DoesNotLeakIntoParent(t *testing.T) {
	parent := WithFields(context.Background(), "a", 1)
	_ = WithFields(parent, "b", 2)

	assert.Len(t, fieldsFrom(parent), 2)
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud", false))
}
