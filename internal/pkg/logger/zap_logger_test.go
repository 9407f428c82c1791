package logger

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("NoteController", "note created", map[string]interface{}{"id": "abc"})
	l.Warn("NoteController", "nil details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "note created", entries[0].Message)
	assert.Equal(t, "NoteController", first["module"])
	assert.Equal(t, map[string]interface{}{"id": "abc"}, first["details"])

	second := entries[1].ContextMap()
	assert.Equal(t, map[string]interface{}{}, second["details"])
}

func TestZapLoggerErrorSurfacesErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("NoteController", "store failed", map[string]interface{}{"error": errors.New("boom")})

	entries := logs.FilterField(zap.String("module", "NoteController")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestNewZapLoggerWritesFile(t *testing.T) {
	path := t.TempDir() + "/app.log"
	l := NewZapLogger(path, true)

	l.Info("Test", "hello", nil)
	_ = l.Sync() // stdout sync returns EINVAL under go test

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"module":"Test"`)
}
