package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)

	l.Info("IMPORT", "Import finished", map[string]interface{}{"lessons": 2})
	l.Error("IMPORT", "File failed", map[string]interface{}{"error": "boom"})
	l.Debug("IMPORT", "not written to file", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, `"message":"Import finished"`)
	assert.Contains(t, content, `"module":"IMPORT"`)
	assert.Contains(t, content, `"error_ref":"boom"`)
	assert.False(t, strings.Contains(content, "not written to file"))
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	l.Warn("X", "ignored", nil)
	assert.NoError(t, l.Sync())
}
