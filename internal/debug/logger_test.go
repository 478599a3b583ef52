package debug

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	assert.True(t, Enabled())
	Debug("param renamed", "from", "p0", "to", "p1")
	assert.Contains(t, buf.String(), "param renamed")
	assert.Contains(t, buf.String(), "to=p1")

	SetLogger(nil)
	buf.Reset()
	Debug("dropped")
	assert.False(t, Enabled())
	assert.Empty(t, buf.String())
}
