package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, "warn")
	logger.Info("dropped")
	logger.Warn("entity created", "entity", "order")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "entity created", line["msg"])
	assert.Equal(t, "order", line["entity"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	NewText(&buf, "info", true).Info("relation created", "relation", "customer_orders")
	assert.Contains(t, buf.String(), "relation created")
	assert.Contains(t, buf.String(), "relation=customer_orders")
}
