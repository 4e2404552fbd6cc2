package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Str("table", "cogit_users").Msg("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "cogit_users", entry["table"])
	assert.Equal(t, "kept", entry["message"])
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	l := New(&bytes.Buffer{}, "chatty", "console")
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}
