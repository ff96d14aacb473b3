package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "api", "warn", true)

	log.Info().Msg("dropped")
	log.Warn().Str("wallet_id", "7").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "api", line["service"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "7", line["wallet_id"])
	assert.Equal(t, "kept", line["message"])
}

func TestNewWithWriter_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "api", "nonsense", true)
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
