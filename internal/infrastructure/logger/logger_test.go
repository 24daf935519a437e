package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("debug", FormatJSON, &buf))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Int64("job_id", 7).Msg("claimed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "claimed", entry["message"])
	assert.Equal(t, float64(7), entry["job_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetup_AutoOnBufferIsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("info", FormatAuto, &buf))

	log.Info().Msg("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetup_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Setup("loud", FormatJSON, &buf))
	assert.Error(t, Setup("info", "xml", &buf))
}
