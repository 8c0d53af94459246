package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("mrp-test", false, &buf)
	t.Cleanup(func() { Logger = zerolog.Nop() })

	Info(context.Background()).Int("part_id", 3).Msg("part planned")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mrp-test", entry["service"])
	assert.Equal(t, "part planned", entry["message"])
	assert.Equal(t, float64(3), entry["part_id"])
	assert.NotContains(t, entry, "trace_id")
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetLevel("WARN")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetLevel("chatty")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
