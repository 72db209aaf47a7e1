package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := NewWithWriter(Config{
		Level:       "info",
		Format:      "json",
		Env:         "prod",
		ServiceName: "directory-test",
		Fields:      map[string]string{"region": "ap-south-1"},
	}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "directory-test", entry["service"])
	assert.Equal(t, "prod", entry["env"])
	assert.Equal(t, "ap-south-1", entry["region"])
}

func TestNewWithWriter_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := NewWithWriter(Config{}, &buf)
	require.NoError(t, err)

	log.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "employee-directory", entry["service"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithWriter_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown env", cfg: Config{Env: "qa"}},
		{name: "unknown level", cfg: Config{Level: "loud"}},
		{name: "unknown format", cfg: Config{Format: "xml"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewWithWriter(tt.cfg, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}
