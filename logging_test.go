package airtable_timeline

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	defer SetupLogging(LogConfig{Level: "info"})

	buf := &bytes.Buffer{}
	SetupLogging(LogConfig{Level: "warn", Output: buf})

	logger := NewLogger("test-component")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")

	output := buf.String()
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, `"component":"test-component"`)
}

func TestNormalize_LogsMalformedFieldsAtDebug(t *testing.T) {
	defer SetupLogging(LogConfig{Level: "info"})

	buf := &bytes.Buffer{}
	SetupLogging(LogConfig{Level: "debug", Output: buf})

	Normalize(RawRecord{ID: "rec7", Fields: map[string]any{"Image": "not a list"}})

	assert.Contains(t, buf.String(), `"record":"rec7"`)
	assert.Contains(t, buf.String(), `"field":"Image"`)
}
