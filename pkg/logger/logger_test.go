package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults to info text", func(t *testing.T) {
		log, err := New("", "")
		require.NoError(t, err)

		assert.Equal(t, logrus.InfoLevel, log.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New("loud", FormatText)
		assert.ErrorContains(t, err, "failed to parse log level")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := New("debug", "xml")
		assert.ErrorContains(t, err, "unknown log format")
	})
}

func TestNewWithOutput(t *testing.T) {
	t.Run("json entries carry fields", func(t *testing.T) {
		var buf bytes.Buffer

		log, err := NewWithOutput(&buf, "debug", "JSON")
		require.NoError(t, err)

		log.WithField("guild", "123").Debug("Wheel spun")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Wheel spun", entry["msg"])
		assert.Equal(t, "123", entry["guild"])
		assert.Equal(t, "debug", entry["level"])
	})

	t.Run("level filters entries", func(t *testing.T) {
		var buf bytes.Buffer

		log, err := NewWithOutput(&buf, "warn", FormatText)
		require.NoError(t, err)

		log.Info("hidden")
		assert.Empty(t, buf.String())

		log.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}
