package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/visibility"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "warn", Format: "text"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "scene", "room")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "scene=room")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	logger.Debug("computed", "vertices", 4)
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "computed", record["msg"])
	assert.Equal(t, float64(4), record["vertices"])
}

func TestNewInvalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, config.LogConfig{Level: "loud", Format: "text"})
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestSetupRoutesVisibilityAtDebug(t *testing.T) {
	previous := slog.Default()
	defer func() {
		slog.SetDefault(previous)
		visibility.SetLogger(nil)
	}()

	var buf bytes.Buffer
	_, err := Setup(&buf, config.LogConfig{Level: "debug", Format: "text"})
	require.NoError(t, err)

	visibility.Compute(visibility.Point{}, nil)
	assert.Contains(t, buf.String(), "component=visibility")

	buf.Reset()
	_, err = Setup(&buf, config.LogConfig{Level: "info", Format: "text"})
	require.NoError(t, err)
	visibility.Compute(visibility.Point{}, nil)
	assert.Empty(t, buf.String())
}
