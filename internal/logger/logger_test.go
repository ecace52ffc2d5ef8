package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/hms-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "info"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("collection", "appointment").Msg("stored")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "stored", line["message"])
	assert.Equal(t, "hms-backend", line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.Equal(t, "appointment", line["collection"])
}

func TestNewLogger_LevelFromConfig(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Msg("dropped")

	assert.Zero(t, buf.Len())
}

func TestLoggerService_WithoutLicense(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, svc.GetApplication())
	svc.Shutdown()
}
