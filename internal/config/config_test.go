package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "hms", cfg.Database.Name)
	assert.False(t, cfg.Database.Configured())
	assert.False(t, cfg.RateLimit.Enabled)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "hms-backend", cfg.Observability.ServiceName)
	assert.Equal(t, cfg.Primary.Env, cfg.Observability.Environment)
}

func TestLoadConfig_PrefixedVariables(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HMS_PRIMARY__ENV", "production")
	t.Setenv("HMS_SERVER__PORT", "9100")
	t.Setenv("HMS_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("HMS_RATE_LIMIT__ENABLED", "true")
	t.Setenv("HMS_RATE_LIMIT__REQUESTS_PER_MINUTE", "5")
	t.Setenv("HMS_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, 250*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_DeploymentVariablesWin(t *testing.T) {
	t.Setenv("HMS_SERVER__PORT", "9100")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "landing")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "landing", cfg.Database.Name)
	assert.True(t, cfg.Database.Configured())
}

func TestLoadConfig_RejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HMS_OBSERVABILITY__LOGGING__LEVEL", "verbose")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "development"
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Logging.Level = "warn"
	assert.Equal(t, "warn", c.GetLogLevel())
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.True(t, c.HasCheck("database"))
	assert.True(t, c.HasCheck("redis"))

	c.HealthChecks.Checks = []string{"database"}
	assert.False(t, c.HasCheck("redis"))

	c.HealthChecks.Enabled = false
	assert.False(t, c.HasCheck("database"))
}
