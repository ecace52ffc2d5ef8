package server

import (
	"context"
	"testing"

	"github.com/deppfellow/hms-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutStore(t *testing.T) {
	cfg := config.Default()
	log := zerolog.Nop()

	s, err := New(cfg, &log, nil)
	require.NoError(t, err)

	assert.Nil(t, s.DB)
	assert.Nil(t, s.Redis)
	assert.NotNil(t, s.Metrics)
}

func TestStart_RequiresSetup(t *testing.T) {
	log := zerolog.Nop()
	s := &Server{Config: config.Default(), Logger: &log}

	assert.EqualError(t, s.Start(), "HTTP server not initialized")
}

func TestShutdown_WithoutResources(t *testing.T) {
	log := zerolog.Nop()
	s := &Server{Config: config.Default(), Logger: &log}

	assert.NoError(t, s.Shutdown(context.Background()))
}
