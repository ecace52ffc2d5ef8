package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/deppfellow/hms-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/event"
)

func TestNew_RequiresURI(t *testing.T) {
	cfg := config.Default()
	log := zerolog.Nop()

	db, err := New(cfg, &log, nil)
	require.Error(t, err)
	assert.Nil(t, db)
}

func TestCommandLogger_SlowCommandsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	monitor := commandLogger(&log, 50*time.Millisecond)

	monitor.Succeeded(context.Background(), &event.CommandSucceededEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert", Duration: 10 * time.Millisecond},
	})
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.NotContains(t, buf.String(), `"slow":true`)

	buf.Reset()
	monitor.Succeeded(context.Background(), &event.CommandSucceededEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert", Duration: time.Second},
	})
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"slow":true`)
}

func TestCommandLogger_Failed(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	commandLogger(&log, 0).Failed(context.Background(), &event.CommandFailedEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert"},
		Failure:              "E11000 duplicate key",
	})

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "E11000 duplicate key")
}
