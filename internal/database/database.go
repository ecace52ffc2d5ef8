// Package database connects to the MongoDB document store.
//
// It handles:
//   - building client options from config
//   - wiring command logging for local development
//   - optional New Relic instrumentation (nrmongo)
//   - the startup ping that decides whether the store is usable
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/hms-backend/internal/config"
	loggerConfig "github.com/deppfellow/hms-backend/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the MongoDB client and the handle to the configured
// database.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// New connects to MongoDB and pings it.
//
// A nil Database and an error are returned when the connection cannot be
// established; callers are expected to keep running without a store.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	if !cfg.Database.Configured() {
		return nil, fmt.Errorf("database uri is not configured")
	}

	timeout := time.Duration(cfg.Database.ConnectTimeout) * time.Second

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName(cfg.Observability.ServiceName)

	var monitor *event.CommandMonitor

	// Command logging is very noisy, so only in local.
	if cfg.Primary.Env == "local" {
		storeLogger := loggerConfig.NewStoreLogger(logger.GetLevel())
		monitor = commandLogger(&storeLogger, cfg.Observability.Logging.SlowQueryThreshold)
	}

	// nrmongo wraps the local monitor when both are present.
	if loggerService != nil && loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	if monitor != nil {
		opts.SetMonitor(monitor)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("database", cfg.Database.Name).Msg("connected to the database")

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Database.Name),
		log:    logger,
	}, nil
}

// Name returns the database name.
func (db *Database) Name() string {
	return db.DB.Name()
}

// Ping checks the server is still reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Msg("closing database connection")
	return db.Client.Disconnect(ctx)
}

// commandLogger logs every driver command, promoting commands slower than
// slow to warn level.
func commandLogger(log *zerolog.Logger, slow time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			log.Trace().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Msg("mongo command started")
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			e := log.Debug()
			if slow > 0 && evt.Duration >= slow {
				e = log.Warn().Bool("slow", true)
			}
			e.Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Msg("mongo command finished")
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Error().
				Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}
