package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories bundles the collections the tracking engine persists to.
type Repositories struct {
	Shipments *ShipmentRepository
	Timelines *TimelineRepository
}

// Open builds the repositories on db and makes sure their indexes exist.
// The unique indexes back duplicate detection, so startup fails without them.
func Open(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	repos := &Repositories{
		Shipments: NewShipmentRepository(db),
		Timelines: NewTimelineRepository(db),
	}

	indexCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := repos.Shipments.EnsureIndexes(indexCtx); err != nil {
		return nil, fmt.Errorf("shipment indexes: %w", err)
	}
	if err := repos.Timelines.EnsureIndexes(indexCtx); err != nil {
		return nil, fmt.Errorf("timeline indexes: %w", err)
	}
	return repos, nil
}

// Ping reports whether the deployment answers; used by the readiness probe.
func Ping(db *mongo.Database) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}
}
