package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultIdleTimeout    = 45 * time.Second
	maxRetryWait          = 10 * time.Second
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	// ConnectTimeout bounds server selection on every operation, including
	// the initial ping.
	ConnectTimeout time.Duration
	IdleTimeout    time.Duration
	// MaxRetries is the number of extra connect attempts made at startup.
	MaxRetries uint64
}

// Store owns the client and the selected database. It is created once by
// main and shared by the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes a MongoDB client and verifies connectivity with a ping.
// Failed attempts are retried with capped exponential backoff; once connected
// the driver takes care of reconnecting dropped sockets.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	idleTimeout := cfg.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(connectTimeout).
		SetMaxConnIdleTime(idleTimeout)

	backoff := retry.WithCappedDuration(maxRetryWait, retry.NewExponential(500*time.Millisecond))
	backoff = retry.WithMaxRetries(cfg.MaxRetries, backoff)

	var store *Store
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		s, err := dial(ctx, opts, cfg.Database, connectTimeout)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("mongo connect failed")
			return retry.RetryableError(err)
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("database", cfg.Database).Msg("mongo connected")
	return store, nil
}

func dial(ctx context.Context, opts *options.ClientOptions, database string, timeout time.Duration) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what finally rejects concurrent duplicate registrations.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = s.Collection(collectionSensorData).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "binLocation", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("sensordatas indexes: %w", err)
	}
	return nil
}
