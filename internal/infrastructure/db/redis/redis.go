package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr       string
	DB         int
	Timeout    time.Duration
	MaxRetries uint64
}

// Connect initialises a Redis client and validates connectivity with a ping,
// retrying with exponential backoff.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	backoff := retry.WithMaxRetries(cfg.MaxRetries, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis ping failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("redis connected")
	return client, nil
}
