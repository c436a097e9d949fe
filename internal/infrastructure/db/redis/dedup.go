package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// ReadingDeduplicator remembers device-stamped sensor submissions so that
// retried posts are not stored twice.
// Key format: sensor:<bin_location>:<unix_millis>
type ReadingDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReadingDeduplicator(client *redis.Client) *ReadingDeduplicator {
	return &ReadingDeduplicator{client: client, ttl: dedupTTL}
}

// IsDuplicate reports whether this reading has already been stored.
func (d *ReadingDeduplicator) IsDuplicate(ctx context.Context, binLocation string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, readingKey(binLocation, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this reading has been stored (expires after one hour).
func (d *ReadingDeduplicator) Mark(ctx context.Context, binLocation string, ts time.Time) error {
	return d.client.Set(ctx, readingKey(binLocation, ts), "1", d.ttl).Err()
}

func readingKey(binLocation string, ts time.Time) string {
	return fmt.Sprintf("sensor:%s:%d", binLocation, ts.UnixMilli())
}
