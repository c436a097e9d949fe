package ports

import (
	"context"
	"time"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// SensorHistoryFilter selects a newest-first page of readings.
type SensorHistoryFilter struct {
	BinLocation string // optional exact match
	Limit       int
}

// SensorRepository persists sensor readings.
type SensorRepository interface {
	Insert(ctx context.Context, r *domain.SensorReading) error
	// Latest returns domain.ErrNoSensorData when the collection is empty.
	Latest(ctx context.Context) (*domain.SensorReading, error)
	List(ctx context.Context, filter SensorHistoryFilter) ([]*domain.SensorReading, error)
}

// SensorReadingInput is the DTO passed from the transport layer to SensorService.
type SensorReadingInput struct {
	BinLocation   string
	FillLevel     float64
	FlameDetected bool
	// Timestamp is the raw device value: string, number or nil.
	Timestamp any
}

// IngestResult reports the stored reading. AlreadyRecorded is true when the
// same device submission was seen before and nothing new was written.
type IngestResult struct {
	Reading         *domain.SensorReading
	AlreadyRecorded bool
}

type SensorService interface {
	Ingest(ctx context.Context, in SensorReadingInput) (*IngestResult, error)
	Latest(ctx context.Context) (*domain.SensorReading, error)
	History(ctx context.Context, filter SensorHistoryFilter) ([]*domain.SensorReading, error)
}

// ReadingDeduplicator remembers device submissions for a limited time.
type ReadingDeduplicator interface {
	IsDuplicate(ctx context.Context, binLocation string, ts time.Time) (bool, error)
	Mark(ctx context.Context, binLocation string, ts time.Time) error
}
