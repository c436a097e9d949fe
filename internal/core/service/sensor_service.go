package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type sensorService struct {
	repo  ports.SensorRepository
	dedup ports.ReadingDeduplicator
	log   zerolog.Logger
	now   func() time.Time
}

// NewSensorService returns a SensorService. dedup may be nil, in which case
// every submission is stored.
func NewSensorService(repo ports.SensorRepository, dedup ports.ReadingDeduplicator, log zerolog.Logger) ports.SensorService {
	return &sensorService{repo: repo, dedup: dedup, log: log, now: time.Now}
}

// Ingest validates and stores a reading. The timestamp falls back to the
// ingestion time when absent or unparsable. Only device-stamped readings are
// deduplicated, since server-stamped ones can never repeat.
func (s *sensorService) Ingest(ctx context.Context, in ports.SensorReadingInput) (*ports.IngestResult, error) {
	ts, stamped := domain.ParseReadingTimestamp(in.Timestamp)
	if !stamped {
		ts = s.now().UTC()
	}

	reading := &domain.SensorReading{
		BinLocation:   strings.TrimSpace(in.BinLocation),
		FillLevel:     in.FillLevel,
		FlameDetected: in.FlameDetected,
		Timestamp:     ts,
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}

	dedup := stamped && s.dedup != nil
	if dedup {
		isDup, err := s.dedup.IsDuplicate(ctx, reading.BinLocation, ts)
		if err != nil {
			s.log.Warn().Err(err).Str("bin", reading.BinLocation).Msg("dedup check failed, processing anyway")
		} else if isDup {
			s.log.Debug().Str("bin", reading.BinLocation).Time("timestamp", ts).Msg("duplicate reading skipped")
			return &ports.IngestResult{Reading: reading, AlreadyRecorded: true}, nil
		}
	}

	if err := s.repo.Insert(ctx, reading); err != nil {
		return nil, fmt.Errorf("ingest reading: %w", err)
	}

	if dedup {
		if err := s.dedup.Mark(ctx, reading.BinLocation, ts); err != nil {
			s.log.Warn().Err(err).Str("bin", reading.BinLocation).Msg("failed to set dedup key")
		}
	}

	if reading.FlameDetected {
		s.log.Warn().Str("bin", reading.BinLocation).Float64("fill_level", reading.FillLevel).Msg("flame detected")
	}
	return &ports.IngestResult{Reading: reading}, nil
}

func (s *sensorService) Latest(ctx context.Context) (*domain.SensorReading, error) {
	return s.repo.Latest(ctx)
}

// History returns readings newest first. Limit defaults to 50 and is capped at 500.
func (s *sensorService) History(ctx context.Context, filter ports.SensorHistoryFilter) ([]*domain.SensorReading, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultHistoryLimit
	case filter.Limit > maxHistoryLimit:
		filter.Limit = maxHistoryLimit
	}
	filter.BinLocation = strings.TrimSpace(filter.BinLocation)
	return s.repo.List(ctx, filter)
}
