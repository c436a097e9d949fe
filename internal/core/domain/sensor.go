package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	MinFillLevel = 0
	MaxFillLevel = 100
)

// SensorReading is a single bin measurement. Readings are immutable once stored.
type SensorReading struct {
	ID            string    `json:"_id,omitempty"`
	BinLocation   string    `json:"binLocation"`
	FillLevel     float64   `json:"fillLevel"`
	FlameDetected bool      `json:"flameDetected"`
	Timestamp     time.Time `json:"timestamp"`
}

// Validate checks the reading's fields.
func (r *SensorReading) Validate() error {
	if strings.TrimSpace(r.BinLocation) == "" {
		return missing("binLocation")
	}
	if math.IsNaN(r.FillLevel) || r.FillLevel < MinFillLevel || r.FillLevel > MaxFillLevel {
		return invalid("fillLevel", ErrOutOfRange)
	}
	return nil
}

var readingTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseReadingTimestamp interprets a device-supplied timestamp: an ISO/RFC 3339
// string or Unix milliseconds, either as a JSON number or numeric string. The
// second result is false when raw is absent or unparsable.
func ParseReadingTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v)).UTC(), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		for _, layout := range readingTimeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
