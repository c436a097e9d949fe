package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

type stubSensorService struct {
	ingestFn  func(ctx context.Context, in ports.SensorReadingInput) (*ports.IngestResult, error)
	latestFn  func(ctx context.Context) (*domain.SensorReading, error)
	historyFn func(ctx context.Context, filter ports.SensorHistoryFilter) ([]*domain.SensorReading, error)
}

func (s *stubSensorService) Ingest(ctx context.Context, in ports.SensorReadingInput) (*ports.IngestResult, error) {
	return s.ingestFn(ctx, in)
}

func (s *stubSensorService) Latest(ctx context.Context) (*domain.SensorReading, error) {
	return s.latestFn(ctx)
}

func (s *stubSensorService) History(ctx context.Context, filter ports.SensorHistoryFilter) ([]*domain.SensorReading, error) {
	return s.historyFn(ctx, filter)
}

func reading(bin string, fill float64) *domain.SensorReading {
	return &domain.SensorReading{
		ID:          "r1",
		BinLocation: bin,
		FillLevel:   fill,
		Timestamp:   time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestSensorHandler_Add_Created(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{
		ingestFn: func(ctx context.Context, in ports.SensorReadingInput) (*ports.IngestResult, error) {
			if in.BinLocation != "Bin-7" || in.FillLevel != 0 || !in.FlameDetected {
				t.Fatalf("unexpected input: %+v", in)
			}
			if ts, ok := in.Timestamp.(float64); !ok || ts != 1740832200000 {
				t.Fatalf("timestamp not passed raw: %#v", in.Timestamp)
			}
			return &ports.IngestResult{Reading: reading(in.BinLocation, in.FillLevel)}, nil
		},
	})

	rec := httptest.NewRecorder()
	body := `{"binLocation":"Bin-7","fillLevel":0,"flameDetected":true,"timestamp":1740832200000}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/sensors/add", body), rec)

	if err := handler.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["message"] != "Sensor data added successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	data, _ := resp["data"].(map[string]any)
	if data["binLocation"] != "Bin-7" || data["timestamp"] != "2025-03-01T12:30:00Z" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestSensorHandler_Add_Duplicate(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{
		ingestFn: func(ctx context.Context, in ports.SensorReadingInput) (*ports.IngestResult, error) {
			return &ports.IngestResult{Reading: reading(in.BinLocation, in.FillLevel), AlreadyRecorded: true}, nil
		},
	})

	rec := httptest.NewRecorder()
	body := `{"binLocation":"Bin-7","fillLevel":40,"flameDetected":false,"timestamp":"2025-03-01T12:30:00Z"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/sensors/add", body), rec)

	if err := handler.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a repeated submission, got %d", rec.Code)
	}
}

func TestSensorHandler_Add_Invalid(t *testing.T) {
	bodies := map[string]string{
		"missing bin":   `{"fillLevel":10,"flameDetected":false}`,
		"missing fill":  `{"binLocation":"A","flameDetected":false}`,
		"missing flame": `{"binLocation":"A","fillLevel":10}`,
		"overfull":      `{"binLocation":"A","fillLevel":150,"flameDetected":false}`,
		"negative":      `{"binLocation":"A","fillLevel":-1,"flameDetected":false}`,
		"malformed":     `{"binLocation":`,
	}
	for name, body := range bodies {
		e := newEcho()
		handler := NewSensorHandler(&stubSensorService{
			ingestFn: func(context.Context, ports.SensorReadingInput) (*ports.IngestResult, error) {
				t.Fatalf("%s: service must not be called", name)
				return nil, nil
			},
		})

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/sensors/add", body), rec)

		if code := httpStatus(t, handler.Add(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, code)
		}
	}
}

func TestSensorHandler_Latest(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{
		latestFn: func(ctx context.Context) (*domain.SensorReading, error) {
			return reading("Bin-1", 75), nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/sensors/all", nil), rec)

	if err := handler.Latest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	list, _ := decode(t, rec)["sensorData"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected exactly one reading, got %d", len(list))
	}
}

func TestSensorHandler_Latest_Empty(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{
		latestFn: func(ctx context.Context) (*domain.SensorReading, error) {
			return nil, domain.ErrNoSensorData
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/sensors/all", nil), rec)

	if err := handler.Latest(c); !errors.Is(err, domain.ErrNoSensorData) {
		t.Fatalf("expected ErrNoSensorData, got %v", err)
	}
}

func TestSensorHandler_History(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{
		historyFn: func(ctx context.Context, filter ports.SensorHistoryFilter) ([]*domain.SensorReading, error) {
			if filter.BinLocation != "Bin-2" || filter.Limit != 20 {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/sensors/history?binLocation=Bin-2&limit=20", nil), rec)

	if err := handler.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	list, ok := decode(t, rec)["sensorData"].([]any)
	if !ok || len(list) != 0 {
		t.Fatalf("expected an empty list, got %v", list)
	}
}

func TestSensorHandler_History_BadLimit(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{})

	for _, q := range []string{"limit=abc", "limit=-5"} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/sensors/history?"+q, nil), rec)

		if code := httpStatus(t, handler.History(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, code)
		}
	}
}

// sensorSeries counts the exported series of every smartwaste sensor metric.
func sensorSeries(t *testing.T) int {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	n := 0
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "smartwaste_sensor_") {
			n += len(mf.GetMetric())
		}
	}
	return n
}

func TestSensorHandler_Add_MetricsIgnoreBinLocation(t *testing.T) {
	e := newEcho()
	handler := NewSensorHandler(&stubSensorService{
		ingestFn: func(ctx context.Context, in ports.SensorReadingInput) (*ports.IngestResult, error) {
			r := reading(in.BinLocation, in.FillLevel)
			r.FlameDetected = in.FlameDetected
			return &ports.IngestResult{Reading: r}, nil
		},
	})

	add := func(bin string) {
		rec := httptest.NewRecorder()
		body := fmt.Sprintf(`{"binLocation":%q,"fillLevel":42,"flameDetected":true}`, bin)
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/sensors/add", body), rec)
		if err := handler.Add(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
	}

	add("Bin-0")
	before := sensorSeries(t)
	for i := 1; i <= 200; i++ {
		add(fmt.Sprintf("Bin-%d", i))
	}
	if after := sensorSeries(t); after != before {
		t.Fatalf("series grew with distinct bin locations: %d -> %d", before, after)
	}
}
