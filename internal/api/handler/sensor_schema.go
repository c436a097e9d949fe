package handler

import "github.com/smartwaste/waste-api/internal/core/domain"

// sensorReadingRequest is posted by bin devices. Timestamp may be an ISO
// string, Unix milliseconds, or absent.
type sensorReadingRequest struct {
	BinLocation   string   `json:"binLocation"   validate:"required"`
	FillLevel     *float64 `json:"fillLevel"     validate:"required,gte=0,lte=100"`
	FlameDetected *bool    `json:"flameDetected" validate:"required"`
	Timestamp     any      `json:"timestamp,omitempty" swaggertype:"string"`
}

type sensorHistoryQuery struct {
	BinLocation string `query:"binLocation"`
	Limit       int    `query:"limit" validate:"gte=0"`
}

type sensorAddedResponse struct {
	Message string                `json:"message"`
	Data    *domain.SensorReading `json:"data"`
}

type sensorListResponse struct {
	SensorData []*domain.SensorReading `json:"sensorData"`
}
