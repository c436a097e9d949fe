package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwaste/waste-api/internal/api/metrics"
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

// SensorHandler handles bin sensor ingestion and queries.
type SensorHandler struct {
	sensors ports.SensorService
}

func NewSensorHandler(sensors ports.SensorService) *SensorHandler {
	return &SensorHandler{sensors: sensors}
}

// Add handles POST /api/sensors/add. A repeated device submission is
// answered with 200 and the reading is not stored again.
//
// @Summary      Ingest a sensor reading
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        body  body      sensorReadingRequest  true  "Sensor reading"
// @Success      201   {object}  sensorAddedResponse
// @Success      200   {object}  sensorAddedResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/sensors/add [post]
func (h *SensorHandler) Add(c echo.Context) error {
	var req sensorReadingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.sensors.Ingest(c.Request().Context(), ports.SensorReadingInput{
		BinLocation:   req.BinLocation,
		FillLevel:     *req.FillLevel,
		FlameDetected: *req.FlameDetected,
		Timestamp:     req.Timestamp,
	})
	if err != nil {
		return err
	}

	if res.AlreadyRecorded {
		metrics.SensorReadingsTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusOK, sensorAddedResponse{
			Message: "Sensor data already recorded",
			Data:    res.Reading,
		})
	}

	observeReading(res.Reading)
	return c.JSON(http.StatusCreated, sensorAddedResponse{
		Message: "Sensor data added successfully",
		Data:    res.Reading,
	})
}

// Latest handles GET /api/sensors/all, which returns only the newest reading.
//
// @Summary      Latest sensor reading
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  sensorListResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/sensors/all [get]
func (h *SensorHandler) Latest(c echo.Context) error {
	reading, err := h.sensors.Latest(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sensorListResponse{SensorData: []*domain.SensorReading{reading}})
}

// History handles GET /api/sensors/history.
//
// @Summary      Sensor reading history
// @Tags         sensors
// @Produce      json
// @Security     BearerAuth
// @Param        binLocation  query     string  false  "Exact bin location"
// @Param        limit        query     int     false  "Page size (default 50, max 500)"
// @Success      200          {object}  sensorListResponse
// @Failure      400          {object}  map[string]string
// @Failure      401          {object}  map[string]string
// @Failure      403          {object}  map[string]string
// @Failure      500          {object}  map[string]string
// @Router       /api/sensors/history [get]
func (h *SensorHandler) History(c echo.Context) error {
	var q sensorHistoryQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	readings, err := h.sensors.History(c.Request().Context(), ports.SensorHistoryFilter{
		BinLocation: q.BinLocation,
		Limit:       q.Limit,
	})
	if err != nil {
		return err
	}
	if readings == nil {
		readings = []*domain.SensorReading{}
	}
	return c.JSON(http.StatusOK, sensorListResponse{SensorData: readings})
}

func observeReading(r *domain.SensorReading) {
	metrics.SensorReadingsTotal.WithLabelValues("stored").Inc()
	metrics.SensorFillLevel.Observe(r.FillLevel)
	if r.FlameDetected {
		metrics.FlameAlertsTotal.Inc()
	}
}
