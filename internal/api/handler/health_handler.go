package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks that a dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler serves GET / and GET /health (liveness) and
// GET /health/ready (readiness).
type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
	now     func() time.Time
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: 3 * time.Second, now: time.Now}
}

type livenessResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type welcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Root handles GET /.
//
// @Summary      Welcome
// @Tags         health
// @Produce      json
// @Success      200  {object}  welcomeResponse
// @Router       / [get]
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, welcomeResponse{
		Message: "Welcome to IoT Waste Management API",
		Version: "1.0.0",
	})
}

// Liveness handles GET /health. It confirms the process is alive.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:    "OK",
		Message:   "IoT Waste Management Server is running",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Readiness handles GET /health/ready. Every dependency is pinged; any
// failure reports 503.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.deps[name](ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
