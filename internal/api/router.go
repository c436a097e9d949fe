package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/smartwaste/waste-api/internal/api/handler"
	"github.com/smartwaste/waste-api/internal/api/middleware"
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"

	_ "github.com/smartwaste/waste-api/docs"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Sensors  ports.SensorService
	Tokens   ports.TokenVerifier
	// Health lists the dependencies pinged by /health/ready.
	Health map[string]handler.Pinger

	FrontendURL string
	// StaticDir, when set, is served as the frontend.
	StaticDir string
	// ExposeInternal adds the cause of 500 responses to the body.
	ExposeInternal bool

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ExposeInternal)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.FrontendURL},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "smartwaste",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if d.StaticDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root: d.StaticDir,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/")
			},
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profiles)
	sensorHandler := handler.NewSensorHandler(d.Sensors)
	healthHandler := handler.NewHealthHandler(d.Health)
	authenticate := middleware.Authenticate(d.Tokens, d.Log)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/update-profile", profileHandler.Update, authenticate)

	// --- Profile routes ---
	users := e.Group("/api/users", authenticate)
	users.GET("/profile", profileHandler.Get)
	users.PUT("/profile", profileHandler.Update)
	users.DELETE("/profile", profileHandler.Delete)

	// --- Sensor routes ---
	sensors := e.Group("/api/sensors")
	sensors.POST("/add", sensorHandler.Add)
	sensors.GET("/all", sensorHandler.Latest)
	sensors.GET("/history", sensorHandler.History, authenticate, middleware.RequireRole(domain.RoleMunicipal))

	// --- Health probes and tooling (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var evt *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			default:
				evt = log.Info()
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
