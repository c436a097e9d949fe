package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwaste/waste-api/internal/api/metrics"
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and signs the caller in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Common fields plus the fields of the chosen role"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Register(c.Request().Context(), toRegistration(req))
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(res.User.Role())).Inc()
	return c.JSON(http.StatusCreated, toAuthResponse("User registered successfully", res))
}

// Login authenticates a user for the requested role and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_request").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_request").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, domain.NewPlainPassword(req.Password), req.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toAuthResponse("Login successful", res))
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_request"
	default:
		return "error"
	}
}
