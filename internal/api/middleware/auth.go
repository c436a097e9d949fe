package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartwaste/waste-api/internal/api/metrics"
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

// Authenticate resolves the bearer token to an identity and injects
// "user_id" and "role" into the context.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokensRejectedTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token provided")
			}

			id, err := verifier.Verify(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.TokensRejectedTotal.WithLabelValues(reason).Inc()
				log.Info().
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", id.UserID)
			c.Set("role", id.Role)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
