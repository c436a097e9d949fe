package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartwaste/waste-api/internal/api/metrics"
	"github.com/smartwaste/waste-api/internal/core/domain"
)

// RequireRole enforces role-based access control. It must run after
// Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
		names = append(names, string(r)+"s")
	}
	msg := fmt.Sprintf("Unauthorized: Only %s can access this endpoint.", strings.Join(names, " or "))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues(string(role)).Inc()
				return echo.NewHTTPError(http.StatusForbidden, msg).SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
