package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Authenticate middleware.
// A missing user id or role means the route was mounted without it.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(domain.Role)
	if userID == "" || role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token provided")
	}
	return domain.Identity{UserID: userID, Role: role}, nil
}
