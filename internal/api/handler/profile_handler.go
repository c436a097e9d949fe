package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwaste/waste-api/internal/core/ports"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/users/profile.
//
// @Summary      Get the current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/users/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.profiles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// Update handles PUT /api/users/profile and the legacy PUT /api/auth/update-profile.
// Only supplied, non-blank fields change.
//
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  profileUpdateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/users/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.profiles.Update(c.Request().Context(), id, toProfilePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileUpdateResponse{
		Message: "Profile updated successfully",
		User:    user.Public(),
	})
}

// Delete handles DELETE /api/users/profile.
//
// @Summary      Delete the current user's account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/users/profile [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.profiles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
