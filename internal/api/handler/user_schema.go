package handler

import "github.com/smartwaste/waste-api/internal/core/domain"

type registerRequest struct {
	Role       string `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Address    string `json:"address,omitempty"`
	Location   string `json:"location,omitempty"`
	License    string `json:"license,omitempty"`
	Vehicle    string `json:"vehicle,omitempty"`
	Department string `json:"department,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

// updateProfileRequest carries only the fields the caller wants to change.
type updateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Password   *string `json:"password,omitempty"`
	Address    *string `json:"address,omitempty"`
	Location   *string `json:"location,omitempty"`
	License    *string `json:"license,omitempty"`
	Vehicle    *string `json:"vehicle,omitempty"`
	Department *string `json:"department,omitempty"`
}

type authResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	Role    domain.Role       `json:"role"`
	User    domain.PublicUser `json:"user"`
}

type profileUpdateResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
