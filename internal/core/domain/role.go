package domain

import "strings"

// Role determines which profile fields an account carries and which
// endpoints it may reach.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleDriver    Role = "driver"
	RoleMunicipal Role = "municipal"
)

// ParseRole converts raw input into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleCitizen, RoleDriver, RoleMunicipal:
		return r, nil
	}
	return "", invalid("role", ErrInvalidRole)
}

// Identity is the authenticated caller resolved from an auth token. It lives
// for a single request.
type Identity struct {
	UserID string
	Role   Role
}
