package domain

import (
	"strings"
	"time"

	"github.com/smartwaste/waste-api/internal/core/credential"
)

// ProfileFields is the flat set of role-specific attributes as they arrive
// from requests and sit in the store.
type ProfileFields struct {
	Address    string
	Location   string
	License    string
	Vehicle    string
	Department string
}

// Profile is the role-specific part of a User. The unexported methods close
// the set to CitizenProfile, DriverProfile and MunicipalProfile.
type Profile interface {
	Role() Role
	Fields() ProfileFields
	validate() error
	apply(p ProfilePatch) Profile
}

// CitizenProfile carries the fields required of citizens.
type CitizenProfile struct {
	Address  string
	Location string
}

func (CitizenProfile) Role() Role { return RoleCitizen }

func (c CitizenProfile) Fields() ProfileFields {
	return ProfileFields{Address: c.Address, Location: c.Location}
}

func (c CitizenProfile) validate() error {
	if c.Address == "" {
		return missing("address")
	}
	if c.Location == "" {
		return missing("location")
	}
	return nil
}

func (c CitizenProfile) apply(p ProfilePatch) Profile {
	if v, ok := supplied(p.Address); ok {
		c.Address = v
	}
	if v, ok := supplied(p.Location); ok {
		c.Location = v
	}
	return c
}

// DriverProfile carries the fields required of collection-truck drivers.
type DriverProfile struct {
	License string
	Vehicle string
}

func (DriverProfile) Role() Role { return RoleDriver }

func (d DriverProfile) Fields() ProfileFields {
	return ProfileFields{License: d.License, Vehicle: d.Vehicle}
}

func (d DriverProfile) validate() error {
	if d.License == "" {
		return missing("license")
	}
	if d.Vehicle == "" {
		return missing("vehicle")
	}
	return nil
}

func (d DriverProfile) apply(p ProfilePatch) Profile {
	if v, ok := supplied(p.License); ok {
		d.License = v
	}
	if v, ok := supplied(p.Vehicle); ok {
		d.Vehicle = v
	}
	return d
}

// MunicipalProfile carries the fields required of municipal staff.
type MunicipalProfile struct {
	Department string
}

func (MunicipalProfile) Role() Role { return RoleMunicipal }

func (m MunicipalProfile) Fields() ProfileFields {
	return ProfileFields{Department: m.Department}
}

func (m MunicipalProfile) validate() error {
	if m.Department == "" {
		return missing("department")
	}
	return nil
}

func (m MunicipalProfile) apply(p ProfilePatch) Profile {
	if v, ok := supplied(p.Department); ok {
		m.Department = v
	}
	return m
}

// ProfileFor builds the variant for role from flat fields, keeping only the
// fields that belong to it. It does not check required fields.
func ProfileFor(role Role, f ProfileFields) (Profile, error) {
	switch role {
	case RoleCitizen:
		return CitizenProfile{
			Address:  strings.TrimSpace(f.Address),
			Location: strings.TrimSpace(f.Location),
		}, nil
	case RoleDriver:
		return DriverProfile{
			License: strings.TrimSpace(f.License),
			Vehicle: strings.TrimSpace(f.Vehicle),
		}, nil
	case RoleMunicipal:
		return MunicipalProfile{Department: strings.TrimSpace(f.Department)}, nil
	}
	return nil, invalid("role", ErrInvalidRole)
}

// User is an account. Password only ever holds a hash.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Password  PasswordHash
	Profile   Profile
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role returns the account role, fixed at registration.
func (u *User) Role() Role { return u.Profile.Role() }

// PublicUser is the only representation of a User handed to clients.
type PublicUser struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Role       Role      `json:"role"`
	Address    string    `json:"address,omitempty"`
	Location   string    `json:"location,omitempty"`
	License    string    `json:"license,omitempty"`
	Vehicle    string    `json:"vehicle,omitempty"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Public strips the password hash and revision marker.
func (u *User) Public() PublicUser {
	f := u.Profile.Fields()
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role(),
		Address:    f.Address,
		Location:   f.Location,
		License:    f.License,
		Vehicle:    f.Vehicle,
		Department: f.Department,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Registration is the raw input of a new account.
type Registration struct {
	Role     string
	Name     string
	Email    string
	Phone    string
	Password PlainPassword
	ProfileFields
}

// Validate checks every rule a new account must satisfy and returns the
// normalized user, still without a password hash. Checks run in order:
// common fields present, role known, role fields present, email format,
// password strength, phone format.
func (r Registration) Validate() (*User, error) {
	name := strings.TrimSpace(r.Name)
	email := credential.NormalizeEmail(r.Email)
	phone := strings.TrimSpace(r.Phone)

	switch {
	case strings.TrimSpace(r.Role) == "":
		return nil, missing("role")
	case name == "":
		return nil, missing("name")
	case email == "":
		return nil, missing("email")
	case r.Password.Empty():
		return nil, missing("password")
	case phone == "":
		return nil, missing("phone")
	}

	role, err := ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	profile, err := ProfileFor(role, r.ProfileFields)
	if err != nil {
		return nil, err
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}

	if !credential.IsValidEmail(email) {
		return nil, invalid("email", ErrInvalidEmail)
	}
	if !r.Password.IsStrong() {
		return nil, invalid("password", ErrWeakPassword)
	}
	if !credential.IsValidPhone(phone) {
		return nil, invalid("phone", ErrInvalidPhone)
	}

	return &User{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Profile: profile,
	}, nil
}

// ProfilePatch is a partial profile update. A nil or blank field is left
// untouched; role fields belonging to another role are ignored.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *PlainPassword

	Address    *string
	Location   *string
	License    *string
	Vehicle    *string
	Department *string
}

// NewPassword returns the replacement password, if one was supplied.
func (p ProfilePatch) NewPassword() (PlainPassword, bool) {
	if p.Password == nil || p.Password.Empty() {
		return PlainPassword{}, false
	}
	return *p.Password, true
}

// ApplyPatch validates every supplied field and, only if all pass, applies
// them to u. The password is validated here but hashed by the caller.
func (u *User) ApplyPatch(p ProfilePatch, now time.Time) error {
	next := *u

	if v, ok := supplied(p.Name); ok {
		next.Name = v
	}
	if v, ok := supplied(p.Email); ok {
		v = credential.NormalizeEmail(v)
		if !credential.IsValidEmail(v) {
			return invalid("email", ErrInvalidEmail)
		}
		next.Email = v
	}
	if v, ok := supplied(p.Phone); ok {
		if !credential.IsValidPhone(v) {
			return invalid("phone", ErrInvalidPhone)
		}
		next.Phone = v
	}
	if pw, ok := p.NewPassword(); ok && !pw.IsStrong() {
		return invalid("password", ErrWeakPassword)
	}

	next.Profile = u.Profile.apply(p)
	next.UpdatedAt = now
	*u = next
	return nil
}

func supplied(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
