package domain

import (
	"errors"
	"strings"

	"github.com/smartwaste/waste-api/internal/core/credential"
)

var errPlainPasswordMarshal = errors.New("plain password must not be serialized")

// PlainPassword is a password as typed by a user. It only flows inward from
// requests to the hasher and is zeroed once hashed.
type PlainPassword struct {
	b []byte
}

// NewPlainPassword trims s and wraps it.
func NewPlainPassword(s string) PlainPassword {
	return PlainPassword{b: []byte(strings.TrimSpace(s))}
}

// Bytes exposes the secret to the hasher.
func (p PlainPassword) Bytes() []byte { return p.b }

// Clone returns a copy with its own backing array, for work that may outlive
// the caller's Zero.
func (p PlainPassword) Clone() PlainPassword {
	if p.b == nil {
		return PlainPassword{}
	}
	return PlainPassword{b: append([]byte(nil), p.b...)}
}

// Empty reports whether no password was supplied.
func (p PlainPassword) Empty() bool { return len(p.b) == 0 }

// Zero overwrites the secret in place. Copies share the same backing array.
func (p PlainPassword) Zero() {
	for i := range p.b {
		p.b[i] = 0
	}
}

func (p PlainPassword) String() string { return "[REDACTED]" }
func (p PlainPassword) GoString() string { return "[REDACTED]" }

func (p PlainPassword) MarshalJSON() ([]byte, error) { return nil, errPlainPasswordMarshal }
func (p PlainPassword) MarshalText() ([]byte, error) { return nil, errPlainPasswordMarshal }

// PasswordHash is a salted one-way hash. It is only ever written to the store.
type PasswordHash string

func (h PasswordHash) String() string { return "[REDACTED]" }

func (h PasswordHash) MarshalJSON() ([]byte, error) { return nil, errors.New("password hash must not be serialized") }

// IsStrong applies the credential password policy.
func (p PlainPassword) IsStrong() bool {
	return credential.IsStrongPassword(string(p.b))
}
