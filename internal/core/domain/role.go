package domain

import (
	"errors"
	"fmt"
)

// Role is a named capability granted to an on-ledger account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProducer Role = "producer"
	RoleVerifier Role = "verifier"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a role name supplied over the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleProducer, RoleVerifier:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// RoleError is returned when a caller lacks the role an operation requires.
// It wraps ErrUnauthorizedRole so callers can match with errors.Is while
// still seeing which role was missing.
type RoleError struct {
	Role Role
}

var ErrUnauthorizedRole = errors.New("caller lacks required role")

func (e *RoleError) Error() string {
	return fmt.Sprintf("caller lacks required role %q", e.Role)
}

func (e *RoleError) Unwrap() error { return ErrUnauthorizedRole }

// NewRoleError builds the unauthorized-role failure for a required role.
func NewRoleError(role Role) error { return &RoleError{Role: role} }
