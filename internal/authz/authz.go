// Package authz holds the closed role set and the per-operation permission
// checks. Every handler resolves the caller's role once at entry and either
// passes or fails closed; role-derived query constraints are injected by the
// controllers before any client-supplied filter.
package authz

import (
	"fmt"

	"github.com/hrmstack/hrm-service/internal/entity"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// ParseRole maps a stored role string onto the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", entity.ErrValidation, s)
}

// Allowed is the set of roles permitted to call an operation.
type Allowed []Role

var (
	AdminOnly = Allowed{RoleAdmin}
	Staff     = Allowed{RoleAdmin, RoleManager}
	Everyone  = Allowed{RoleAdmin, RoleManager, RoleEmployee}
)

func (a Allowed) Contains(r Role) bool {
	for _, role := range a {
		if role == r {
			return true
		}
	}
	return false
}

// Require fails closed with ErrPermissionDenied when the caller's role is
// outside the allowed set.
func Require(role string, allowed Allowed) error {
	r, err := ParseRole(role)
	if err != nil {
		return fmt.Errorf("%w: unknown role", entity.ErrPermissionDenied)
	}
	if !allowed.Contains(r) {
		return fmt.Errorf("%w: role %s may not perform this operation", entity.ErrPermissionDenied, r)
	}
	return nil
}
