package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role identifies the capacity an actor acts in.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

// ParseRole validates a role received from outside.
func ParseRole(raw string) (Role, error) {
	switch r := Role(raw); r {
	case RoleCustomer, RoleOwner, RoleAdmin, RoleSystem:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Actor is the identity passed explicitly into every lifecycle call.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// SystemActor is the sentinel actor for automated changes.
func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}

// IsSystem reports whether the actor has no user behind it.
func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem || a.UserID == uuid.Nil
}

// Ref returns the identifier recorded in history rows, nil for the system.
func (a Actor) Ref() *uuid.UUID {
	if a.IsSystem() {
		return nil
	}
	id := a.UserID
	return &id
}
