package types

import (
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/google/uuid"
)

// Actor identifies who is performing an operation.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// IsTechnician reports whether the actor carries the technician role.
func (a Actor) IsTechnician() bool {
	return a.Role == enums.UserRoleTechnician
}
