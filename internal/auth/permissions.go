package auth

import (
	"slices"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// Well-known roles
var (
	AdministratorRoleID = uuid.MustParse("bdc56420-caf0-4030-8a0e-d264938e0cda")
	RegularRoleID       = uuid.MustParse("f16ec6db-626d-4c27-8de0-3e7ce542c55f")
	GuestRoleID         = uuid.MustParse("987148b1-afa8-4b33-8616-55861e5fd065")
)

// Action is a record operation guarded by an entity's record permissions
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// HasRole reports whether roles contains role
func HasRole(roles []uuid.UUID, role uuid.UUID) bool {
	return slices.Contains(roles, role)
}

// IsAdministrator reports whether the claims carry the administrator role
func (c *Claims) IsAdministrator() bool {
	return c != nil && HasRole(c.Roles, AdministratorRoleID)
}

// Can reports whether any of roles is granted action by perms
func Can(perms *models.RecordPermissions, roles []uuid.UUID, action Action) bool {
	if perms == nil {
		return false
	}
	var granted []uuid.UUID
	switch action {
	case ActionRead:
		granted = perms.CanRead
	case ActionCreate:
		granted = perms.CanCreate
	case ActionUpdate:
		granted = perms.CanUpdate
	case ActionDelete:
		granted = perms.CanDelete
	}
	for _, r := range roles {
		if slices.Contains(granted, r) {
			return true
		}
	}
	return false
}

// UserPermission is what a caller may do with the records of one entity
type UserPermission struct {
	CanRead   bool `json:"canRead"`
	CanCreate bool `json:"canCreate"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

// PermissionsFor computes the caller's record permissions on entity
func PermissionsFor(entity *models.Entity, roles []uuid.UUID) UserPermission {
	if entity == nil {
		return UserPermission{}
	}
	p := entity.RecordPermissions
	return UserPermission{
		CanRead:   Can(p, roles, ActionRead),
		CanCreate: Can(p, roles, ActionCreate),
		CanUpdate: Can(p, roles, ActionUpdate),
		CanDelete: Can(p, roles, ActionDelete),
	}
}
