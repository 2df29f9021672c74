package identity

import "github.com/google/uuid"

// AccessPolicy is the single decision point for role-based capabilities.
// Handlers and services ask the policy instead of branching on roles inline,
// so enforcement cannot drift between endpoints.
type AccessPolicy struct{}

// NewAccessPolicy creates a new AccessPolicy
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// CanReviewSubmissions reports whether the actor may review submissions
func (AccessPolicy) CanReviewSubmissions(actor *User) bool {
	return actor.Role.IsStaff()
}

// CanModifyUser reports whether the actor may edit another user's balance or
// ban state through the admin path. No actor may target themself here; the
// self-service profile path is separate and unprivileged.
func (AccessPolicy) CanModifyUser(actor *User, targetID uuid.UUID) bool {
	if actor.ID == targetID {
		return false
	}
	return actor.Role.IsStaff()
}

// CanChangeRole reports whether the actor may change the target's role.
// Role changes are admin-only on top of the CanModifyUser rule.
func (AccessPolicy) CanChangeRole(actor *User, targetID uuid.UUID) bool {
	if actor.ID == targetID {
		return false
	}
	return actor.Role == RoleAdmin
}

// CanViewAuditLog reports whether the actor may read the admin action log
func (AccessPolicy) CanViewAuditLog(actor *User) bool {
	return actor.Role == RoleAdmin
}

// CanManageSettings reports whether the actor may change runtime settings
func (AccessPolicy) CanManageSettings(actor *User) bool {
	return actor.Role == RoleAdmin
}
