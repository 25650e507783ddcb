package service

import "github.com/Masomatta/Afg-egov-portal/internal/domain"

// CanActOn is the single authorization predicate for officer-level work on
// a request: admins act anywhere, officers and department heads only within
// the department that owns the request's service. Citizens never pass.
func CanActOn(actor domain.Actor, departmentID string) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleOfficer, domain.RoleDepartmentHead:
		return actor.DepartmentID != nil && *actor.DepartmentID == departmentID
	default:
		return false
	}
}

// CanAssign reports whether the actor may reassign a request's reviewer.
// Plain officers may not.
func CanAssign(actor domain.Actor) bool {
	return actor.Role == domain.RoleDepartmentHead || actor.Role == domain.RoleAdmin
}

// CanView reports whether the actor may read a request's detail: citizens
// see only their own, officer-level roles follow CanActOn.
func CanView(actor domain.Actor, req *domain.RequestSummary) bool {
	if actor.Role == domain.RoleCitizen {
		return req.CitizenID == actor.ID
	}
	return CanActOn(actor, req.DepartmentID)
}
