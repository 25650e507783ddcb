package domain

import "time"

// Role enumerates the closed set of portal roles.
type Role string

const (
	RoleCitizen        Role = "citizen"
	RoleOfficer        Role = "officer"
	RoleDepartmentHead Role = "department_head"
	RoleAdmin          Role = "admin"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleDepartmentHead, RoleAdmin:
		return true
	}
	return false
}

// OfficerLevel reports whether the role belongs to department staff and
// therefore requires a department reference.
func (r Role) OfficerLevel() bool {
	return r == RoleOfficer || r == RoleDepartmentHead
}

// User is the identity record for citizens, department staff and admins.
type User struct {
	ID           string
	NationalID   string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *string
	JobTitle     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the resolved identity performing an operation. It is passed
// explicitly into every lifecycle operation; services never read ambient
// session state.
type Actor struct {
	ID           string
	Role         Role
	DepartmentID *string
}

// ActorFor derives the acting identity from a user record.
func ActorFor(u *User) Actor {
	return Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}
