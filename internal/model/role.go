package model

import "fmt"

// Role is the closed set of actor roles the API serves.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleDoctor
	RolePatient
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleDoctor:
		return "doctor"
	case RolePatient:
		return "patient"
	default:
		return "unknown"
	}
}

// ParseRole maps a role name to its Role value. Unknown names are an
// error rather than a silently unauthorized role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "doctor":
		return RoleDoctor, nil
	case "patient":
		return RolePatient, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// Identity is the result of a successful authorization: the role the
// caller was admitted under, the entity id it resolved to, and the
// identifier the token was bound to.
type Identity struct {
	Role       Role
	ID         string
	Identifier string
}
