package models

// Role is the closed set of actor roles the engine authorizes against.
// Identity and session handling happen upstream; requests arrive with a
// role already derived.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleCoach Role = "COACH"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoach:
		return true
	default:
		return false
	}
}
