package game

import "fmt"

// Role is a player's permission level. It is a closed enum: the stored value
// is numeric and comparisons happen against these constants, never against a
// role name string.
type Role int

const (
	RoleAdmin Role = iota
	RolePlayer
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RolePlayer:
		return "player"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reports whether the role is one of the defined constants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePlayer
}
