package auth

import "strings"

// Role is an access level. Higher roles include the permissions of lower ones.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleUser    Role = "user"
	RoleAnalyst Role = "analyst"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleGuest:   0,
	RoleUser:    1,
	RoleAnalyst: 2,
	RoleAdmin:   3,
}

// ParseRole normalizes raw into a Role, reporting whether it is known.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := roleRank[r]
	return r, ok
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants the permissions of min.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}
