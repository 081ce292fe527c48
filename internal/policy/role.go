package policy

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	ErrInvalidRole = errors.New("invalid role")
)

// Role is a caller's privilege level. Roles are strictly ordered:
// guest < user < admin.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleLevels = map[Role]int{
	RoleGuest: 1,
	RoleUser:  2,
	RoleAdmin: 3,
}

// Level returns the privilege level of the role. Unknown roles have level 0,
// below guest, so they never satisfy any minimum.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether the role has equal or higher privilege than min.
func (r Role) AtLeast(min Role) bool {
	level, ok := roleLevels[r]
	minLevel, minOK := roleLevels[min]
	if !ok || !minOK {
		return false
	}
	return level >= minLevel
}

// ParseRole validates a role string against the known roles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevels[r]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidRole, s)
	}
	return r, nil
}

// Caller is the identity resolved for a single request. It is immutable and
// threaded explicitly through every check; no ambient state carries it.
type Caller struct {
	ID            string
	Role          Role
	Authenticated bool
}

// Guest is the caller used when no credential was presented. A credential
// that was presented but failed verification must NOT be demoted to Guest;
// that is an authentication failure, handled before a Caller exists.
func Guest() Caller {
	return Caller{Role: RoleGuest}
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
