package domain

import (
	"errors"
	"fmt"
)

// Role is carried in the access token and drives the route policies.
type Role int

const (
	RoleAdmin Role = iota
	RoleArtist
	RoleEmployer
)

var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{
	RoleAdmin:    "Admin",
	RoleArtist:   "Artist",
	RoleEmployer: "Employer",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole 解析令牌中的角色名称。
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}
