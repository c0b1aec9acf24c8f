// Package models defines the client-side data model: identities, the
// session projected from them, roles, and notifications.
package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles an identity can hold. Roles are a flat
// allow-list: no role implies another.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleLibrarian
	RoleUser
)

// AllRoles lists every valid role in declaration order.
var AllRoles = []Role{RoleAdmin, RoleLibrarian, RoleUser}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleLibrarian:
		return "librarian"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts the text form ("admin", "librarian", "user") to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "librarian":
		return RoleLibrarian, nil
	case "user":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid %s", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is a set of roles, used as the capability set of an access gate.
// The zero value is the empty set, meaning "no role restriction".
type RoleSet uint8

// NewRoleSet builds a set from roles. Invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// Contains reports whether r is a member of s.
func (s RoleSet) Contains(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

func (s RoleSet) Empty() bool {
	return s == 0
}

// Roles returns the members of s in declaration order.
func (s RoleSet) Roles() []Role {
	var out []Role
	for _, r := range AllRoles {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
