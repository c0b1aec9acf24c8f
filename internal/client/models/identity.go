package models

import (
	"strings"
	"time"
)

// Identity is a credential-directory record.
type Identity struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Avatar    string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// Session projects the identity into the value held by the client while
// the identity is authenticated.
func (i *Identity) Session() *Session {
	return &Session{
		ID:     i.ID,
		Name:   i.Name,
		Email:  i.Email,
		Role:   i.Role,
		Avatar: i.Avatar,
	}
}

// Session is the authenticated identity held by the client process. A
// Session is never modified after it is issued; a role change requires a new
// one.
type Session struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Valid reports whether a (typically restored) session is well-formed.
func (s *Session) Valid() bool {
	return s != nil && s.ID != "" && s.Email != "" && s.Role.Valid()
}

// NormalizeEmail is the canonical form used for case-insensitive lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
