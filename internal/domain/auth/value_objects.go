package auth

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrEmptySubject   = errors.New("subject cannot be empty")
	ErrSubjectTooLong = errors.New("subject is too long (max 128 characters)")
)

const MaxSubjectLength = 128

type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleLevel = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleLevel[r]
	return ok
}

// AtLeast reports whether r grants every permission of min.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleLevel[r]
	if !ok {
		return false
	}
	want, ok := roleLevel[min]
	return ok && have >= want
}

func NewRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Principal identifies the caller behind a bearer token: a shop-floor
// operator, planner or integration account.
type Principal struct {
	subject string
	role    Role
}

func NewPrincipal(subject string, role Role) (Principal, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Principal{}, ErrEmptySubject
	}
	if len(subject) > MaxSubjectLength {
		return Principal{}, ErrSubjectTooLong
	}
	if !role.IsValid() {
		return Principal{}, ErrInvalidRole
	}
	return Principal{subject: subject, role: role}, nil
}

func (p Principal) Subject() string { return p.subject }
func (p Principal) Role() Role       { return p.role }
