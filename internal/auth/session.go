package auth

import "jupiter/internal/model"

const (
	// DefaultRole is used when a token carries no role.
	DefaultRole = model.RoleStudent
	// DefaultSemester is used when a token carries no semester or a zero one.
	DefaultSemester = 1
)

// Token is the payload carried inside the signed session JWT. A nil field is absent.
type Token struct {
	UserID     *string     `json:"id,omitempty"`
	Role       *model.Role `json:"role,omitempty"`
	Email      *string     `json:"email,omitempty"`
	Department *string     `json:"department,omitempty"`
	FirstName  *string     `json:"first_name,omitempty"`
	LastName   *string     `json:"last_name,omitempty"`
	Semester   *int        `json:"semester,omitempty"`
}

// SessionClaims is the fully defaulted view of a session attached to every authenticated request.
type SessionClaims struct {
	ID         string     `json:"id"`
	Role       model.Role `json:"role"`
	Email      string     `json:"email"`
	Department string     `json:"department"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Semester   int        `json:"semester"`
}

// Enrich copies the identity's session fields onto token, replacing whatever was there.
// With a nil identity the token is returned unchanged.
func Enrich(token Token, identity *Identity) Token {
	if identity == nil {
		return token
	}

	role := identity.Role
	semester := identity.Semester
	token.UserID = ptr(identity.ID)
	token.Role = &role
	token.Email = ptr(identity.Email)
	token.Department = ptr(identity.Department)
	token.FirstName = ptr(identity.FirstName)
	token.LastName = ptr(identity.LastName)
	token.Semester = &semester
	return token
}

// Project reads the session fields off token and applies defaults. It never fails.
func Project(token Token) SessionClaims {
	claims := SessionClaims{
		ID:         deref(token.UserID),
		Role:       DefaultRole,
		Email:      deref(token.Email),
		Department: deref(token.Department),
		FirstName:  deref(token.FirstName),
		LastName:   deref(token.LastName),
		Semester:   DefaultSemester,
	}
	if token.Role != nil && *token.Role != "" {
		claims.Role = *token.Role
	}
	if token.Semester != nil && *token.Semester != 0 {
		claims.Semester = *token.Semester
	}
	return claims
}

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
