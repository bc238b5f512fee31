package auth

import (
	"strconv"

	"jupiter/internal/model"
)

// Identity is the normalized user data produced right after a successful credential check.
// Role and Semester are copied verbatim; defaults are applied later by Project.
type Identity struct {
	ID         string
	FirstName  string
	LastName   string
	Name       string
	Email      string
	Role       model.Role
	Department string
	Semester   int
}

// NewIdentity builds an Identity from a located user record.
func NewIdentity(u *model.User) *Identity {
	return &Identity{
		ID:         strconv.FormatUint(uint64(u.ID), 10),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Name:       u.FullName(),
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Semester:   u.Semester,
	}
}
