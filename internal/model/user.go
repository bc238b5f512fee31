package model

import "time"

// Role is the institutional role carried on a user and into the session.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User represents a row of the users table.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FirstName  string    `json:"first_name" gorm:"size:100;not null"`
	LastName   string    `json:"last_name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password   string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed in JSON
	Role       Role      `json:"role" gorm:"column:role_id;size:32;not null;default:'student'"`
	Department string    `json:"department" gorm:"size:100"`
	Semester   int       `json:"semester" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at"`
}

// FullName is the display name shown for the user.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
