package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// Role enumerates what a user may do.
type Role string

const (
	RoleInstructor     Role = "INSTRUCTOR"
	RoleDepartmentHead Role = "DEPARTMENT_HEAD"
	RoleBackOffice     Role = "BACK_OFFICE"
)

// User is the domain model for instructors and staff who submit or
// approve billing runs.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName renders the display name used in reporting views.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// RoleAssignment grants a role scoped to a department. Back-office
// assignments carry a nil department.
type RoleAssignment struct {
	ID           string
	UserID       string
	DepartmentID *string
	Role         Role
	CreatedAt    time.Time
}
