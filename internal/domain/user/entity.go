package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Reviews attendance and runs payroll
	RoleEmployee Role = "employee" // Regular employee
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleManager || r == RoleEmployee
}

type User struct {
	ID              string
	CompanyID       *string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID   *string
	EmployeeName *string
}

// IsOwner checks if user is company owner
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsManager checks if user is manager or owner
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleOwner
}
