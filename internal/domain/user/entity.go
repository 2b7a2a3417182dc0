package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can review team attendance
	RoleEmployee Role = "employee" // Regular employee
)

// Principal is the authenticated caller as carried in the access token.
type Principal struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsOwner checks if user is company owner
func (p Principal) IsOwner() bool {
	return p.Role == RoleOwner
}

// IsManager checks if user is manager or owner
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}
