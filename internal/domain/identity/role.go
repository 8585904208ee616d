package identity

// Role represents the marketplace role of a user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// CanSell returns true if the role is allowed to manage listings
func (r Role) CanSell() bool {
	return r == RoleSeller || r == RoleAdmin
}

// RequiresApproval returns true if accounts with this role must be
// approved by an admin before gaining access to role operations
func (r Role) RequiresApproval() bool {
	return r == RoleSeller
}
