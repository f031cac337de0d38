package identity

// Role is the single access role assigned to a user
type Role string

const (
	RolePending    Role = "Pending"
	RoleAdmin      Role = "Admin"
	RoleLogistics  Role = "Logistics"
	RolePurchasing Role = "Purchasing"
	RolePayments   Role = "Payments"
)

// AllRoles lists every valid role
var AllRoles = []Role{RolePending, RoleAdmin, RoleLogistics, RolePurchasing, RolePayments}

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RolePending, RoleAdmin, RoleLogistics, RolePurchasing, RolePayments:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// RoleNames converts roles to plain strings, for actor checks
func RoleNames(roles ...Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
