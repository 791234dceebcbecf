package enums

import "fmt"

// Role is the platform-wide user role.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleRetailer   Role = "retailer"
	RoleWholesaler Role = "wholesaler"
)

var allRoles = []Role{RoleAdmin, RoleRetailer, RoleWholesaler}

func (r Role) IsValid() bool {
	for _, candidate := range allRoles {
		if r == candidate {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes and validates a raw role string.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", value)
	}
	return role, nil
}
