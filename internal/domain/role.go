package domain

import "strings"

// Role enumerates the principal kinds carried in the bearer token.
type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
	// RoleRegister marks a visitor midway through registration, before activation.
	RoleRegister Role = "REGISTER"
)

// ParseRole maps a claim value onto a known role. Unknown values map to RoleGuest.
func ParseRole(value string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleCustomer:
		return RoleCustomer
	case RoleStaff:
		return RoleStaff
	case RoleAdmin:
		return RoleAdmin
	case RoleRegister:
		return RoleRegister
	default:
		return RoleGuest
	}
}

// FullyAuthenticated reports whether the role belongs to an activated account.
func (r Role) FullyAuthenticated() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// LandingPath is where an authenticated principal is sent when it hits a guest-only page.
func (r Role) LandingPath() string {
	switch r {
	case RoleStaff, RoleAdmin:
		return PathDashboard
	default:
		return PathHome
	}
}

// RoleSet is a closed set of roles encoded as a bitmask.
type RoleSet uint8

const (
	roleBitCustomer RoleSet = 1 << iota
	roleBitStaff
	roleBitAdmin
)

// NewRoleSet builds a set from the given roles. Roles outside CUSTOMER/STAFF/ADMIN are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var set RoleSet
	for _, role := range roles {
		set |= role.bit()
	}
	return set
}

// Contains reports membership.
func (s RoleSet) Contains(role Role) bool {
	bit := role.bit()
	return bit != 0 && s&bit != 0
}

// Empty reports whether no role is admitted.
func (s RoleSet) Empty() bool {
	return s == 0
}

// Roles lists the members in a stable order.
func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, 3)
	for _, role := range []Role{RoleCustomer, RoleStaff, RoleAdmin} {
		if s.Contains(role) {
			roles = append(roles, role)
		}
	}
	return roles
}

// StaffOnly reports whether the set admits back-office roles but no customers.
func (s RoleSet) StaffOnly() bool {
	return !s.Empty() && !s.Contains(RoleCustomer)
}

func (r Role) bit() RoleSet {
	switch r {
	case RoleCustomer:
		return roleBitCustomer
	case RoleStaff:
		return roleBitStaff
	case RoleAdmin:
		return roleBitAdmin
	default:
		return 0
	}
}
