package domain

import "strings"

// AccessKind enumerates the access requirement variants a route may declare.
type AccessKind uint8

const (
	AccessPublic AccessKind = iota
	AccessGuestOnly
	AccessRoles
	AccessRegisterOnly
)

func (k AccessKind) String() string {
	switch k {
	case AccessPublic:
		return "PUBLIC"
	case AccessGuestOnly:
		return "GUEST_ONLY"
	case AccessRoles:
		return "ROLES"
	case AccessRegisterOnly:
		return "REGISTER_ONLY"
	default:
		return "UNKNOWN"
	}
}

// Access is the requirement attached to a route. Roles is only meaningful for AccessRoles.
type Access struct {
	Kind  AccessKind
	Roles RoleSet
}

// Public admits everyone.
func Public() Access { return Access{Kind: AccessPublic} }

// GuestOnly admits visitors without an authenticated session.
func GuestOnly() Access { return Access{Kind: AccessGuestOnly} }

// RegisterOnly admits visitors midway through registration.
func RegisterOnly() Access { return Access{Kind: AccessRegisterOnly} }

// RequireRoles admits authenticated, unexpired sessions holding one of the roles.
func RequireRoles(roles ...Role) Access {
	return Access{Kind: AccessRoles, Roles: NewRoleSet(roles...)}
}

func (a Access) String() string {
	if a.Kind != AccessRoles {
		return a.Kind.String()
	}
	names := make([]string, 0, 3)
	for _, role := range a.Roles.Roles() {
		names = append(names, string(role))
	}
	return a.Kind.String() + "(" + strings.Join(names, ",") + ")"
}

// Outcome is the result of a gate evaluation.
type Outcome string

const (
	OutcomeAllow    Outcome = "ALLOW"
	OutcomeRedirect Outcome = "REDIRECT"
)

// Decision is derived per navigation and never persisted.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
}

// Allow builds an ALLOW decision.
func Allow() Decision { return Decision{Outcome: OutcomeAllow} }

// Redirect builds a REDIRECT decision to target.
func Redirect(target string) Decision { return Decision{Outcome: OutcomeRedirect, Target: target} }

// Allowed reports whether the decision admits the navigation.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllow }
