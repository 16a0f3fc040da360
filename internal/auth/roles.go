package auth

import (
	"net/url"
	"time"

	"github.com/spec-kit/storefront/internal/domain"
)

// Evaluate decides whether the session may open a route declaring access. It performs no side
// effects; callers carry out the redirect.
func Evaluate(session *domain.Session, access domain.Access, requestedPath string, now time.Time) domain.Decision {
	switch access.Kind {
	case domain.AccessPublic:
		return domain.Allow()
	case domain.AccessGuestOnly:
		if !Authenticated(session, now) {
			return domain.Allow()
		}
		return domain.Redirect(session.Claims.Role.LandingPath())
	case domain.AccessRoles:
		if Authenticated(session, now) && access.Roles.Contains(session.Claims.Role) {
			return domain.Allow()
		}
		return domain.Redirect(signInTarget(access.Roles, requestedPath))
	case domain.AccessRegisterOnly:
		if RegisterInProgress(session, now) {
			return domain.Allow()
		}
		return domain.Redirect(domain.PathRegister)
	default:
		return domain.Redirect(domain.PathLogin)
	}
}

func signInTarget(roles domain.RoleSet, requestedPath string) string {
	target := domain.PathLogin
	if roles.StaffOnly() {
		target = domain.PathStaffLogin
	}
	if requestedPath == "" {
		return target
	}
	return target + "?next=" + url.QueryEscape(requestedPath)
}
