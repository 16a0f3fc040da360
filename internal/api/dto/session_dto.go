package dto

import (
	"time"

	"github.com/spec-kit/storefront/internal/domain"
)

// SessionResponse describes the visitor's session to the shell.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Role          domain.Role  `json:"role"`
	Subject       string       `json:"subject,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	Theme         domain.Theme `json:"theme"`
	SidebarOpen   bool         `json:"sidebar_open"`
}

// ThemeRequest updates the theme preference.
type ThemeRequest struct {
	Theme domain.Theme `json:"theme"`
}

// SidebarResponse reports the sidebar state after a toggle.
type SidebarResponse struct {
	SidebarOpen bool `json:"sidebar_open"`
}
