package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/domain"
)

// Context is the explicitly owned session of one visitor for the duration of a request. It is
// opened from the store, mutated through SignIn/SignOut and the expiry monitor, and written back
// with Save.
type Context struct {
	store     Store
	record    Record
	claims    *domain.Claims
	decodeErr error
	dirty     bool
	isNew     bool
	now       func() time.Time
}

// Open restores the session for id, or starts a fresh guest session when id is empty or unknown.
func Open(ctx context.Context, store Store, id string) (*Context, error) {
	sc := &Context{store: store, now: time.Now}
	if id != "" {
		record, err := store.Load(ctx, id)
		switch {
		case err == nil:
			sc.record = *record
			sc.decode()
			return sc, nil
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	sc.record = Record{ID: uuid.NewString(), Theme: domain.ThemeLight}
	sc.dirty = true
	sc.isNew = true
	return sc, nil
}

// ID returns the session identifier carried in the cookie.
func (c *Context) ID() string {
	return c.record.ID
}

// IsNew reports whether Open started a fresh session.
func (c *Context) IsNew() bool {
	return c.isNew
}

// Session returns the authentication view used by the role gate.
func (c *Context) Session() *domain.Session {
	return &domain.Session{Token: c.record.Token, Claims: c.claims}
}

// DecodeError returns why the stored token could not be decoded, if it could not.
func (c *Context) DecodeError() error {
	return c.decodeErr
}

// Generation increments on every sign-in and sign-out.
func (c *Context) Generation() uint64 {
	return c.record.Generation
}

// SignIn replaces the stored token. Tokens whose claims cannot be read are rejected.
func (c *Context) SignIn(token string) error {
	claims, err := auth.DecodeClaims(token)
	if err != nil {
		return err
	}
	c.record.Token = token
	c.claims = claims
	c.decodeErr = nil
	c.record.Generation++
	c.dirty = true
	return nil
}

// SignOut clears the token. Theme and pending notices survive.
func (c *Context) SignOut() {
	c.record.Token = ""
	c.claims = nil
	c.decodeErr = nil
	c.record.SidebarOpen = false
	c.record.Generation++
	c.dirty = true
}

// SignOutIfGeneration signs out only when the stored session still has generation gen. It guards
// against a late backend response undoing a sign-in that happened after the call was issued.
func (c *Context) SignOutIfGeneration(ctx context.Context, gen uint64) (bool, error) {
	current := c.record.Generation
	record, err := c.store.Load(ctx, c.record.ID)
	switch {
	case err == nil:
		current = record.Generation
	case !errors.Is(err, ErrNotFound):
		return false, err
	}
	if current != gen {
		return false, nil
	}

	if record != nil {
		c.record = *record
		c.decode()
	}
	c.SignOut()
	return true, c.Save(ctx)
}

// PushNotice queues a one-time message for the next view.
func (c *Context) PushNotice(notice domain.Notice) {
	c.record.Notices = append(c.record.Notices, notice)
	c.dirty = true
}

// DrainNotices returns and clears the queued messages.
func (c *Context) DrainNotices() []domain.Notice {
	if len(c.record.Notices) == 0 {
		return nil
	}
	notices := c.record.Notices
	c.record.Notices = nil
	c.dirty = true
	return notices
}

// Theme returns the persisted theme preference.
func (c *Context) Theme() domain.Theme {
	if !c.record.Theme.Valid() {
		return domain.ThemeLight
	}
	return c.record.Theme
}

// SetTheme stores the theme preference.
func (c *Context) SetTheme(theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unsupported theme %q", theme)
	}
	if c.record.Theme != theme {
		c.record.Theme = theme
		c.dirty = true
	}
	return nil
}

// SidebarOpen reports the dashboard shell's sidebar state.
func (c *Context) SidebarOpen() bool {
	return c.record.SidebarOpen
}

// ToggleSidebar flips the sidebar state and returns the new value.
func (c *Context) ToggleSidebar() bool {
	c.record.SidebarOpen = !c.record.SidebarOpen
	c.dirty = true
	return c.record.SidebarOpen
}

// Dirty reports whether there are unsaved changes.
func (c *Context) Dirty() bool {
	return c.dirty
}

// Save writes the record back when it changed.
func (c *Context) Save(ctx context.Context) error {
	if !c.dirty {
		return nil
	}
	c.record.UpdatedAt = c.now().UTC()
	if err := c.store.Save(ctx, &c.record); err != nil {
		return err
	}
	c.dirty = false
	c.isNew = false
	return nil
}

func (c *Context) decode() {
	c.claims, c.decodeErr = nil, nil
	if c.record.Token == "" {
		return
	}
	c.claims, c.decodeErr = auth.DecodeClaims(c.record.Token)
}
