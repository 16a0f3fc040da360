package session

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/domain"
)

func TestOpenStartsGuestSession(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "unknown"} {
		sc, err := Open(ctx, store, id)
		if err != nil {
			t.Fatalf("Open(%q) error = %v", id, err)
		}
		if !sc.IsNew() || sc.ID() == "" || sc.ID() == id {
			t.Errorf("Open(%q) did not start a fresh session: id=%q new=%v", id, sc.ID(), sc.IsNew())
		}
		if sc.Session().HasToken() {
			t.Errorf("fresh session has a token")
		}
		if sc.Theme() != domain.ThemeLight {
			t.Errorf("Theme() = %q", sc.Theme())
		}
	}
}

func TestSignInPersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()
	token := mustToken(t, domain.RoleCustomer, time.Now().Add(time.Hour))

	sc, err := Open(ctx, store, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := sc.SignIn(token); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if err := sc.SetTheme(domain.ThemeDark); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	if err := sc.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored, err := Open(ctx, store, sc.ID())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if restored.IsNew() {
		t.Fatal("restored session reported as new")
	}
	if !auth.Authenticated(restored.Session(), time.Now()) {
		t.Fatal("restored session is not authenticated")
	}
	if restored.Session().Claims.Role != domain.RoleCustomer {
		t.Errorf("Role = %q", restored.Session().Claims.Role)
	}
	if restored.Theme() != domain.ThemeDark {
		t.Errorf("Theme() = %q", restored.Theme())
	}
	if restored.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", restored.Generation())
	}
}

func TestSignInRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	sc, err := Open(context.Background(), store, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := sc.SignIn("garbage"); err == nil {
		t.Fatal("SignIn() accepted a malformed token")
	}
	if sc.Session().HasToken() || sc.Generation() != 0 {
		t.Fatal("failed SignIn changed the session")
	}
}

func TestSignOutKeepsPreferences(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	sc, _ := Open(context.Background(), store, "")
	_ = sc.SignIn(mustToken(t, domain.RoleAdmin, time.Now().Add(time.Hour)))
	_ = sc.SetTheme(domain.ThemeDark)
	sc.ToggleSidebar()

	sc.SignOut()

	if sc.Session().HasToken() || sc.Session().Claims != nil {
		t.Fatal("SignOut left the token behind")
	}
	if sc.Theme() != domain.ThemeDark {
		t.Error("SignOut reset the theme")
	}
	if sc.SidebarOpen() {
		t.Error("SignOut left the sidebar open")
	}
	if sc.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", sc.Generation())
	}
}

func TestSignOutIfGeneration(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	sc, _ := Open(ctx, store, "")
	_ = sc.SignIn(mustToken(t, domain.RoleCustomer, time.Now().Add(time.Hour)))
	if err := sc.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	issued := sc.Generation()

	// A second request signs in again while the first one's backend call is in flight.
	other, _ := Open(ctx, store, sc.ID())
	_ = other.SignIn(mustToken(t, domain.RoleCustomer, time.Now().Add(2*time.Hour)))
	if err := other.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cleared, err := sc.SignOutIfGeneration(ctx, issued)
	if err != nil {
		t.Fatalf("SignOutIfGeneration() error = %v", err)
	}
	if cleared {
		t.Fatal("stale response signed out a newer session")
	}

	cleared, err = other.SignOutIfGeneration(ctx, other.Generation())
	if err != nil || !cleared {
		t.Fatalf("SignOutIfGeneration() = %v, %v; want true, nil", cleared, err)
	}
	final, _ := Open(ctx, store, sc.ID())
	if final.Session().HasToken() {
		t.Fatal("session still holds a token")
	}
}

func TestNoticesDrainOnce(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	sc, _ := Open(context.Background(), store, "")
	sc.PushNotice(domain.Notice{Level: domain.NoticeInfo, Message: "a"})
	sc.PushNotice(domain.Notice{Level: domain.NoticeError, Message: "b"})

	if got := sc.DrainNotices(); len(got) != 2 || got[0].Message != "a" {
		t.Fatalf("DrainNotices() = %v", got)
	}
	if got := sc.DrainNotices(); got != nil {
		t.Fatalf("second DrainNotices() = %v, want nil", got)
	}
}

func TestSaveSkipsCleanSession(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()
	sc, _ := Open(ctx, store, "")
	if err := sc.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	mr.Del("test:session:" + sc.ID())

	if sc.Dirty() {
		t.Fatal("session dirty after save")
	}
	if err := sc.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if mr.Exists("test:session:" + sc.ID()) {
		t.Fatal("clean session was written again")
	}
	if err := sc.SetTheme("sepia"); err == nil {
		t.Fatal("SetTheme accepted an unknown theme")
	}
}
