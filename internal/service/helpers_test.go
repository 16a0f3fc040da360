package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/storefront/internal/auth/authtest"
	"github.com/spec-kit/storefront/internal/backend"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/session"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

var testNow = time.Unix(1_700_000_000, 0)

func newSessionStore(t *testing.T) *session.RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client, "svc:session:", time.Hour)
}

func openSession(t *testing.T, store session.Store) *session.Context {
	t.Helper()

	sc, err := session.Open(context.Background(), store, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return sc
}

func tokenFor(t *testing.T, subject string, role domain.Role, expiresIn time.Duration) string {
	t.Helper()

	return authtest.Token(t, subject, role, testNow.Add(-time.Minute), testNow.Add(expiresIn))
}

// recorder captures published events.
type recorder struct {
	events []events.Event
}

func newRecorder() (*recorder, events.Dispatcher) {
	r := &recorder{}
	d := events.NewInMemoryDispatcher()
	for _, eventType := range []events.EventType{events.EventSignedIn, events.EventSignedOut, events.EventSessionExpired, events.EventAccessDenied} {
		d.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			r.events = append(r.events, e)
			return nil
		})
	}
	return r, d
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeAuthBackend struct {
	loginToken    string
	loginErr      error
	registerToken string
	confirmedWith string
	calls         int
}

func (f *fakeAuthBackend) Login(context.Context, backend.Credentials) (string, error) {
	f.calls++
	return f.loginToken, f.loginErr
}

func (f *fakeAuthBackend) Register(context.Context, backend.Registration) (string, error) {
	f.calls++
	return f.registerToken, nil
}

func (f *fakeAuthBackend) ConfirmRegistration(_ context.Context, token, _ string) (string, error) {
	f.calls++
	f.confirmedWith = token
	return "Account activated", nil
}

func (f *fakeAuthBackend) ForgotPassword(context.Context, string) (string, error) {
	f.calls++
	return "Mail sent", nil
}

func (f *fakeAuthBackend) ResetPassword(context.Context, string, string) (string, error) {
	f.calls++
	return "Password changed", nil
}

func domainErr(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()

	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DomainError", err)
	}
	return de
}
