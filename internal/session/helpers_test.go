package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/storefront/internal/auth/authtest"
	"github.com/spec-kit/storefront/internal/domain"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "test:session:", time.Hour), mr
}

func mustToken(t *testing.T, role domain.Role, expiresAt time.Time) string {
	t.Helper()

	return authtest.Token(t, "user1234", role, expiresAt.Add(-time.Hour), expiresAt)
}
