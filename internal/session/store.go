package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/storefront/internal/domain"
)

// ErrNotFound is returned when no record exists for a session ID.
var ErrNotFound = errors.New("session not found")

// Record is the persisted per-visitor state. Claims are not stored; they are decoded from Token.
type Record struct {
	ID          string          `json:"id"`
	Token       string          `json:"token,omitempty"`
	Theme       domain.Theme    `json:"theme"`
	SidebarOpen bool            `json:"sidebar_open"`
	Notices     []domain.Notice `json:"notices,omitempty"`
	Generation  uint64          `json:"generation"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Store persists session records.
type Store interface {
	Load(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, record *Record) error
}

// RedisStore keeps one JSON document per session. Saves replace the whole document in a single
// SET, so readers observe either the previous or the new record.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a store. A zero ttl keeps records forever.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Save(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(record.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}
