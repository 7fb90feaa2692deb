package match

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store keeps live matches between moves.
type Store interface {
	Save(ctx context.Context, m *Match) error
	Load(ctx context.Context, id string) (*Match, error)
	Delete(ctx context.Context, id string) error
}

// DefaultTTL is how long an idle match is kept.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps each match as JSON under match:<id>, expiring after TTL
// without activity.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func matchKey(id string) string { return "match:" + id }

func (s *RedisStore) Save(ctx context.Context, m *Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to marshal match")
	}
	if err := s.rdb.Set(ctx, matchKey(m.ID), data, s.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store match %s", m.ID)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Match, error) {
	data, err := s.rdb.Get(ctx, matchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get match %s", id)
	}
	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal match %s", id)
	}
	return &m, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, matchKey(id)).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete match %s", id)
	}
	return nil
}

// MemoryStore keeps matches in process. Matches are stored serialized so
// callers never share boards with the store, same as with Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{matches: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, m *Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to marshal match")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Match, error) {
	s.mu.RLock()
	data, ok := s.matches[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal match %s", id)
	}
	return &m, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

// Len reports how many matches are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}
