// Package redis keeps short-lived menu builder state in Redis, with an
// in-process fallback when Redis is not configured.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"see-eat-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "menubuilder:"

// DefaultWorkingCopyTTL bounds how long an abandoned builder session is kept.
const DefaultWorkingCopyTTL = 24 * time.Hour

func workingCopyKey(uid, restaurantID string) string {
	return keyPrefix + uid + ":" + restaurantID
}

// NewWorkingCopyRepository stores working copies in Redis, or in process
// memory when client is nil.
func NewWorkingCopyRepository(client *goredis.Client, ttl time.Duration) domain.WorkingCopyRepository {
	if ttl <= 0 {
		ttl = DefaultWorkingCopyTTL
	}
	if client == nil {
		return NewInMemoryWorkingCopies(ttl)
	}
	return &workingCopyRepository{client: client, ttl: ttl}
}

type workingCopyRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func (r *workingCopyRepository) Get(ctx context.Context, uid, restaurantID string) (*domain.Menu, error) {
	raw, err := r.client.Get(ctx, workingCopyKey(uid, restaurantID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get working copy: %w", err)
	}
	var m domain.Menu
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode working copy: %w", err)
	}
	return &m, nil
}

func (r *workingCopyRepository) Put(ctx context.Context, uid, restaurantID string, m *domain.Menu) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, workingCopyKey(uid, restaurantID), raw, r.ttl).Err()
}

func (r *workingCopyRepository) Delete(ctx context.Context, uid, restaurantID string) error {
	return r.client.Del(ctx, workingCopyKey(uid, restaurantID)).Err()
}

// DeleteAllForUser drops every working copy of uid and reports how many were removed.
func (r *workingCopyRepository) DeleteAllForUser(ctx context.Context, uid string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	pattern := keyPrefix + uid + ":*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan working copies: %w", err)
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete working copies: %w", err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// InMemoryWorkingCopies is the fallback used when Redis is unavailable.
// Entries are serialized so callers never share a menu value.
type InMemoryWorkingCopies struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemoryWorkingCopies(ttl time.Duration) *InMemoryWorkingCopies {
	return &InMemoryWorkingCopies{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *InMemoryWorkingCopies) Get(_ context.Context, uid, restaurantID string) (*domain.Menu, error) {
	key := workingCopyKey(uid, restaurantID)
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	var m domain.Menu
	if err := json.Unmarshal(e.raw, &m); err != nil {
		return nil, fmt.Errorf("decode working copy: %w", err)
	}
	return &m, nil
}

func (s *InMemoryWorkingCopies) Put(_ context.Context, uid, restaurantID string, m *domain.Menu) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[workingCopyKey(uid, restaurantID)] = memoryEntry{raw: raw, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *InMemoryWorkingCopies) Delete(_ context.Context, uid, restaurantID string) error {
	s.mu.Lock()
	delete(s.entries, workingCopyKey(uid, restaurantID))
	s.mu.Unlock()
	return nil
}

func (s *InMemoryWorkingCopies) DeleteAllForUser(_ context.Context, uid string) (int, error) {
	prefix := keyPrefix + uid + ":"
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			n++
		}
	}
	return n, nil
}
