package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
)

type memoryEntry struct {
	payload   []byte
	counter   uint64
	expiresAt time.Time
}

// MemorySessionRepository is the single-instance session store used in development and tests.
type MemorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionRepository constructs an empty in-memory store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

func (r *MemorySessionRepository) load(key string) (memoryEntry, bool) {
	entry, ok := r.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		delete(r.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (r *MemorySessionRepository) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(ttl)
}

// Get unmarshals the stored value into dest.
func (r *MemorySessionRepository) Get(ctx context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	entry, ok := r.load(key)
	r.mu.Unlock()
	if !ok || entry.payload == nil {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal session value for %s: %w", key, err)
	}
	return nil
}

// Set stores value with a TTL.
func (r *MemorySessionRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session value for %s: %w", key, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = memoryEntry{payload: payload, expiresAt: r.expiry(ttl)}
	return nil
}

// Delete removes a key.
func (r *MemorySessionRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

// Incr bumps a counter and refreshes its TTL.
func (r *MemorySessionRepository) Incr(ctx context.Context, key string, ttl time.Duration) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, _ := r.load(key)
	entry.counter++
	entry.expiresAt = r.expiry(ttl)
	r.entries[key] = entry
	return entry.counter, nil
}

// SetIfCounter stores value only if counterKey still holds expected.
func (r *MemorySessionRepository) SetIfCounter(ctx context.Context, key string, value interface{}, counterKey string, expected uint64, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal session value for %s: %w", key, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	counter, _ := r.load(counterKey)
	if counter.counter != expected {
		return false, nil
	}
	r.entries[key] = memoryEntry{payload: payload, expiresAt: r.expiry(ttl)}
	return true, nil
}

// Lock takes a short-lived exclusive marker.
func (r *MemorySessionRepository) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lockKey := "lock:" + key
	if _, held := r.load(lockKey); held {
		return false, nil
	}
	r.entries[lockKey] = memoryEntry{expiresAt: r.expiry(ttl)}
	return true, nil
}

// Unlock releases a marker taken with Lock.
func (r *MemorySessionRepository) Unlock(ctx context.Context, key string) error {
	return r.Delete(ctx, "lock:"+key)
}
