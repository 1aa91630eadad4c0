package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
)

// commitIfCurrent writes KEYS[1] only while the counter at KEYS[2] still equals ARGV[2].
var commitIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if current == ARGV[2] then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
  return 1
end
return 0
`)

// SessionRepository keeps dialog and schedule state in Redis so any instance can serve a session.
type SessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionRepository constructs a Redis-backed session repository.
func NewSessionRepository(client *redis.Client, logger *zap.Logger) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepository{client: client, logger: logger}
}

// Get retrieves and unmarshals the stored value into the provided destination.
func (r *SessionRepository) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal session value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *SessionRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete removes a key.
func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Incr bumps a counter and refreshes its TTL.
func (r *SessionRepository) Incr(ctx context.Context, key string, ttl time.Duration) (uint64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return uint64(incr.Val()), nil
}

// SetIfCounter stores value only if counterKey still holds expected.
func (r *SessionRepository) SetIfCounter(ctx context.Context, key string, value interface{}, counterKey string, expected uint64, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal session value for %s: %w", key, err)
	}

	res, err := commitIfCurrent.Run(ctx, r.client, []string{key, counterKey}, payload, strconv.FormatUint(expected, 10), ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis commit %s: %w", key, err)
	}
	return res == 1, nil
}

// Lock takes a short-lived exclusive marker.
func (r *SessionRepository) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, "lock:"+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock %s: %w", key, err)
	}
	return ok, nil
}

// Unlock releases a marker taken with Lock.
func (r *SessionRepository) Unlock(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, "lock:"+key).Err(); err != nil {
		return fmt.Errorf("redis unlock %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *SessionRepository) Close() error {
	return r.client.Close()
}
