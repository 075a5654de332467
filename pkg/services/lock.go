package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserLocker serializes generation per user: at most one concurrent
// generation run per user, so two runs can never race to write
// overlapping active sets. Locks for different users are independent.
type UserLocker interface {
	// TryLock acquires the user's generation lock, returning false if
	// another generation currently holds it. The returned release
	// function must be called when generation finishes.
	TryLock(ctx context.Context, userID uuid.UUID) (release func(), acquired bool, err error)
}

// redisLocker implements UserLocker with a Redis SET NX lock, giving
// single-writer discipline across service instances. The TTL guards
// against a crashed holder leaving the user locked forever.
type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a Redis-backed UserLocker.
func NewRedisLocker(client *redis.Client, ttl time.Duration) UserLocker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) TryLock(ctx context.Context, userID uuid.UUID) (func(), bool, error) {
	key := fmt.Sprintf("advisor:genlock:%s", userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire generation lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Only the holder's token may release; a slow holder must not
		// delete a lock re-acquired after its TTL expired.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		l.client.Eval(context.Background(), script, []string{key}, token)
	}
	return release, true, nil
}

// localLocker implements UserLocker with in-process per-user mutexes.
// Suitable only for single-instance deployments; used when Redis is
// not configured.
type localLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

// NewLocalLocker creates an in-process UserLocker.
func NewLocalLocker() UserLocker {
	return &localLocker{held: make(map[uuid.UUID]bool)}
}

func (l *localLocker) TryLock(_ context.Context, userID uuid.UUID) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[userID] {
		return nil, false, nil
	}
	l.held[userID] = true

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, userID)
	}
	return release, true, nil
}
