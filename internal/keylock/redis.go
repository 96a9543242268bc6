package keylock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL       = 10 * time.Second
	defaultRetryInterval = 20 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// Deletes the lock only while it still carries the caller's token, so an
// expired lock re-acquired by someone else is never released by mistake.
var releaseLockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end

	return 0
`)

type RedisLocker struct {
	client        redis.UniversalClient
	logger        *slog.Logger
	prefix        string
	ttl           time.Duration
	maxWait       time.Duration
	retryInterval time.Duration
	newToken      func() string
}

type RedisOption func(*RedisLocker)

// WithTTL sets the expiry of a held lock. It must comfortably exceed the
// longest critical section.
func WithTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithMaxWait(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		l.maxWait = d
	}
}

func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.retryInterval = d
		}
	}
}

func WithPrefix(prefix string) RedisOption {
	return func(l *RedisLocker) {
		l.prefix = prefix
	}
}

func NewRedisLocker(client redis.UniversalClient, logger *slog.Logger, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:        client,
		logger:        logger,
		prefix:        "lock:",
		ttl:           defaultLockTTL,
		retryInterval: defaultRetryInterval,
		newToken:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.maxWait)
		defer cancel()
	}

	lockKey := l.prefix + key
	token := l.newToken()

	for {
		acquired, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrTimeout, key, ctx.Err())
			}

			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if acquired {
			break
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %w", ErrTimeout, key, ctx.Err())
		case <-timer.C:
		}
	}

	// release must run even after the request context is cancelled
	releaseCtx := context.WithoutCancel(ctx)

	var once sync.Once
	return func() {
		once.Do(func() { l.release(releaseCtx, lockKey, token) })
	}, nil
}

func (l *RedisLocker) release(ctx context.Context, lockKey, token string) {
	ctx, cancel := context.WithTimeout(ctx, releaseTimeout)
	defer cancel()

	err := releaseLockScript.Run(ctx, l.client, []string{lockKey}, token).Err()
	if err != nil {
		l.logger.Error("failed to release lock", "key", lockKey, "error", err)
	}
}
