// Package keylock provides exclusive, context-aware locks keyed by string.
//
// LocalLocker serializes callers inside one process. RedisLocker extends the
// same guarantee across processes sharing a Redis instance.
package keylock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var ErrTimeout = errors.New("timed out waiting for lock")

type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned
	// function releases the lock and is safe to call more than once.
	Lock(ctx context.Context, key string) (func(), error)
}

// LockAll acquires every key in a fixed (sorted) order so that callers
// locking overlapping key sets cannot deadlock. Duplicate keys are locked once.
func LockAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	unlocks := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range sorted {
		unlock, err := l.Lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}

		unlocks = append(unlocks, unlock)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

type LocalLocker struct {
	mu      sync.Mutex
	locks   map[string]*localLock
	maxWait time.Duration
}

type localLock struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker returns an in-process locker. A positive maxWait bounds how
// long Lock waits in addition to the caller's context.
func NewLocalLocker(maxWait time.Duration) *LocalLocker {
	return &LocalLocker{
		locks:   make(map[string]*localLock),
		maxWait: maxWait,
	}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &localLock{sem: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	if l.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.maxWait)
		defer cancel()
	}

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lock, false)
		return nil, fmt.Errorf("%w: %s: %w", ErrTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, lock, true) })
	}, nil
}

func (l *LocalLocker) release(key string, lock *localLock, held bool) {
	if held {
		<-lock.sem
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

// size reports the number of keys currently tracked.
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
