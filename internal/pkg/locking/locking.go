package locking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned once the bounded retries are exhausted.
// Callers surface it as a retryable concurrency conflict.
var ErrNotAcquired = errors.New("lock not acquired")

const (
	defaultTries      = 16
	defaultRetryDelay = 50 * time.Millisecond
	defaultExpiry     = 8 * time.Second
)

// Locker serializes read-check-write sequences per key. All ledger
// mutations for one user run under the same key.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

type RedsyncLocker struct {
	rs *redsync.Redsync
}

func NewRedsyncLocker(client redis.UniversalClient) *RedsyncLocker {
	pool := goredis.NewPool(client)
	return &RedsyncLocker{redsync.New(pool)}
}

func (l *RedsyncLocker) Acquire(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(key,
		redsync.WithTries(defaultTries),
		redsync.WithRetryDelay(defaultRetryDelay),
		redsync.WithExpiry(defaultExpiry),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.Join(ErrNotAcquired, err)
	}

	release := func() {
		// nolint:errcheck
		mutex.Unlock()
	}
	return release, nil
}

// LocalLocker is an in-process Locker for single-node deployments and
// tests. Same bounded-retry semantics as the redsync implementation.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}

	Tries      int
	RetryDelay time.Duration
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held:       make(map[string]struct{}),
		Tries:      defaultTries,
		RetryDelay: defaultRetryDelay,
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	for i := 0; i < l.Tries; i++ {
		l.mu.Lock()
		_, busy := l.held[key]
		if !busy {
			l.held[key] = struct{}{}
			l.mu.Unlock()
			release := func() {
				l.mu.Lock()
				delete(l.held, key)
				l.mu.Unlock()
			}
			return release, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.RetryDelay):
		}
	}

	return nil, ErrNotAcquired
}
