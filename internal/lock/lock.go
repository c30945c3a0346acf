package redlock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrLockHeld  = errors.New("lock is already held")
	ErrNotHolder = errors.New("lock expired or is held by someone else")
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// Locker is a single key SETNX lock. The value identifies the holder so only
// the holder can release it.
type Locker struct {
	client redis.UniversalClient
	key    string
	value  string
}

func NewLocker(client redis.UniversalClient, key, value string) *Locker {
	return &Locker{
		client: client,
		key:    key,
		value:  value,
	}
}

func (l *Locker) Key() string {
	return l.key
}

func (l *Locker) Lock(ctx context.Context, timeout time.Duration) error {
	ok, err := l.client.SetNX(ctx, l.key, l.value, timeout).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockHeld, l.key)
	}
	return nil
}

func (l *Locker) Unlock(ctx context.Context) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("%w: %s", ErrNotHolder, l.key)
	}
	return nil
}

// WaitLock retries Lock with a short random pause until it succeeds, the wait
// timeout passes or ctx is done.
func (l *Locker) WaitLock(ctx context.Context, lockTimeout, waitTimeout time.Duration) error {
	deadline := time.Now().Add(waitTimeout)
	for {
		err := l.Lock(ctx, lockTimeout)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("failed to acquire lock for key %s within %s: %w", l.key, waitTimeout, ErrLockHeld)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(10+rand.Intn(90)) * time.Millisecond):
		}
	}
}
