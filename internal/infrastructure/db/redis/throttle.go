package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures   = 5
	defaultFailureWindow = 15 * time.Minute
	keyPrefix            = "login_failures:"
)

// recordFailureScript: KEYS[1] counter, ARGV[1] window in milliseconds.
var recordFailureScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// LoginThrottle counts failed logins per username in a fixed window.
// Key format: login_failures:<username>
type LoginThrottle struct {
	client      redis.Cmdable
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle locks a username once maxFailures failures land inside
// window. The window starts at the first failure and is not extended.
func NewLoginThrottle(client redis.Cmdable, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultFailureWindow
	}
	return &LoginThrottle{client: client, maxFailures: int64(maxFailures), window: window}
}

func (t *LoginThrottle) Locked(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle lookup: %w", err)
	}
	return n >= t.maxFailures, nil
}

// RecordFailure increments the counter and, when it has no TTL yet, starts
// the window in the same script so a counter can never outlive its window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	if err := recordFailureScript.Run(ctx, t.client, []string{key(username)}, t.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if err := t.client.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func key(username string) string {
	return keyPrefix + username
}
