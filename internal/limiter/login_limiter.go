// Package limiter throttles repeated login attempts per email address.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultWindow applies when the configured window is not positive.
const DefaultWindow = 15 * time.Minute

// ErrLimiterUnavailable indicates the limiter backend is unreachable.
var ErrLimiterUnavailable = errors.New("login limiter backend unavailable")

// attemptScript counts an attempt and starts the window on the first one.
// INCR and PEXPIRE run as one step, so concurrent attempts cannot all read
// a count below the limit.
var attemptScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// LoginConfig holds configuration for the login limiter.
type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// Decision is the outcome of Attempt.
type Decision struct {
	Allowed    bool
	Attempts   int
	RetryAfter time.Duration
}

// LoginLimiter counts login attempts in a fixed window that starts at the first
// attempt. A successful login clears the count.
type LoginLimiter struct {
	redis  redis.UniversalClient
	config LoginConfig
}

// NewLoginLimiter creates a new limiter. A non-positive MaxAttempts disables it.
func NewLoginLimiter(redisClient redis.UniversalClient, cfg LoginConfig) *LoginLimiter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &LoginLimiter{redis: redisClient, config: cfg}
}

func (l *LoginLimiter) enabled() bool {
	return l != nil && l.redis != nil && l.config.MaxAttempts > 0
}

func (l *LoginLimiter) key(email string) string {
	return "login_fail:" + strings.ToLower(strings.TrimSpace(email))
}

// Attempt records a login attempt for email before the password is checked and
// reports whether it may proceed. The backend being down allows the attempt and
// returns ErrLimiterUnavailable.
func (l *LoginLimiter) Attempt(ctx context.Context, email string) (Decision, error) {
	if !l.enabled() {
		return Decision{Allowed: true}, nil
	}

	res, err := attemptScript.Run(ctx, l.redis, []string{l.key(email)}, l.config.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if len(res) != 2 {
		return Decision{Allowed: true}, fmt.Errorf("%w: unexpected reply %v", ErrLimiterUnavailable, res)
	}

	count := int(res[0])
	if count <= l.config.MaxAttempts {
		return Decision{Allowed: true, Attempts: count}, nil
	}

	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl <= 0 {
		ttl = l.config.Window
	}
	return Decision{Allowed: false, Attempts: count, RetryAfter: ttl}, nil
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if !l.enabled() {
		return nil
	}
	if err := l.redis.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	return nil
}
