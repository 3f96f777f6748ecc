package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, cfg LoginConfig) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, cfg), mr
}

func TestLoginLimiterLocksAfterMaxAttempts(t *testing.T) {
	l, mr := newLimiter(t, LoginConfig{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Attempt(ctx, "sales1@test.com")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d", i)
		assert.Equal(t, i, d.Attempts)
	}

	d, err := l.Attempt(ctx, "SALES1@test.com ")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Attempt(ctx, "sales1@test.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Attempts)
}

func TestLoginLimiterConcurrentAttempts(t *testing.T) {
	l, _ := newLimiter(t, LoginConfig{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Attempt(ctx, "sales1@test.com")
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), allowed.Load())
}

func TestLoginLimiterReset(t *testing.T) {
	l, mr := newLimiter(t, LoginConfig{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	_, err := l.Attempt(ctx, "manager@test.com")
	require.NoError(t, err)
	assert.True(t, mr.Exists("login_fail:manager@test.com"))

	require.NoError(t, l.Reset(ctx, "manager@test.com"))
	assert.False(t, mr.Exists("login_fail:manager@test.com"))

	d, err := l.Attempt(ctx, "manager@test.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLoginLimiterNonPositiveWindowFallsBack(t *testing.T) {
	l, mr := newLimiter(t, LoginConfig{MaxAttempts: 1, Window: 0})
	ctx := context.Background()

	_, err := l.Attempt(ctx, "a@test.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow, mr.TTL("login_fail:a@test.com"))

	d, err := l.Attempt(ctx, "a@test.com")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	mr.FastForward(DefaultWindow + time.Second)
	d, err = l.Attempt(ctx, "a@test.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLoginLimiterDisabled(t *testing.T) {
	l, mr := newLimiter(t, LoginConfig{MaxAttempts: 0})
	ctx := context.Background()

	d, err := l.Attempt(ctx, "a@test.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.False(t, mr.Exists("login_fail:a@test.com"))

	var nilLimiter *LoginLimiter
	d, err = nilLimiter.Attempt(ctx, "a@test.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLoginLimiterBackendDown(t *testing.T) {
	l, mr := newLimiter(t, LoginConfig{MaxAttempts: 3, Window: time.Minute})
	mr.Close()

	d, err := l.Attempt(context.Background(), "a@test.com")
	assert.ErrorIs(t, err, ErrLimiterUnavailable)
	assert.True(t, d.Allowed)
}
