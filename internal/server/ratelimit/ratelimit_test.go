package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(config)
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.True(t, info.ResetTime.After(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("c", "/jobs", "GET")
		require.True(t, allowed)
	}
	allowed, info := limiter.Allow("c", "/jobs", "GET")
	require.False(t, allowed)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))

	clock.Advance(7 * time.Second)
	allowed, _ = limiter.Allow("c", "/jobs", "GET")
	assert.True(t, allowed)

	allowed, _ = limiter.Allow("c", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_DeniedRequestsDoNotConsume(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := limiter.Allow("c", "/jobs", "GET")
	require.True(t, allowed)
	for i := 0; i < 5; i++ {
		allowed, _ = limiter.Allow("c", "/jobs", "GET")
		require.False(t, allowed)
	}

	clock.Advance(2 * time.Minute)
	allowed, _ = limiter.Allow("c", "/jobs", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 20; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := limiter.Allow("192.168.1.1", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 20; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/generate", "POST")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
	})

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/generate", "POST")
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/generate", "POST")
	assert.False(t, allowed)

	allowed, info := limiter.Allow("c", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("other", "/generate", "POST")
	assert.True(t, allowed, "limits are per client")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/jobs", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_CleanupIdle(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	limiter.Allow("old", "/jobs", "GET")
	clock.Advance(2 * time.Hour)
	limiter.Allow("fresh", "/jobs", "GET")

	limiter.cleanupIdle()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.entries, 1)
	assert.Contains(t, limiter.entries, "fresh:/jobs:GET")
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter, _ := newTestLimiter(t, nil)

	allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name   string
		path   string
		method string
		want   int
	}{
		{"exact generate", "/generate", "POST", 10},
		{"prefix counter", "/counter/increment", "POST", 100},
		{"prefix settings", "/settings/api-key", "PUT", 10},
		{"method mismatch", "/generate", "GET", -1},
		{"no match", "/jobs", "GET", -1},
		{"health unlimited", "/health", "GET", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want < 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JOB_TRACKER_RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("JOB_TRACKER_RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("JOB_TRACKER_RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("JOB_TRACKER_RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
