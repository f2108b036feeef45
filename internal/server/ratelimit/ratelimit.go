// Package ratelimit provides per-client request rate limiting for the local API.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an unused client limiter is kept
const idleTTL = time.Hour

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type entry struct {
	limiter    *rate.Limiter
	burst      int
	lastAccess time.Time
}

// Limiter keeps one token bucket per client, endpoint and method.
type Limiter struct {
	mu            sync.Mutex
	entries       map[string]*entry
	config        *Config
	now           func() time.Time
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       make(map[string]bool),
			Blacklist:       make(map[string]bool),
		}
	}

	limiter := &Limiter{
		entries: make(map[string]*entry),
		config:  config,
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup()
	}

	return limiter
}

// Allow reports whether a request from clientID to endpoint may proceed.
// A denied request does not consume a token.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}

	// Unlimited endpoint (health check)
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.getEntry(clientID+":"+endpoint+":"+method, endpointConfig, now)

	reservation := e.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	allowed := reservation.OK() && delay == 0
	if !allowed {
		reservation.CancelAt(now)
	}

	tokens := e.limiter.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))
	resetTime := now
	if missing := float64(e.burst) - tokens; missing > 0 {
		perToken := float64(time.Second) / float64(e.limiter.Limit())
		resetTime = now.Add(time.Duration(missing * perToken))
	}

	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		info.RetryAfter = delay
		if !reservation.OK() || info.RetryAfter <= 0 {
			info.RetryAfter = resetTime.Sub(now)
		}
	}
	return allowed, info
}

// getEntry must be called with l.mu held.
func (l *Limiter) getEntry(key string, cfg *EndpointConfig, now time.Time) *entry {
	e, ok := l.entries[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Limit
		}
		every := cfg.Window / time.Duration(cfg.Limit)
		e = &entry{limiter: rate.NewLimiter(rate.Every(every), burst), burst: burst}
		l.entries[key] = e
	}
	e.lastAccess = now
	return e
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupIdle()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupIdle drops limiters that have not been used within idleTTL.
func (l *Limiter) cleanupIdle() {
	cutoff := l.now().Add(-idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastAccess.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
