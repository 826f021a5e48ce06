package ratelimiter

import (
	"fmt"
	"sync"

	"NEF_Emulator/backend/go/pkg/util"
)

// RateLimiter is the interface for rate limiting a single stream of requests.
type RateLimiter interface {
	// Allow returns true if the request is allowed, otherwise returns false.
	Allow() bool
}

// KeyedLimiter rate limits requests per key (client address, user id, ...).
type KeyedLimiter interface {
	AllowKey(key string) bool
}

// Factory builds a fresh limiter for a key seen for the first time.
type Factory func() RateLimiter

// PerKey keeps one limiter per key. The number of tracked keys is bounded by an
// LRU cache; the least recently seen client loses its state first.
type PerKey struct {
	newLimiter Factory
	limiters   *util.LRUCache[string, RateLimiter]
	mutex      sync.Mutex
}

// NewPerKey creates a PerKey limiter tracking at most maxKeys clients.
func NewPerKey(factory Factory, maxKeys int) (*PerKey, error) {
	if factory == nil {
		return nil, fmt.Errorf("ratelimiter: nil factory")
	}
	cache, err := util.NewWithConfig(util.CacheConfig[string, RateLimiter]{Capacity: maxKeys})
	if err != nil {
		return nil, fmt.Errorf("ratelimiter: %w", err)
	}
	return &PerKey{newLimiter: factory, limiters: cache}, nil
}

// AllowKey reports whether a request for key is allowed.
func (p *PerKey) AllowKey(key string) bool {
	p.mutex.Lock()
	limiter, ok := p.limiters.Get(key)
	if !ok {
		limiter = p.newLimiter()
		p.limiters.Put(key, limiter, 1)
	}
	p.mutex.Unlock()

	return limiter.Allow()
}

// Tracked returns the number of keys currently holding limiter state.
func (p *PerKey) Tracked() int {
	return p.limiters.Len()
}

// Global adapts a single RateLimiter to KeyedLimiter; every key shares it.
type Global struct {
	Limiter RateLimiter
}

func (g Global) AllowKey(string) bool {
	return g.Limiter.Allow()
}
