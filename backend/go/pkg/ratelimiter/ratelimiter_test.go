package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTokenBucket_BurstThenRefill(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tb := newTokenBucket(2, 3, clock.now)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "request %d within burst", i+1)
	}
	assert.False(t, tb.Allow())

	clock.advance(500 * time.Millisecond) // one token at 2/s
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	clock.advance(time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow())
	}
	assert.False(t, tb.Allow(), "refill is capped at capacity")
}

func TestFixedWindowCounter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fwc := newFixedWindowCounter(2, time.Minute, clock.now)

	assert.True(t, fwc.Allow())
	assert.True(t, fwc.Allow())
	assert.False(t, fwc.Allow())

	clock.advance(time.Minute)
	assert.True(t, fwc.Allow())
}

func TestPerKey_IsolatesClients(t *testing.T) {
	limiter, err := NewPerKey(func() RateLimiter { return NewFixedWindowCounter(1, time.Hour) }, 10)
	require.NoError(t, err)

	assert.True(t, limiter.AllowKey("10.0.0.1"))
	assert.False(t, limiter.AllowKey("10.0.0.1"))
	assert.True(t, limiter.AllowKey("10.0.0.2"))
	assert.Equal(t, 2, limiter.Tracked())
}

func TestPerKey_BoundsTrackedKeys(t *testing.T) {
	limiter, err := NewPerKey(func() RateLimiter { return NewFixedWindowCounter(1, time.Hour) }, 2)
	require.NoError(t, err)

	limiter.AllowKey("a")
	limiter.AllowKey("b")
	limiter.AllowKey("c")
	assert.Equal(t, 2, limiter.Tracked())

	// "a" was evicted, so it starts with a fresh window.
	assert.True(t, limiter.AllowKey("a"))
}

func TestNewPerKey_Validation(t *testing.T) {
	_, err := NewPerKey(nil, 10)
	assert.Error(t, err)

	_, err = NewPerKey(func() RateLimiter { return NewTokenBucket(1, 1) }, 0)
	assert.Error(t, err)
}

func TestGlobal_SharesOneLimiter(t *testing.T) {
	g := Global{Limiter: NewFixedWindowCounter(1, time.Hour)}
	assert.True(t, g.AllowKey("a"))
	assert.False(t, g.AllowKey("b"))
}

func TestLeakyBucket_DrainsAtRate(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	lb := newLeakyBucket(2, 2, clock.now)

	assert.True(t, lb.Allow())
	assert.True(t, lb.Allow())
	assert.False(t, lb.Allow(), "bucket is full")

	clock.advance(500 * time.Millisecond) // one unit drained at 2/s
	assert.True(t, lb.Allow())
	assert.False(t, lb.Allow())

	clock.advance(time.Hour)
	assert.True(t, lb.Allow())
	assert.True(t, lb.Allow())
	assert.False(t, lb.Allow(), "water level never goes below empty")
}

func TestSlidingWindowLog(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	swl := newSlidingWindowLog(2, time.Minute, clock.now)

	assert.True(t, swl.Allow())
	clock.advance(30 * time.Second)
	assert.True(t, swl.Allow())
	assert.False(t, swl.Allow())

	// the first request leaves the window, the second is still inside
	clock.advance(30 * time.Second)
	assert.True(t, swl.Allow())
	assert.False(t, swl.Allow())

	clock.advance(31 * time.Second)
	assert.True(t, swl.Allow())
}

func TestSlidingWindowCounter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	swc := newSlidingWindowCounter(3, 10*time.Second, 10, clock.now)

	assert.True(t, swc.Allow())
	assert.True(t, swc.Allow())
	clock.advance(5 * time.Second)
	assert.True(t, swc.Allow())
	assert.False(t, swc.Allow())

	// two requests from the first bucket expire after a full window
	clock.advance(5 * time.Second)
	assert.True(t, swc.Allow())
	assert.True(t, swc.Allow())
	assert.False(t, swc.Allow())

	clock.advance(time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, swc.Allow())
	}
}

func TestSlidingWindowCounter_SlidesUnderSteadyTraffic(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	swc := newSlidingWindowCounter(1, 10*time.Second, 10, clock.now)

	assert.True(t, swc.Allow())
	for i := 0; i < 11; i++ {
		clock.advance(900 * time.Millisecond)
		assert.False(t, swc.Allow(), "call %d at %v", i+1, clock.t.Sub(time.Unix(0, 0)))
	}
	// 10.8s have passed, so the first bucket is out of the window
	clock.advance(900 * time.Millisecond)
	assert.True(t, swc.Allow())
}

func TestSlidingWindowCounter_DefaultBuckets(t *testing.T) {
	swc := NewSlidingWindowCounter(1, time.Second, 0)
	assert.Equal(t, defaultNumBuckets, swc.numBuckets)
	assert.True(t, swc.Allow())
	assert.False(t, swc.Allow())
}
