package ratelimiter

import (
	"sync"
	"time"
)

// LeakyBucket smooths bursts into a steady outflow. Each request adds one unit of
// water; the bucket drains at rate units per second and rejects requests when full.
type LeakyBucket struct {
	rate         float64
	capacity     float64
	waterLevel   float64
	lastLeakTime time.Time
	now          func() time.Time
	mutex        sync.Mutex
}

// NewLeakyBucket creates an empty LeakyBucket.
// rate: requests drained per second.
// capacity: the maximum burst size.
func NewLeakyBucket(rate float64, capacity int) *LeakyBucket {
	return newLeakyBucket(rate, capacity, time.Now)
}

func newLeakyBucket(rate float64, capacity int, now func() time.Time) *LeakyBucket {
	return &LeakyBucket{
		rate:         rate,
		capacity:     float64(capacity),
		lastLeakTime: now(),
		now:          now,
	}
}

// Allow drains the bucket for the elapsed time, then admits the request if there is room.
func (lb *LeakyBucket) Allow() bool {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()

	now := lb.now()
	if elapsed := now.Sub(lb.lastLeakTime); elapsed > 0 {
		lb.waterLevel -= elapsed.Seconds() * lb.rate
		if lb.waterLevel < 0 {
			lb.waterLevel = 0
		}
		lb.lastLeakTime = now
	}

	if lb.waterLevel+1 <= lb.capacity {
		lb.waterLevel++
		return true
	}
	return false
}
