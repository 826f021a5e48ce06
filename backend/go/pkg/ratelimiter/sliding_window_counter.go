package ratelimiter

import (
	"sync"
	"time"
)

const defaultNumBuckets = 10

// SlidingWindowCounter splits the window into numBuckets buckets and counts
// requests per bucket. It is cheaper than SlidingWindowLog and smoother at
// window edges than FixedWindowCounter.
type SlidingWindowCounter struct {
	limit          int
	numBuckets     int
	bucketSize     time.Duration
	buckets        []int
	currentBucket  int
	lastUpdateTime time.Time
	now            func() time.Time
	mutex          sync.Mutex
}

// NewSlidingWindowCounter creates a new SlidingWindowCounter. numBuckets <= 0 uses 10.
func NewSlidingWindowCounter(limit int, window time.Duration, numBuckets int) *SlidingWindowCounter {
	return newSlidingWindowCounter(limit, window, numBuckets, time.Now)
}

func newSlidingWindowCounter(limit int, window time.Duration, numBuckets int, now func() time.Time) *SlidingWindowCounter {
	if numBuckets <= 0 {
		numBuckets = defaultNumBuckets
	}
	bucketSize := window / time.Duration(numBuckets)
	if bucketSize <= 0 {
		bucketSize = time.Nanosecond
	}
	return &SlidingWindowCounter{
		limit:          limit,
		numBuckets:     numBuckets,
		bucketSize:     bucketSize,
		buckets:        make([]int, numBuckets),
		lastUpdateTime: now(),
		now:            now,
	}
}

// slide advances the current bucket and clears buckets that fell out of the window.
func (swc *SlidingWindowCounter) slide() {
	now := swc.now()
	steps := int(now.Sub(swc.lastUpdateTime) / swc.bucketSize)
	if steps <= 0 {
		return
	}

	if steps >= swc.numBuckets {
		for i := range swc.buckets {
			swc.buckets[i] = 0
		}
	} else {
		for i := 1; i <= steps; i++ {
			swc.buckets[(swc.currentBucket+i)%swc.numBuckets] = 0
		}
	}
	swc.currentBucket = (swc.currentBucket + steps) % swc.numBuckets
	// Keep the sub-bucket remainder so frequent calls still move the window.
	swc.lastUpdateTime = swc.lastUpdateTime.Add(time.Duration(steps) * swc.bucketSize)
}

// Allow admits the request if the total over all buckets is below limit.
func (swc *SlidingWindowCounter) Allow() bool {
	swc.mutex.Lock()
	defer swc.mutex.Unlock()

	swc.slide()

	total := 0
	for _, count := range swc.buckets {
		total += count
	}
	if total < swc.limit {
		swc.buckets[swc.currentBucket]++
		return true
	}
	return false
}
