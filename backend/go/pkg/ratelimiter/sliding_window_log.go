package ratelimiter

import (
	"container/list"
	"sync"
	"time"
)

// SlidingWindowLog keeps the timestamp of every admitted request in the window.
// It is exact at window boundaries at the cost of O(limit) memory per key.
type SlidingWindowLog struct {
	limit  int
	window time.Duration
	log    *list.List // admitted timestamps, oldest first
	now    func() time.Time
	mutex  sync.Mutex
}

// NewSlidingWindowLog creates a new SlidingWindowLog.
func NewSlidingWindowLog(limit int, window time.Duration) *SlidingWindowLog {
	return newSlidingWindowLog(limit, window, time.Now)
}

func newSlidingWindowLog(limit int, window time.Duration, now func() time.Time) *SlidingWindowLog {
	return &SlidingWindowLog{
		limit:  limit,
		window: window,
		log:    list.New(),
		now:    now,
	}
}

// Allow drops timestamps that left the window and admits the request if fewer
// than limit remain.
func (swl *SlidingWindowLog) Allow() bool {
	swl.mutex.Lock()
	defer swl.mutex.Unlock()

	now := swl.now()
	boundary := now.Add(-swl.window)
	for e := swl.log.Front(); e != nil; e = swl.log.Front() {
		if e.Value.(time.Time).After(boundary) {
			break
		}
		swl.log.Remove(e)
	}

	if swl.log.Len() < swl.limit {
		swl.log.PushBack(now)
		return true
	}
	return false
}
