package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where requests are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and requests are blocked.
	Open
	// HalfOpen lets a single trial request through to test recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker is the interface for the circuit breaker pattern.
type CircuitBreaker interface {
	// Execute runs req unless the circuit is open.
	Execute(req func() (interface{}, error)) (interface{}, error)
	// State returns the current state of the circuit breaker.
	State() State
}

// Option configures a breaker.
type Option func(*breaker)

// WithStateChange registers a callback invoked (outside the lock) on every transition.
func WithStateChange(fn func(from, to State)) Option {
	return func(b *breaker) {
		b.onStateChange = fn
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *breaker) {
		b.now = now
	}
}

type breaker struct {
	failureThreshold uint32
	successThreshold uint32
	timeout          time.Duration

	mutex                sync.Mutex
	state                State
	consecutiveSuccesses uint32
	consecutiveFailures  uint32
	openedAt             time.Time
	probing              bool // a half-open trial request is in flight

	now           func() time.Time
	onStateChange func(from, to State)
}

// New creates a circuit breaker.
// failureThreshold: consecutive failures that open the circuit.
// successThreshold: consecutive half-open successes that close it again.
// timeout: how long the circuit stays open before probing.
func New(failureThreshold, successThreshold uint32, timeout time.Duration, opts ...Option) CircuitBreaker {
	b := &breaker{
		failureThreshold: max(failureThreshold, 1),
		successThreshold: max(successThreshold, 1),
		timeout:          timeout,
		state:            Closed,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *breaker) State() State {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.state
}

func (b *breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	if err := b.before(); err != nil {
		return nil, err
	}
	res, err := req()
	b.after(err == nil)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (b *breaker) before() error {
	b.mutex.Lock()
	var transition func()
	defer func() {
		b.mutex.Unlock()
		if transition != nil {
			transition()
		}
	}()

	if b.state == Open && b.now().Sub(b.openedAt) >= b.timeout {
		transition = b.setState(HalfOpen)
	}

	switch b.state {
	case Open:
		return ErrCircuitOpen
	case HalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *breaker) after(success bool) {
	b.mutex.Lock()
	var transition func()
	defer func() {
		b.mutex.Unlock()
		if transition != nil {
			transition()
		}
	}()

	switch b.state {
	case HalfOpen:
		b.probing = false
		if !success {
			transition = b.setState(Open)
			return
		}
		b.consecutiveSuccesses++
		if b.consecutiveSuccesses >= b.successThreshold {
			transition = b.setState(Closed)
		}
	case Closed:
		if success {
			b.consecutiveFailures = 0
			return
		}
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.failureThreshold {
			transition = b.setState(Open)
		}
	}
}

// setState must be called with the lock held; the returned func fires the callback.
func (b *breaker) setState(to State) func() {
	from := b.state
	b.state = to
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
	b.probing = false
	if to == Open {
		b.openedAt = b.now()
	}
	if b.onStateChange == nil || from == to {
		return nil
	}
	cb := b.onStateChange
	return func() { cb(from, to) }
}
