package pacing

import (
	"sync"
	"time"
)

// Default windows between iterations.
var (
	DefaultResourceDelay = Range{Base: 20 * time.Second, Spread: 10 * time.Second}
	DefaultTargetDelay   = Range{Base: 100 * time.Second, Spread: 50 * time.Second}
)

// Scheduler returns the delay to wait after an iteration. It never blocks.
type Scheduler struct {
	mu       sync.Mutex
	resource Range
	target   Range
	rnd      Rand
}

// NewScheduler creates a Scheduler. A nil rnd uses DefaultRand.
func NewScheduler(resource, target Range, rnd Rand) *Scheduler {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Scheduler{
		resource: resource,
		target:   target,
		rnd:      rnd,
	}
}

// AfterResource returns the wait after the resource at index i of n.
// ok is false after the last resource of a target.
func (s *Scheduler) AfterResource(i, n int) (d time.Duration, ok bool) {
	return s.next(s.resource, i, n)
}

// AfterTarget returns the wait after the target at index i of n.
// ok is false after the last target.
func (s *Scheduler) AfterTarget(i, n int) (d time.Duration, ok bool) {
	return s.next(s.target, i, n)
}

// ResourceRange returns the inter-resource window.
func (s *Scheduler) ResourceRange() Range { return s.resource }

// TargetRange returns the inter-target window.
func (s *Scheduler) TargetRange() Range { return s.target }

func (s *Scheduler) next(r Range, i, n int) (time.Duration, bool) {
	if i >= n-1 {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Draw(s.rnd, r), true
}
