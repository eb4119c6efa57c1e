package fairq

import (
	"sync"
	"time"
)

// captureSink records every event in order. Record is already serialized by
// the buffer's emit lock; the mutex only makes post-run reads race-clean.
type captureSink[T any] struct {
	mu     sync.Mutex
	events []Event[T]
}

func (s *captureSink[T]) Record(e Event[T]) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *captureSink[T]) all() []Event[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event[T], len(s.events))
	copy(out, s.events)
	return out
}

// values filters the recorded stream down to one role's payloads, in order.
func (s *captureSink[T]) values(role Role) []T {
	var out []T
	for _, e := range s.all() {
		if e.Role == role {
			out = append(out, e.Value)
		}
	}
	return out
}

// waitBlocked asserts-by-timing that done has not fired yet.
func waitBlocked(done <-chan struct{}, d time.Duration) bool {
	select {
	case <-done:
		return false
	case <-time.After(d):
		return true
	}
}
