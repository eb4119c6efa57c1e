package fairq

import (
	"sync"
	"time"
)

// Config defines configurable collaborators for buffer construction.
// Both buffer variants accept the same set of options.
type Config[T any] struct {
	// sink receives one Event per completed operation. Nil disables
	// emission entirely.
	sink Sink[T]

	// stats accumulates per-operation durations. Nil disables bookkeeping.
	stats *Stats

	// now is the clock used for timestamps and durations. It exists so
	// tests can substitute a deterministic clock; nil means time.Now.
	now func() time.Time
}

// WithSink configures the buffer to report every completed operation to s.
func WithSink[T any](s Sink[T]) func(*Config[T]) {
	return func(c *Config[T]) {
		c.sink = s
	}
}

// WithStats configures the buffer to add every operation's durations to st.
// Several buffers may share one Stats.
func WithStats[T any](st *Stats) func(*Config[T]) {
	return func(c *Config[T]) {
		c.stats = st
	}
}

// WithClock overrides the wall clock. Intended for tests.
func WithClock[T any](now func() time.Time) func(*Config[T]) {
	return func(c *Config[T]) {
		c.now = now
	}
}

// emitter is the single serialization point for a buffer's event stream.
// Taking the timestamp inside the emit lock is what makes stream order and
// timestamp order agree.
type emitter[T any] struct {
	mu    sync.Mutex
	sink  Sink[T]
	stats *Stats
	now   func() time.Time
	start time.Time
}

func newEmitter[T any](options ...func(*Config[T])) *emitter[T] {
	var cfg Config[T]
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &emitter[T]{
		sink:  cfg.sink,
		stats: cfg.stats,
		now:   cfg.now,
		start: cfg.now(),
	}
}

func (e *emitter[T]) emit(role Role, participant int, value T, wait time.Duration) {
	if e.sink == nil {
		return
	}
	e.mu.Lock()
	e.sink.Record(Event[T]{
		At:          e.now().Sub(e.start),
		Role:        role,
		Participant: participant,
		Value:       value,
		Wait:        wait,
	})
	e.mu.Unlock()
}

func (e *emitter[T]) record(role Role, participant int, wait, total time.Duration) {
	if e.stats == nil {
		return
	}
	if role == Producer {
		e.stats.RecordProduce(participant, wait, total)
	} else {
		e.stats.RecordConsume(participant, wait, total)
	}
}
