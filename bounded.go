package fairq

import (
	"sync"
)

// slot is one fixed cell of a Bounded ring. Identity and position are
// permanent; only the contents mutate.
type slot[T any] struct {
	value  T
	filled bool
}

// Bounded is a fixed-capacity circular buffer for many producers and many
// consumers.
//
// Producers block while the buffer is full, consumers block while it is
// empty. A TicketLock admits producers in strict arrival order; consumers
// share a plain mutex and carry no fairness guarantee beyond it. Items
// transit FIFO end-to-end regardless of which goroutine produced or
// consumed them, because one shared ring serializes each role.
//
// Lock order is always ticket lock first, then the data mutex, and a
// goroutine never waits on a capacity predicate while holding the other
// role's lock, so no ordering cycle can form.
type Bounded[T any] struct {
	// ticket serializes producers in request order. It is held across the
	// whole write, so the order producers call Produce is the order their
	// items land in the ring.
	ticket TicketLock

	// mu guards slots, cursors and length for both roles. One shared region
	// (rather than one per role) is what gives a consumer's read of a slot a
	// happens-before edge from the producer's write of it.
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	slots  []slot[T]
	head   int // next write position
	tail   int // next read position
	length int

	em *emitter[T]
}

// NewBounded returns a buffer holding at most capacity items. The slot ring
// is allocated once here and never reallocated. Panics if capacity < 1.
func NewBounded[T any](capacity int, options ...func(*Config[T])) *Bounded[T] {
	if capacity < 1 {
		panic("fairq: Bounded capacity must be at least 1")
	}
	b := &Bounded[T]{
		slots: make([]slot[T], capacity),
		em:    newEmitter(options...),
	}
	b.notFull = sync.NewCond(&b.mu)
	b.notEmpty = sync.NewCond(&b.mu)
	return b
}

// Cap returns the fixed capacity.
func (b *Bounded[T]) Cap() int {
	return len(b.slots)
}

// Len returns the current number of buffered items, in [0, Cap()].
func (b *Bounded[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.length
}

// Produce inserts value, blocking while the buffer is full. producer is the
// caller's participant id, carried through to the emitted event.
//
// The emitted wait duration covers everything from the call until the write
// slot came free: ticket acquisition, mutex acquisition and the capacity
// wait.
func (b *Bounded[T]) Produce(value T, producer int) {
	start := b.em.now()

	b.ticket.Lock()
	b.mu.Lock()
	for b.slots[b.head].filled {
		b.notFull.Wait()
	}
	wait := b.em.now().Sub(start)

	b.slots[b.head].value = value
	b.slots[b.head].filled = true
	b.head = (b.head + 1) % len(b.slots)
	b.length++

	// Emitting before the unlock keeps the event stream consistent with the
	// ring: an item's produce event always precedes its consume event.
	b.em.emit(Producer, producer, value, wait)
	b.mu.Unlock()
	b.notEmpty.Signal()
	b.ticket.Unlock()

	b.em.record(Producer, producer, wait, b.em.now().Sub(start))
}

// Consume removes and returns the oldest buffered item, blocking while the
// buffer is empty.
func (b *Bounded[T]) Consume(consumer int) T {
	start := b.em.now()

	b.mu.Lock()
	for !b.slots[b.tail].filled {
		b.notEmpty.Wait()
	}
	wait := b.em.now().Sub(start)

	var zero T
	value := b.slots[b.tail].value
	b.slots[b.tail].value = zero // drop the reference, the slot stays
	b.slots[b.tail].filled = false
	b.tail = (b.tail + 1) % len(b.slots)
	b.length--

	b.em.emit(Consumer, consumer, value, wait)
	b.mu.Unlock()
	b.notFull.Signal()

	b.em.record(Consumer, consumer, wait, b.em.now().Sub(start))
	return value
}
