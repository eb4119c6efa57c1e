package fairq

import (
	"sync"
	"sync/atomic"
)

// node is one link of an Unbounded chain. Exactly one unfilled node, the
// sentinel, exists at the write end at rest. A node is reachable only from
// its predecessor (or from the buffer for the head and tail), and consuming
// it unlinks it outright, so live nodes never exceed backlog + 1.
type node[T any] struct {
	value T
	// filled publishes the node: the producer stores true only after value
	// and next are written, and the consumer reads them only after loading
	// true. The flag is the sole field touched by both roles outside a
	// common lock.
	filled atomic.Bool
	next   *node[T]
}

// Unbounded is a dynamically growing buffer for many producers and many
// consumers.
//
// Producers never block on capacity: the TicketLock is their sole
// synchronization, so a produce call only ever waits for its turn.
// Consumers block while the buffer is empty. Compared to Bounded this
// trades unpredictable memory use and per-item allocation for the
// elimination of producer blocking.
type Unbounded[T any] struct {
	// ticket is the only producer-side synchronization; there is no
	// capacity to wait for. head is producer-owned under it.
	ticket TicketLock
	head   *node[T] // sentinel, next write position

	// mu guards tail for consumers and is the notEmpty condition's locker.
	mu       sync.Mutex
	notEmpty *sync.Cond
	tail     *node[T] // next read position

	produced atomic.Int64
	consumed atomic.Int64

	em *emitter[T]
}

// NewUnbounded returns an empty buffer: a single sentinel node that both
// cursors point at.
func NewUnbounded[T any](options ...func(*Config[T])) *Unbounded[T] {
	sentinel := &node[T]{}
	u := &Unbounded[T]{
		head: sentinel,
		tail: sentinel,
		em:   newEmitter(options...),
	}
	u.notEmpty = sync.NewCond(&u.mu)
	return u
}

// Backlog returns produced − consumed, the number of items waiting to be
// consumed. Counter reads are independent, so a value observed during
// active operation is a snapshot, not an instant.
func (u *Unbounded[T]) Backlog() int64 {
	return u.produced.Load() - u.consumed.Load()
}

// NodeCount returns the number of live chain nodes: Backlog() plus the
// sentinel.
func (u *Unbounded[T]) NodeCount() int64 {
	return u.Backlog() + 1
}

// Produce inserts value. It never blocks on buffer state; the emitted wait
// duration reflects only ticket-lock contention.
func (u *Unbounded[T]) Produce(value T, producer int) {
	start := u.em.now()

	u.ticket.Lock()
	wait := u.em.now().Sub(start)

	n := u.head
	n.value = value
	n.next = &node[T]{} // the new sentinel
	u.head = n.next
	u.produced.Add(1)

	// Emit before publishing the node so this item's produce event always
	// precedes its consume event in the stream.
	u.em.emit(Producer, producer, value, wait)
	n.filled.Store(true)
	u.ticket.Unlock()

	// Wake one consumer. filled is not written under mu, so the signal must
	// be: otherwise it could fire between a consumer's predicate check and
	// its park, and be lost.
	u.mu.Lock()
	u.notEmpty.Signal()
	u.mu.Unlock()

	u.em.record(Producer, producer, wait, u.em.now().Sub(start))
}

// Consume removes and returns the oldest buffered item, blocking while the
// buffer is empty. The node it occupied is unlinked and left to the
// collector; nothing retains it afterwards.
func (u *Unbounded[T]) Consume(consumer int) T {
	start := u.em.now()

	u.mu.Lock()
	for !u.tail.filled.Load() {
		u.notEmpty.Wait()
	}
	wait := u.em.now().Sub(start)

	n := u.tail
	value := n.value
	u.tail = n.next
	u.consumed.Add(1)

	// Scrub the dead node so it pins neither the payload nor the chain.
	var zero T
	n.value = zero
	n.next = nil
	n.filled.Store(false)

	u.em.emit(Consumer, consumer, value, wait)
	u.mu.Unlock()

	u.em.record(Consumer, consumer, wait, u.em.now().Sub(start))
	return value
}
