package fairq

import "time"

// Role identifies which side of the buffer completed an operation.
type Role uint8

const (
	// Producer marks an event emitted by a completed produce call.
	Producer Role = iota
	// Consumer marks an event emitted by a completed consume call.
	Consumer
)

// String returns "Producer" or "Consumer".
func (r Role) String() string {
	if r == Producer {
		return "Producer"
	}
	return "Consumer"
}

// Event describes one completed produce or consume operation.
//
// Events are immutable once emitted. A buffer emits them under a single
// serialization point, so a Sink observes a total order that matches real
// completion order across all participants: At is non-decreasing in stream
// order.
type Event[T any] struct {
	// At is the completion instant, relative to the buffer's start time.
	At time.Duration
	// Role says whether a producer or a consumer completed.
	Role Role
	// Participant is the caller-supplied producer or consumer id.
	Participant int
	// Value is the item that was transferred.
	Value T
	// Wait is the time the call spent blocked before it could touch the
	// buffer: ticket and mutex acquisition, plus any capacity wait.
	Wait time.Duration
}

// Sink receives the ordered stream of completed-operation events.
//
// Record is called with the buffer's emit lock held; implementations should
// return quickly and must not call back into the buffer. The core makes no
// claim about persistence or interpretation of the stream.
type Sink[T any] interface {
	Record(e Event[T])
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc[T any] func(e Event[T])

// Record calls f(e).
func (f SinkFunc[T]) Record(e Event[T]) { f(e) }
