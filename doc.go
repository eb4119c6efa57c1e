// Package fairq provides producer/consumer buffers built on a FIFO ticket
// lock.
//
// Two variants share one item-transfer contract:
//
//   - Bounded: a fixed-capacity slot ring. Producers block when it is full,
//     consumers block when it is empty.
//   - Unbounded: a growing linked chain with a trailing sentinel. Producers
//     never block; consumers block when it is empty.
//
// In both, producers are admitted in strict arrival order by a TicketLock,
// items transit FIFO end-to-end, and every completed operation is reported
// to an optional Sink as an Event and to an optional Stats accumulator.
// Consumers carry no fairness guarantee beyond what their shared mutex
// provides.
//
// Collaborator packages consume what the core emits: eventlog persists and
// parses the event stream, report derives post-run aggregates, replay plays
// the stream back on a terminal timeline, and runner drives whole
// simulations.
package fairq
