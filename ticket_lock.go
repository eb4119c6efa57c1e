package fairq

import (
	"sync/atomic"

	"github.com/llxisdsh/fairq/internal/opt"
)

// TicketLock is a fair, FIFO (First-In-First-Out) spin-lock. It is the
// ordering primitive both buffer variants use to serialize producers.
//
// Unlike sync.Mutex, which allows "barging" (newcomers can steal the lock),
// TicketLock guarantees that goroutines acquire the lock in the exact order
// they called Lock().
//
// Implementation:
// It uses the classic "ticket" algorithm.
//   - Lock(): Takes a ticket number. Spins/Sleeps until `serving` == `my_ticket`.
//   - Unlock(): Increments `serving`, allowing the next ticket holder to proceed.
//
// Tickets are never reused; the 32-bit counters wrap together, so the
// equality check stays correct as long as fewer than 2^32 goroutines are
// waiting at once.
//
// The two counters live on separate cache lines: waiters hammer `serving`
// while every Lock() entry writes `next`, and sharing a line would make each
// ticket grab invalidate every spinner.
//
// Not reentrant: a goroutine re-acquiring while already holding spins
// forever. There is no timeout, no cancellation, and no failure mode; that
// contract is the caller's to keep.
type TicketLock struct {
	_       noCopy
	next    atomic.Uint32
	_       opt.CacheLinePad
	serving atomic.Uint32
}

// Lock acquires the lock. Blocks until the lock is available.
func (m *TicketLock) Lock() {
	my := m.next.Add(1) - 1
	var spins int
	for {
		if m.serving.Load() == my {
			return
		}
		delay(&spins)
	}
}

// Unlock releases the lock.
func (m *TicketLock) Unlock() {
	m.serving.Add(1)
}
