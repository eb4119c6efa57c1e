package fairq

import (
	"slices"
	"sync"
	"time"

	"github.com/llxisdsh/pb"
)

// Stats keeps thread-safe running totals of time spent per operation kind.
//
// The two cumulative totals sit behind their own private mutexes, so
// bookkeeping never contends with, or is blocked by, the data-path locks:
// a producer updating its total cannot delay a consumer and vice versa.
//
// It also aggregates wait time per participant (count, sum, max) in a
// concurrent map, which feeds the post-run fairness table without a second
// pass over the event stream.
type Stats struct {
	_         noCopy
	produceMu sync.Mutex
	produce   time.Duration

	consumeMu sync.Mutex
	consume   time.Duration

	waits pb.MapOf[participantKey, waitAgg]
}

type participantKey struct {
	role Role
	id   int
}

type waitAgg struct {
	total time.Duration
	max   time.Duration
	count int64
}

// RecordProduce adds one completed produce call: total goes into the
// cumulative produce time, wait into the producer's fairness row.
func (s *Stats) RecordProduce(participant int, wait, total time.Duration) {
	s.produceMu.Lock()
	s.produce += total
	s.produceMu.Unlock()
	s.noteWait(Producer, participant, wait)
}

// RecordConsume adds one completed consume call.
func (s *Stats) RecordConsume(participant int, wait, total time.Duration) {
	s.consumeMu.Lock()
	s.consume += total
	s.consumeMu.Unlock()
	s.noteWait(Consumer, participant, wait)
}

func (s *Stats) noteWait(role Role, participant int, wait time.Duration) {
	k := participantKey{role: role, id: participant}
	s.waits.ProcessEntry(k,
		func(l *pb.EntryOf[participantKey, waitAgg]) (*pb.EntryOf[participantKey, waitAgg], waitAgg, bool) {
			var agg waitAgg
			if l != nil {
				agg = l.Value
			}
			agg.count++
			agg.total += wait
			agg.max = max(agg.max, wait)
			return &pb.EntryOf[participantKey, waitAgg]{Value: agg}, agg, l != nil
		})
}

// WaitRow is one participant's aggregated wait time.
type WaitRow struct {
	Role        Role
	Participant int
	Count       int64
	Total       time.Duration
	Max         time.Duration
}

// Avg returns the mean wait per operation, or 0 for an empty row.
func (r WaitRow) Avg() time.Duration {
	if r.Count == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Count)
}

// Snapshot is a point-in-time copy of the accumulated totals.
type Snapshot struct {
	// ProduceTotal is the summed duration of all produce calls, from initial
	// call to release.
	ProduceTotal time.Duration
	// ConsumeTotal is the summed duration of all consume calls.
	ConsumeTotal time.Duration
	// Waits holds one row per participant and role, sorted by role then id.
	Waits []WaitRow
}

// Snapshot reads the running totals. The cumulative sums are only
// meaningful after all participant goroutines have finished; there is no
// consistency guarantee for reads that race active operations.
func (s *Stats) Snapshot() Snapshot {
	s.produceMu.Lock()
	produce := s.produce
	s.produceMu.Unlock()
	s.consumeMu.Lock()
	consume := s.consume
	s.consumeMu.Unlock()

	var rows []WaitRow
	s.waits.Range(func(k participantKey, v waitAgg) bool {
		rows = append(rows, WaitRow{
			Role:        k.role,
			Participant: k.id,
			Count:       v.count,
			Total:       v.total,
			Max:         v.max,
		})
		return true
	})
	slices.SortFunc(rows, func(a, b WaitRow) int {
		if a.Role != b.Role {
			return int(a.Role) - int(b.Role)
		}
		return a.Participant - b.Participant
	})

	return Snapshot{
		ProduceTotal: produce,
		ConsumeTotal: consume,
		Waits:        rows,
	}
}
