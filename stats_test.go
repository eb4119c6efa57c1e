package fairq

import (
	"sync"
	"testing"
	"time"
)

func TestStats_Totals(t *testing.T) {
	var s Stats
	s.RecordProduce(1, 2*time.Millisecond, 10*time.Millisecond)
	s.RecordProduce(1, 3*time.Millisecond, 20*time.Millisecond)
	s.RecordConsume(2, 5*time.Millisecond, 7*time.Millisecond)

	snap := s.Snapshot()
	if snap.ProduceTotal != 30*time.Millisecond {
		t.Fatalf("ProduceTotal = %v, want 30ms", snap.ProduceTotal)
	}
	if snap.ConsumeTotal != 7*time.Millisecond {
		t.Fatalf("ConsumeTotal = %v, want 7ms", snap.ConsumeTotal)
	}

	if len(snap.Waits) != 2 {
		t.Fatalf("rows = %d, want 2", len(snap.Waits))
	}
	prod := snap.Waits[0]
	if prod.Role != Producer || prod.Participant != 1 {
		t.Fatalf("unexpected first row %+v", prod)
	}
	if prod.Count != 2 || prod.Total != 5*time.Millisecond || prod.Max != 3*time.Millisecond {
		t.Fatalf("producer row = %+v", prod)
	}
	if got := prod.Avg(); got != 2500*time.Microsecond {
		t.Fatalf("Avg() = %v, want 2.5ms", got)
	}
}

func TestStats_RowOrder(t *testing.T) {
	var s Stats
	s.RecordConsume(2, 0, 0)
	s.RecordProduce(3, 0, 0)
	s.RecordConsume(1, 0, 0)
	s.RecordProduce(1, 0, 0)

	snap := s.Snapshot()
	type key struct {
		role Role
		id   int
	}
	want := []key{{Producer, 1}, {Producer, 3}, {Consumer, 1}, {Consumer, 2}}
	if len(snap.Waits) != len(want) {
		t.Fatalf("rows = %d, want %d", len(snap.Waits), len(want))
	}
	for i, w := range want {
		if snap.Waits[i].Role != w.role || snap.Waits[i].Participant != w.id {
			t.Fatalf("row %d = %+v, want %+v", i, snap.Waits[i], w)
		}
	}
}

func TestStats_Concurrent(t *testing.T) {
	var s Stats
	const goroutines = 16
	const perG = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := range goroutines {
		go func() {
			defer wg.Done()
			for range perG {
				s.RecordProduce(g, time.Microsecond, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if want := goroutines * perG * int(time.Millisecond); int(snap.ProduceTotal) != want {
		t.Fatalf("ProduceTotal = %v, want %v", snap.ProduceTotal, time.Duration(want))
	}
	if len(snap.Waits) != goroutines {
		t.Fatalf("rows = %d, want %d", len(snap.Waits), goroutines)
	}
	for _, row := range snap.Waits {
		if row.Count != perG || row.Total != perG*time.Microsecond {
			t.Fatalf("row %+v, want count %d total %v", row, perG, perG*time.Microsecond)
		}
	}
}

func TestStats_EmptyRowAvg(t *testing.T) {
	if got := (WaitRow{}).Avg(); got != 0 {
		t.Fatalf("Avg() on empty row = %v, want 0", got)
	}
}
