package fairq

import (
	"sync"
	"testing"
	"time"
)

func TestBounded_ScenarioPushPull(t *testing.T) {
	sink := &captureSink[int]{}
	b := NewBounded(2, WithSink[int](sink))

	b.Produce(10, 1)
	b.Produce(20, 1)

	// Buffer is full: the third produce must block until a consume.
	third := make(chan struct{})
	go func() {
		b.Produce(30, 1)
		close(third)
	}()
	if !waitBlocked(third, 50*time.Millisecond) {
		t.Fatal("Produce(30) returned while the buffer was full")
	}

	if got := b.Consume(1); got != 10 {
		t.Fatalf("Consume() = %d, want 10", got)
	}
	select {
	case <-third:
	case <-time.After(time.Second):
		t.Fatal("Produce(30) still blocked after a consume")
	}

	if got := b.Consume(1); got != 20 {
		t.Fatalf("Consume() = %d, want 20", got)
	}
	if got := b.Consume(1); got != 30 {
		t.Fatalf("Consume() = %d, want 30", got)
	}

	want := []int{10, 20, 30}
	got := sink.values(Consumer)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("consumed events = %v, want %v", got, want)
		}
	}
}

func TestBounded_ConsumeBlocksWhenEmpty(t *testing.T) {
	b := NewBounded[int](4)

	done := make(chan struct{})
	var got int
	go func() {
		got = b.Consume(1)
		close(done)
	}()
	if !waitBlocked(done, 50*time.Millisecond) {
		t.Fatal("Consume returned on an empty buffer")
	}

	b.Produce(7, 1)
	<-done
	if got != 7 {
		t.Fatalf("Consume = %d, want 7", got)
	}
}

func TestBounded_FIFOManyToMany(t *testing.T) {
	const (
		producers = 5
		consumers = 3
		perProd   = 60
	)
	total := producers * perProd

	sink := &captureSink[int]{}
	b := NewBounded(8, WithSink[int](sink))

	var wg sync.WaitGroup
	wg.Add(producers + consumers)
	for p := range producers {
		go func() {
			defer wg.Done()
			for i := range perProd {
				b.Produce((p+1)*1000+i, p+1)
			}
		}()
	}
	for c := range consumers {
		n := total / consumers
		go func() {
			defer wg.Done()
			for range n {
				b.Consume(c + 1)
			}
		}()
	}
	wg.Wait()

	produced := sink.values(Producer)
	consumed := sink.values(Consumer)
	if len(produced) != total || len(consumed) != total {
		t.Fatalf("events: %d produced, %d consumed, want %d each",
			len(produced), len(consumed), total)
	}
	// One shared ring serializes each role, so consumption order equals
	// production order globally, whatever the interleaving was.
	for i := range produced {
		if produced[i] != consumed[i] {
			t.Fatalf("order diverges at %d: produced %d, consumed %d",
				i, produced[i], consumed[i])
		}
	}
}

func TestBounded_CapacityInvariant(t *testing.T) {
	const capacity = 4

	backlog, peak := 0, 0
	sink := SinkFunc[int](func(e Event[int]) {
		// Record runs under the emit lock, in completion order.
		if e.Role == Producer {
			backlog++
		} else {
			backlog--
		}
		peak = max(peak, backlog)
	})
	b := NewBounded(capacity, WithSink[int](sink))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			b.Produce(i, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			b.Consume(1)
		}
	}()
	wg.Wait()

	if peak > capacity {
		t.Fatalf("peak backlog %d exceeds capacity %d", peak, capacity)
	}
	if backlog != 0 {
		t.Fatalf("final backlog = %d, want 0", backlog)
	}
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
}

func TestBounded_EventTimestampsOrdered(t *testing.T) {
	sink := &captureSink[int]{}
	b := NewBounded(3, WithSink[int](sink))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 100 {
			b.Produce(i, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			b.Consume(1)
		}
	}()
	wg.Wait()

	events := sink.all()
	for i := 1; i < len(events); i++ {
		if events[i].At < events[i-1].At {
			t.Fatalf("event %d at %v precedes event %d at %v",
				i, events[i].At, i-1, events[i-1].At)
		}
	}
}

func TestBounded_StatsRoundTrip(t *testing.T) {
	sink := &captureSink[int]{}
	var st Stats
	b := NewBounded(2, WithSink[int](sink), WithStats[int](&st))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 50 {
			b.Produce(i, 3)
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			b.Consume(9)
		}
	}()
	wg.Wait()

	// Each participant's accumulated wait must equal the sum of the waits
	// its events carried.
	var wantProd, wantCons time.Duration
	for _, e := range sink.all() {
		if e.Role == Producer {
			wantProd += e.Wait
		} else {
			wantCons += e.Wait
		}
	}

	snap := st.Snapshot()
	if len(snap.Waits) != 2 {
		t.Fatalf("rows = %d, want 2", len(snap.Waits))
	}
	prod, cons := snap.Waits[0], snap.Waits[1]
	if prod.Role != Producer || prod.Participant != 3 {
		t.Fatalf("unexpected first row %+v", prod)
	}
	if cons.Role != Consumer || cons.Participant != 9 {
		t.Fatalf("unexpected second row %+v", cons)
	}
	if prod.Total != wantProd {
		t.Fatalf("producer wait total = %v, want %v", prod.Total, wantProd)
	}
	if cons.Total != wantCons {
		t.Fatalf("consumer wait total = %v, want %v", cons.Total, wantCons)
	}
	if prod.Count != 50 || cons.Count != 50 {
		t.Fatalf("counts = %d/%d, want 50/50", prod.Count, cons.Count)
	}
	// Call durations include the wait, so the totals bound them from below.
	if snap.ProduceTotal < wantProd {
		t.Fatalf("ProduceTotal %v < summed waits %v", snap.ProduceTotal, wantProd)
	}
	if snap.ConsumeTotal < wantCons {
		t.Fatalf("ConsumeTotal %v < summed waits %v", snap.ConsumeTotal, wantCons)
	}
}

func TestBounded_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewBounded(0) did not panic")
		}
	}()
	NewBounded[int](0)
}
