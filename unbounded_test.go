package fairq

import (
	"sync"
	"testing"
	"time"
)

func TestUnbounded_ScenarioBufferedDrain(t *testing.T) {
	sink := &captureSink[int]{}
	u := NewUnbounded(WithSink[int](sink))

	values := []int{11, 22, 33, 44, 55}
	for _, v := range values {
		u.Produce(v, 1)
	}

	// All five buffered and undrained: five filled nodes plus the sentinel.
	if got := u.NodeCount(); got != 6 {
		t.Fatalf("NodeCount() = %d, want 6", got)
	}
	if got := u.Backlog(); got != 5 {
		t.Fatalf("Backlog() = %d, want 5", got)
	}

	for _, want := range values {
		if got := u.Consume(1); got != want {
			t.Fatalf("Consume() = %d, want %d", got, want)
		}
	}

	// Fully drained: exactly the sentinel remains.
	if got := u.NodeCount(); got != 1 {
		t.Fatalf("NodeCount() after drain = %d, want 1", got)
	}
	if got := u.Backlog(); got != 0 {
		t.Fatalf("Backlog() after drain = %d, want 0", got)
	}
}

func TestUnbounded_ProduceNeverBlocks(t *testing.T) {
	u := NewUnbounded[int]()

	// No consumer exists; 10k produce calls must still complete.
	done := make(chan struct{})
	go func() {
		for i := range 10000 {
			u.Produce(i, 1)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("producer stalled with no consumers")
	}

	if got := u.Backlog(); got != 10000 {
		t.Fatalf("Backlog() = %d, want 10000", got)
	}
	if got := u.NodeCount(); got != 10001 {
		t.Fatalf("NodeCount() = %d, want 10001", got)
	}
}

func TestUnbounded_ConsumeBlocksWhenEmpty(t *testing.T) {
	u := NewUnbounded[int]()

	done := make(chan struct{})
	var got int
	go func() {
		got = u.Consume(1)
		close(done)
	}()
	if !waitBlocked(done, 50*time.Millisecond) {
		t.Fatal("Consume returned on an empty buffer")
	}

	u.Produce(42, 1)
	<-done
	if got != 42 {
		t.Fatalf("Consume = %d, want 42", got)
	}
}

func TestUnbounded_FIFOManyToMany(t *testing.T) {
	const (
		producers = 5
		consumers = 3
		perProd   = 60
	)
	total := producers * perProd

	sink := &captureSink[int]{}
	u := NewUnbounded(WithSink[int](sink))

	var wg sync.WaitGroup
	wg.Add(producers + consumers)
	for p := range producers {
		go func() {
			defer wg.Done()
			for i := range perProd {
				u.Produce((p+1)*1000+i, p+1)
			}
		}()
	}
	for c := range consumers {
		n := total / consumers
		go func() {
			defer wg.Done()
			for range n {
				u.Consume(c + 1)
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
	for i := range produced {
		if produced[i] != consumed[i] {
			t.Fatalf("order diverges at %d: produced %d, consumed %d",
				i, produced[i], consumed[i])
		}
	}
	if got := u.NodeCount(); got != 1 {
		t.Fatalf("NodeCount() after drain = %d, want 1", got)
	}
}

func TestUnbounded_NodeCountTracksBacklog(t *testing.T) {
	u := NewUnbounded[int]()

	for i := range 100 {
		u.Produce(i, 1)
		if got, want := u.NodeCount(), int64(i+2); got != want {
			t.Fatalf("NodeCount() after %d produces = %d, want %d", i+1, got, want)
		}
	}
	for i := range 100 {
		u.Consume(1)
		if got, want := u.NodeCount(), int64(100-i); got != want {
			t.Fatalf("NodeCount() after %d consumes = %d, want %d", i+1, got, want)
		}
	}
}

func TestUnbounded_ProducerWaitIsTicketOnly(t *testing.T) {
	sink := &captureSink[int]{}
	u := NewUnbounded(WithSink[int](sink))

	// A lone producer on a buffer with heavy backlog never contends.
	for i := range 50 {
		u.Produce(i, 1)
	}
	for _, e := range sink.all() {
		if e.Wait > 100*time.Millisecond {
			t.Fatalf("uncontended produce waited %v", e.Wait)
		}
	}
}
