// Package runner drives whole simulations: it builds a buffer from a
// Config, launches the producer and consumer goroutines, and collects the
// event stream and statistics when they finish.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/fairq"
	"github.com/llxisdsh/fairq/eventlog"
)

// buffer is the shared surface of the two variants, over the driver's
// int payloads.
type buffer interface {
	Produce(value int, producer int)
	Consume(consumer int) int
}

// Result is everything a finished run produced.
type Result struct {
	RunID    uuid.UUID
	Config   Config
	Elapsed  time.Duration
	Snapshot fairq.Snapshot
	// Entries is the full event stream in completion order.
	Entries []eventlog.Entry
}

// capture keeps the stream in memory as parsed entries, so a run's result
// can be analyzed without reading its log file back.
type capture struct {
	mu      sync.Mutex
	entries []eventlog.Entry
}

func (c *capture) Record(e fairq.Event[int]) {
	c.mu.Lock()
	c.entries = append(c.entries, eventlog.Entry{
		At:          e.At,
		Role:        e.Role,
		Participant: e.Participant,
		Value:       int64(e.Value),
		Wait:        e.Wait,
	})
	c.mu.Unlock()
}

// Run executes one simulation. Context cancellation is honored between
// calls, not inside them: the core has no cancellation, so a call that has
// started blocking finishes on its own terms.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New()
	logger := log.FromContext(ctx).With("run", runID.String())

	mem := &capture{}
	sinks := []fairq.Sink[int]{mem}
	if cfg.LogPath != "" {
		w, err := eventlog.Create[int](cfg.LogPath)
		if err != nil {
			return nil, err
		}
		defer w.Close()
		sinks = append(sinks, w)
	}
	sink := fairq.SinkFunc[int](func(e fairq.Event[int]) {
		for _, s := range sinks {
			s.Record(e)
		}
	})

	var stats fairq.Stats
	var buf buffer
	switch cfg.Buffer {
	case KindUnbounded:
		buf = fairq.NewUnbounded(fairq.WithSink[int](sink), fairq.WithStats[int](&stats))
	default:
		buf = fairq.NewBounded(cfg.Capacity, fairq.WithSink[int](sink), fairq.WithStats[int](&stats))
	}

	logger.Info("starting run",
		"buffer", cfg.Buffer,
		"producers", cfg.Producers,
		"consumers", cfg.Consumers)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for p := 1; p <= cfg.Producers; p++ {
		g.Go(func() error {
			for i := range cfg.ItemsPerProducer {
				if err := ctx.Err(); err != nil {
					return err
				}
				sleep(ctx, cfg.ProduceDelay.Std())
				buf.Produce(p*1000+i, p)
			}
			return nil
		})
	}
	for c := 1; c <= cfg.Consumers; c++ {
		g.Go(func() error {
			for range cfg.ItemsPerConsumer {
				if err := ctx.Err(); err != nil {
					return err
				}
				buf.Consume(c)
				sleep(ctx, cfg.ConsumeDelay.Std())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	logger.Info("run finished", "elapsed", elapsed, "events", len(mem.entries))

	return &Result{
		RunID:    runID,
		Config:   cfg,
		Elapsed:  elapsed,
		Snapshot: stats.Snapshot(),
		Entries:  mem.entries,
	}, nil
}

// sleep pauses for d but returns early on cancellation.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
