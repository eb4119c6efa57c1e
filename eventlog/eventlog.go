// Package eventlog persists a buffer's event stream as human-readable text
// and parses it back for reporting and replay.
//
// One line per event:
//
//	[1523us] Producer 2 produced: 2004 | Waited: 0.125000ms
//	[1688us] Consumer 1 consumed: 2004 | Waited: 1.031000ms
//
// The writer is a fairq.Sink, so it can be handed straight to a buffer. The
// parser is the inverse and tolerates foreign lines, which keeps it usable
// on logs that picked up stray output.
package eventlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/llxisdsh/fairq"
)

// Writer appends one line per recorded event to an io.Writer. A mutex
// serializes writes so several buffers may share one Writer.
type Writer[T any] struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewWriter returns a Writer appending to w.
func NewWriter[T any](w io.Writer) *Writer[T] {
	return &Writer[T]{w: w}
}

// Create truncates or creates the file at path and returns a Writer
// appending to it. Close releases the file.
func Create[T any](path string) (*Writer[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: create %s: %w", path, err)
	}
	return &Writer[T]{w: bufio.NewWriter(f), closer: f}, nil
}

// Record implements fairq.Sink. Write errors are swallowed: the core's
// contract has no failure path for emission, and a torn log is the
// collaborator's concern, not the buffer's.
func (w *Writer[T]) Record(e fairq.Event[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	verb := "produced"
	if e.Role == fairq.Consumer {
		verb = "consumed"
	}
	fmt.Fprintf(w.w, "[%dus] %s %d %s: %v | Waited: %fms\n",
		e.At.Microseconds(), e.Role, e.Participant, verb, e.Value,
		float64(e.Wait)/float64(time.Millisecond))
}

// Close flushes buffered output and closes the underlying file, if Writer
// owns one.
func (w *Writer[T]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if bw, ok := w.w.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("eventlog: flush: %w", err)
		}
	}
	if w.closer == nil {
		return nil
	}
	if err := w.closer.Close(); err != nil {
		return fmt.Errorf("eventlog: close: %w", err)
	}
	return nil
}

// Entry is one parsed log line. Values are parsed as integers, matching
// what the simulation driver produces.
type Entry struct {
	At          time.Duration
	Role        fairq.Role
	Participant int
	Value       int64
	Wait        time.Duration
}

var lineRe = regexp.MustCompile(
	`^\[(\d+)us\] (Producer|Consumer) (\d+) (?:produced|consumed): (-?\d+) \| Waited: ([0-9.]+)ms$`)

// Parse reads entries from r in file order. Lines that do not match the
// format are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := lineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		us, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		id, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		value, err := strconv.ParseInt(m[4], 10, 64)
		if err != nil {
			continue
		}
		waitMs, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			continue
		}
		role := fairq.Producer
		if m[2] == "Consumer" {
			role = fairq.Consumer
		}
		entries = append(entries, Entry{
			At:          time.Duration(us) * time.Microsecond,
			Role:        role,
			Participant: id,
			Value:       value,
			Wait:        time.Duration(waitMs * float64(time.Millisecond)),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("eventlog: scan: %w", err)
	}
	return entries, nil
}

// ParseFile parses the log at path.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}
