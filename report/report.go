// Package report derives post-run aggregate statistics from a recorded
// event stream: totals, wait-time distributions per role, peak backlog and
// a per-producer fairness table.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/llxisdsh/fairq"
	"github.com/llxisdsh/fairq/eventlog"
)

// RoleWait aggregates wait time for one role across all participants.
type RoleWait struct {
	Total time.Duration
	Max   time.Duration
	Count int
}

// Avg returns the mean wait per operation, or 0 when no operation ran.
func (w RoleWait) Avg() time.Duration {
	if w.Count == 0 {
		return 0
	}
	return w.Total / time.Duration(w.Count)
}

// FairnessRow is one producer's share of the fairness table.
type FairnessRow struct {
	Participant int
	Produced    int
	AvgWait     time.Duration
	MaxWait     time.Duration
}

// Report holds everything derivable from a parsed event log, plus optional
// fields a driver can fill in from its own run context.
type Report struct {
	Produced     int
	Consumed     int
	FinalBacklog int
	PeakBacklog  int

	ProducerWait RoleWait
	ConsumerWait RoleWait

	Fairness []FairnessRow

	// Optional, zero unless the caller has them: total wall-clock runtime
	// and the buffer's accumulated call durations.
	Runtime      time.Duration
	ProduceTotal time.Duration
	ConsumeTotal time.Duration
}

// Build scans entries (re-ordered by timestamp, as a merged log may be
// slightly out of order) and computes the aggregates.
func Build(entries []eventlog.Entry) Report {
	sorted := make([]eventlog.Entry, len(entries))
	copy(sorted, entries)
	slices.SortStableFunc(sorted, func(a, b eventlog.Entry) int {
		return cmp.Compare(a.At, b.At)
	})

	var r Report
	backlog := 0
	perProducer := map[int]*FairnessRow{}

	for _, e := range sorted {
		switch e.Role {
		case fairq.Producer:
			r.Produced++
			r.ProducerWait.Count++
			r.ProducerWait.Total += e.Wait
			r.ProducerWait.Max = max(r.ProducerWait.Max, e.Wait)

			row := perProducer[e.Participant]
			if row == nil {
				row = &FairnessRow{Participant: e.Participant}
				perProducer[e.Participant] = row
			}
			row.Produced++
			row.AvgWait += e.Wait // running total until the final division
			row.MaxWait = max(row.MaxWait, e.Wait)

			backlog++
			r.PeakBacklog = max(r.PeakBacklog, backlog)

		case fairq.Consumer:
			r.Consumed++
			r.ConsumerWait.Count++
			r.ConsumerWait.Total += e.Wait
			r.ConsumerWait.Max = max(r.ConsumerWait.Max, e.Wait)
			backlog--
		}
	}
	r.FinalBacklog = backlog

	for _, row := range perProducer {
		if row.Produced > 0 {
			row.AvgWait /= time.Duration(row.Produced)
		}
		r.Fairness = append(r.Fairness, *row)
	}
	slices.SortFunc(r.Fairness, func(a, b FairnessRow) int {
		return a.Participant - b.Participant
	})

	return r
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// Render writes the human-readable analysis report.
func (r Report) Render(w io.Writer) {
	fmt.Fprintln(w, headerStyle.Render("===== LOG ANALYSIS REPORT ====="))
	fmt.Fprintf(w, "Total Items Produced       : %d\n", r.Produced)
	fmt.Fprintf(w, "Total Items Consumed       : %d\n", r.Consumed)
	fmt.Fprintf(w, "Final Buffer Size          : %d\n", r.FinalBacklog)
	fmt.Fprintf(w, "Peak Buffer Size           : %d\n", r.PeakBacklog)

	if r.Runtime > 0 || r.ProduceTotal > 0 || r.ConsumeTotal > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("--- Runtime ---"))
		if r.Runtime > 0 {
			fmt.Fprintf(w, "Total Runtime              : %s\n", r.Runtime.Round(time.Millisecond))
		}
		fmt.Fprintf(w, "Total Produce Time         : %s\n", r.ProduceTotal.Round(time.Microsecond))
		fmt.Fprintf(w, "Total Consume Time         : %s\n", r.ConsumeTotal.Round(time.Microsecond))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("--- Producer Stats ---"))
	fmt.Fprintf(w, "Total Wait Time            : %s\n", r.ProducerWait.Total.Round(time.Microsecond))
	fmt.Fprintf(w, "Average Wait Time          : %s\n", r.ProducerWait.Avg().Round(time.Microsecond))
	fmt.Fprintf(w, "Maximum Wait Time          : %s\n", r.ProducerWait.Max.Round(time.Microsecond))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("--- Consumer Stats ---"))
	fmt.Fprintf(w, "Total Wait Time            : %s\n", r.ConsumerWait.Total.Round(time.Microsecond))
	fmt.Fprintf(w, "Average Wait Time          : %s\n", r.ConsumerWait.Avg().Round(time.Microsecond))
	fmt.Fprintf(w, "Maximum Wait Time          : %s\n", r.ConsumerWait.Max.Round(time.Microsecond))

	if len(r.Fairness) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("--- Producer Fairness (by Avg Wait Time) ---"))
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Producer", "Produced", "Avg Wait", "Max Wait")
	for _, row := range r.Fairness {
		tbl.Row(
			strconv.Itoa(row.Participant),
			strconv.Itoa(row.Produced),
			row.AvgWait.Round(time.Microsecond).String(),
			row.MaxWait.Round(time.Microsecond).String(),
		)
	}
	fmt.Fprintln(w, tbl)
}
