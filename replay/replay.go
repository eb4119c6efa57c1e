// Package replay animates a recorded event stream on a terminal timeline.
//
// Items appear as cells when their produce event fires and are struck out
// when the matching consume event fires, on a virtual clock that compresses
// or stretches the recorded timestamps.
package replay

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llxisdsh/fairq"
	"github.com/llxisdsh/fairq/eventlog"
)

// DefaultRate compresses the virtual clock the way the recorded runs are
// usually paced: 5 log-milliseconds per wall-second.
const DefaultRate = 0.005

const frameInterval = 50 * time.Millisecond

var (
	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
	consumedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true).
			Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

type cell struct {
	value    int64
	consumed bool
}

// Model is a bubbletea model replaying one parsed event log.
type Model struct {
	entries []eventlog.Entry
	next    int // next entry to apply

	elapsed time.Duration // virtual clock
	rate    float64       // virtual time per wall time
	paused  bool
	done    bool

	cells []cell
	width int
}

// New returns a model over entries, re-sorted by timestamp. rate scales
// wall time into log time; 1.0 replays in real time, DefaultRate in the
// usual slow motion.
func New(entries []eventlog.Entry, rate float64) Model {
	sorted := make([]eventlog.Entry, len(entries))
	copy(sorted, entries)
	slices.SortStableFunc(sorted, func(a, b eventlog.Entry) int {
		return cmp.Compare(a.At, b.At)
	})
	if rate <= 0 {
		rate = DefaultRate
	}
	return Model{entries: sorted, rate: rate}
}

// Run plays entries until the stream ends and a key is pressed, or the
// user quits.
func Run(entries []eventlog.Entry, rate float64) error {
	if _, err := tea.NewProgram(New(entries, rate)).Run(); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.rate *= 2
		case "-":
			m.rate /= 2
		}

	case tickMsg:
		if !m.paused && !m.done {
			m.advance(time.Duration(float64(frameInterval) * m.rate))
		}
		if m.done {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

// advance moves the virtual clock forward and applies every entry that is
// now due, in timestamp order.
func (m *Model) advance(d time.Duration) {
	m.elapsed += d
	for m.next < len(m.entries) && m.entries[m.next].At <= m.elapsed {
		e := m.entries[m.next]
		m.next++
		switch e.Role {
		case fairq.Producer:
			m.cells = append(m.cells, cell{value: e.Value})
		case fairq.Consumer:
			// Mark the oldest live cell with this value, the way the
			// buffers hand items out: first produced, first consumed.
			for i := range m.cells {
				if !m.cells[i].consumed && m.cells[i].value == e.Value {
					m.cells[i].consumed = true
					break
				}
			}
		}
	}
	if m.next == len(m.entries) {
		m.done = true
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	status := "playing"
	switch {
	case m.done:
		status = "done"
	case m.paused:
		status = "paused"
	}
	sb.WriteString(headerStyle.Render(fmt.Sprintf(
		"fairq replay | %s | t=%s | %d/%d events | rate %.4gx",
		status, m.elapsed.Round(time.Microsecond), m.next, len(m.entries), m.rate)))
	sb.WriteString("\n\n")

	lineWidth := 0
	for _, c := range m.cells {
		s := fmt.Sprintf("(%d)", c.value)
		if lineWidth+len(s)+1 > max(20, m.width-2) {
			sb.WriteString("\n")
			lineWidth = 0
		}
		if c.consumed {
			sb.WriteString(consumedStyle.Render(s))
		} else {
			sb.WriteString(liveStyle.Render(s))
		}
		sb.WriteString(" ")
		lineWidth += len(s) + 1
	}
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("space pause · +/- speed · q quit"))
	sb.WriteString("\n")
	return sb.String()
}
