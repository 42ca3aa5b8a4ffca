package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// StateWriter prints one summary line per State transition. It is the
// dashboard's rendering when stdout is not a terminal.
type StateWriter struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

// NewStateWriter creates a writer that emits lines to w.
func NewStateWriter(w io.Writer) *StateWriter {
	return &StateWriter{w: w}
}

// Write prints s unless it renders the same as the previous line.
func (sw *StateWriter) Write(s status.State) error {
	line := FormatStateLine(s)

	sw.mu.Lock()
	defer sw.mu.Unlock()

	if line == sw.last {
		return nil
	}
	sw.last = line
	_, err := fmt.Fprintln(sw.w, line)
	return err
}

// FormatStateLine summarizes a State, e.g.
// "12:00:00 3 servers, 2 healthy | server-1 ✓ cpu 12.00% mem 40.00% | ...".
func FormatStateLine(s status.State) string {
	var b strings.Builder

	if s.LastUpdated.IsZero() {
		b.WriteString("--:--:--")
	} else {
		b.WriteString(ui.FormatClock(s.LastUpdated))
	}
	fmt.Fprintf(&b, " %d servers, %d healthy", len(s.Snapshot), s.Snapshot.HealthyCount())

	if len(s.Snapshot) == 0 && !s.LastUpdated.IsZero() {
		b.WriteString(" | " + ui.NoServersMessage)
	}
	for _, r := range s.Snapshot {
		fmt.Fprintf(&b, " | %s %s cpu %s mem %s",
			r.ID, ui.HealthGlyph(r.Healthy), ui.FormatPercent(r.CPUUsage), ui.FormatPercent(r.MemUsage))
	}

	if s.HasError() {
		b.WriteString(" | " + ui.SymbolFail + " " + s.ErrorMessage)
	}
	return b.String()
}
