// Package stream provides real-time terminal display of xcodebuild test output.
package stream

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	suiteColumn = 24
	testColumn  = 32
)

// termWriter owns the terminal while a transcript streams. History lines
// scroll above a footer of running suites that is cleared before every
// history line and redrawn after it.
type termWriter struct {
	out    io.Writer
	width  int
	height int
	drawn  int // footer lines currently on screen
}

func newTermWriter(out io.Writer, width, height int) *termWriter {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &termWriter{out: out, width: width, height: height}
}

// PrintLine clears the footer and appends one history line.
func (w *termWriter) PrintLine(s string) {
	w.ClearFooter()
	fmt.Fprintln(w.out, s)
}

// ClearFooter moves the cursor to the first footer line and erases to the
// end of the screen.
func (w *termWriter) ClearFooter() {
	if w.drawn == 0 {
		return
	}
	fmt.Fprintf(w.out, "\033[%dA\r\033[J", w.drawn)
	w.drawn = 0
}

// footerBudget is how many lines the footer may use: a third of the
// terminal, never fewer than three.
func (w *termWriter) footerBudget() int {
	return max(3, w.height/3)
}

// DrawProgress replaces the footer with a header and one line per running
// suite. Suites that do not fit collapse into a "... n more" line.
func (w *termWriter) DrawProgress(suites []*suiteProgress, now time.Time) {
	w.ClearFooter()
	if len(suites) == 0 {
		return
	}

	running := 0
	for _, sp := range suites {
		if sp.currentTest != "" {
			running++
		}
	}
	lines := []string{fmt.Sprintf("  ─── %d suites, %d tests running ───", len(suites), running)}

	shown := suites
	if budget := w.footerBudget(); 1+len(suites) > budget {
		shown = suites[:budget-2]
	}
	for _, sp := range shown {
		lines = append(lines, sp.footerLine(now))
	}
	if hidden := len(suites) - len(shown); hidden > 0 {
		lines = append(lines, fmt.Sprintf("  ... %d more suites", hidden))
	}

	for _, l := range lines {
		fmt.Fprintln(w.out, truncateToWidth(l, w.width))
	}
	w.drawn = len(lines)
}

// footerLine renders "name  passed/failed  current test  elapsed".
func (sp *suiteProgress) footerLine(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(runewidth.FillRight(truncateToWidth(sp.name, suiteColumn), suiteColumn))
	fmt.Fprintf(&sb, " %3d ok %2d fail  ", sp.passed, sp.failed)
	sb.WriteString(runewidth.FillRight(truncateToWidth(sp.currentTest, testColumn), testColumn))
	fmt.Fprintf(&sb, " %5.1fs", now.Sub(sp.startTime).Seconds())
	return sb.String()
}

// truncateToWidth cuts s to width terminal cells.
func truncateToWidth(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
