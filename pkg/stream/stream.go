package stream

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dkoosis/tuistrun/pkg/render"
	"github.com/dkoosis/tuistrun/pkg/xcodebuild"
)

// LineKind identifies the type of output line for styling.
type LineKind int

const (
	KindPass LineKind = iota
	KindFail
	KindSuitePass
	KindSuiteFail
	KindOutput
	KindPassthrough
	KindSeparator
)

// StyleFunc formats a line with colors/symbols.
// If nil, no styling is applied.
type StyleFunc func(kind LineKind, text string) string

// ThemeStyle maps line kinds onto a render theme.
func ThemeStyle(theme render.Theme) StyleFunc {
	return func(kind LineKind, text string) string {
		switch kind {
		case KindPass:
			return theme.Pass.Render(text)
		case KindFail:
			return theme.Fail.Render(text)
		case KindSuitePass:
			return theme.Suite.Inherit(theme.Pass).Render(text)
		case KindSuiteFail:
			return theme.Suite.Inherit(theme.Fail).Render(text)
		case KindOutput:
			return theme.Location.Render(text)
		case KindSeparator:
			return theme.Muted.Render(text)
		default:
			return text
		}
	}
}

// suiteProgress tracks state for one running suite.
type suiteProgress struct {
	name        string
	startTime   time.Time
	finished    int
	passed      int
	failed      int
	currentTest string
}

// streamer is the state machine that turns parsed transcript lines into
// terminal output.
type streamer struct {
	tw    *termWriter
	style StyleFunc

	active map[string]*suiteProgress
	order  []string // suite start order for footer rendering
	stack  []string // open suites, innermost last

	classes   map[string]string   // running test -> class
	failed    map[string]struct{} // tests whose TestFinished follows a TestFailed
	collector *xcodebuild.Collector

	hasFailed bool
}

func newStreamer(tw *termWriter, style StyleFunc) *streamer {
	return &streamer{
		tw:        tw,
		style:     style,
		active:    make(map[string]*suiteProgress),
		classes:   make(map[string]string),
		failed:    make(map[string]struct{}),
		collector: xcodebuild.NewCollector(),
	}
}

// styleLine applies the style function if set, otherwise returns text unchanged.
func (s *streamer) styleLine(kind LineKind, text string) string {
	if s.style != nil {
		return s.style(kind, text)
	}
	return text
}

func (s *streamer) print(kind LineKind, text string) {
	s.tw.PrintLine(s.styleLine(kind, text))
}

// handleLine processes one transcript line and its parsed events.
// Unrecognized lines are passed through verbatim.
func (s *streamer) handleLine(line string, events []xcodebuild.Event, ok bool) {
	if !ok {
		s.print(KindPassthrough, line)
		s.redrawFooter()
		return
	}
	for _, e := range events {
		s.collector.Add(e)
		s.handleEvent(e)
	}
	s.redrawFooter()
}

func (s *streamer) handleEvent(e xcodebuild.Event) {
	switch ev := e.(type) {
	case xcodebuild.SuiteStarted:
		s.active[ev.Name] = &suiteProgress{name: ev.Name, startTime: time.Now()}
		s.order = append(s.order, ev.Name)
		s.stack = append(s.stack, ev.Name)
	case xcodebuild.SuiteFinished:
		s.handleSuiteFinished(ev)
	case xcodebuild.TestStarted:
		s.classes[ev.Name] = ev.ClassName
		if suite := s.current(); suite != nil {
			suite.currentTest = ev.ClassName + "." + ev.Name
		}
	case xcodebuild.TestFailed:
		s.handleTestFailed(ev)
	case xcodebuild.TestFinished:
		s.handleTestFinished(ev)
	}
}

func (s *streamer) current() *suiteProgress {
	if len(s.stack) == 0 {
		return nil
	}
	return s.active[s.stack[len(s.stack)-1]]
}

func (s *streamer) handleTestFailed(ev xcodebuild.TestFailed) {
	s.hasFailed = true
	s.failed[ev.Name] = struct{}{}
	if suite := s.current(); suite != nil {
		suite.failed++
		suite.finished++
		suite.currentTest = ""
	}
	s.print(KindFail, fmt.Sprintf("  ✗ %-50s %6s", ev.ClassName+"."+ev.Name, formatMs(ev.DurationMs)))

	details := ev.Details
	if details == "" {
		details = ev.Message
	}
	for _, l := range strings.Split(details, "\n") {
		s.tw.PrintLine(s.styleLine(KindOutput, "      "+l))
	}
}

func (s *streamer) handleTestFinished(ev xcodebuild.TestFinished) {
	class := s.classes[ev.Name]
	delete(s.classes, ev.Name)
	if _, ok := s.failed[ev.Name]; ok {
		delete(s.failed, ev.Name)
		return
	}
	if suite := s.current(); suite != nil {
		suite.passed++
		suite.finished++
		suite.currentTest = ""
	}
	name := ev.Name
	if class != "" {
		name = class + "." + ev.Name
	}
	s.print(KindPass, fmt.Sprintf("  · %-50s %6s", name, formatMs(ev.DurationMs)))
}

func (s *streamer) handleSuiteFinished(ev xcodebuild.SuiteFinished) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == ev.Name {
			s.stack = s.stack[:i]
			break
		}
	}
	suite, ok := s.active[ev.Name]
	if !ok {
		return
	}
	delete(s.active, ev.Name)

	// Outer suites that only wrap other suites have no direct tests.
	if suite.finished == 0 {
		return
	}
	elapsed := time.Since(suite.startTime).Seconds()
	if suite.failed > 0 {
		s.print(KindSuiteFail, fmt.Sprintf("  ✗ %-28s %d/%d  %.1fs", suite.name, suite.passed, suite.finished, elapsed))
		return
	}
	s.print(KindSuitePass, fmt.Sprintf("  ✓ %-28s %d/%d  %.1fs", suite.name, suite.passed, suite.finished, elapsed))
}

// redrawFooter shows the running suites in start order.
func (s *streamer) redrawFooter() {
	if len(s.active) == 0 {
		return
	}
	running := make([]*suiteProgress, 0, len(s.active))
	for _, name := range s.order {
		if suite, ok := s.active[name]; ok {
			running = append(running, suite)
		}
	}
	s.tw.DrawProgress(running, time.Now())
}

// finish erases the footer and prints the final summary line.
func (s *streamer) finish() {
	s.tw.ClearFooter()

	stats := xcodebuild.ComputeStats(s.collector.Result())
	s.tw.PrintLine(s.styleLine(KindSeparator, "  "+strings.Repeat("─", 45)))

	dur := stats.Duration.Seconds()
	if s.hasFailed {
		s.tw.PrintLine(s.styleLine(KindFail, fmt.Sprintf("  FAIL (%.1fs) %d/%d tests, %d suites",
			dur, stats.Failed, stats.Total, stats.Suites)))
		return
	}
	s.tw.PrintLine(s.styleLine(KindPass, fmt.Sprintf("  PASS (%.1fs) %d tests, %d suites",
		dur, stats.Total, stats.Suites)))
}

// result returns everything collected so far.
func (s *streamer) result() *xcodebuild.RunResult {
	return s.collector.Result()
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

// Run reads an xcodebuild transcript from r and renders it live to out.
// It returns the exit code (0 all passed, 1 failures, 2 read error,
// 130 interrupted) and the collected results, which are partial when
// reading stopped early.
func Run(ctx context.Context, r io.Reader, out io.Writer, width, height int, style StyleFunc, opts ...xcodebuild.StreamOption) (int, *xcodebuild.RunResult) {
	tw := newTermWriter(out, width, height)
	s := newStreamer(tw, style)

	err := xcodebuild.Stream(ctx, r, xcodebuild.NewParser(), s.handleLine, opts...)
	s.finish()
	if err != nil {
		if ctx.Err() != nil {
			return 130, s.result()
		}
		s.tw.PrintLine(s.styleLine(KindFail, "  "+err.Error()))
		return 2, s.result()
	}
	if s.hasFailed {
		return 1, s.result()
	}
	return 0, s.result()
}
