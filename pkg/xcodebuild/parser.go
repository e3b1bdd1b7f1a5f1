package xcodebuild

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/tuistrun/pkg/location"
)

// Transcript line shapes. Compiled once at package init.
var (
	suiteStartedRe  = regexp.MustCompile(`^\s*Test Suite '([^']+)' started at .+$`)
	suiteFinishedRe = regexp.MustCompile(`^\s*Test Suite '([^']+)' (passed|failed) at .+\.$`)
	testStartedRe   = regexp.MustCompile(`^\s*Test Case '-\[(\S+)\s+(\S+)\]' started\.$`)
	testPassedRe    = regexp.MustCompile(`^\s*Test Case '-\[(\S+)\s+(\S+)\]' passed \((\d+\.\d+) seconds\)\.$`)
	testFailedRe    = regexp.MustCompile(`^\s*Test Case '-\[(\S+)\s+(\S+)\]' failed \((\d+\.\d+) seconds\)\.$`)
	failureRe       = regexp.MustCompile(`^(.+):(\d+): error: -\[(\S+)\s+(\S+)\] : (.+)$`)
)

// Parser turns transcript lines into events. It is stateful: create one per
// transcript and feed it every line in order from a single goroutine.
type Parser struct {
	state State
}

// NewParser returns a parser with empty state.
func NewParser() *Parser {
	return &Parser{}
}

// State returns a snapshot of the rolling state.
func (p *Parser) State() State {
	s := State{Target: p.state.Target, Class: p.state.Class}
	for _, f := range p.state.Pending.Fragments() {
		s.Pending.Add(f)
	}
	return s
}

type lineHandler func(p *Parser, line string) ([]Event, bool)

var handlers = []lineHandler{
	(*Parser).suiteStarted,
	(*Parser).suiteFinished,
	(*Parser).testStarted,
	(*Parser).testPassed,
	(*Parser).testFailed,
	(*Parser).failureDetail,
}

// ProcessLine parses one line. ok is false when the line is blank or not a
// transcript line; the caller should forward it verbatim. A recognized line
// may yield no events (filtered suites, accumulated failure details).
func (p *Parser) ProcessLine(line string) (events []Event, ok bool) {
	if strings.TrimSpace(line) == "" {
		return nil, false
	}
	for _, h := range handlers {
		if events, ok := h(p, line); ok {
			return events, true
		}
	}
	return nil, false
}

func (p *Parser) suiteStarted(line string) ([]Event, bool) {
	m := suiteStartedRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name := m[1]
	if skipSuite(name) {
		return []Event{}, true
	}
	return []Event{SuiteStarted{Name: name, LocationHint: location.SuiteHint(name)}}, true
}

func (p *Parser) suiteFinished(line string) ([]Event, bool) {
	m := suiteFinishedRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name := m[1]
	if skipSuite(name) {
		return []Event{}, true
	}
	return []Event{SuiteFinished{Name: name}}, true
}

func (p *Parser) testStarted(line string) ([]Event, bool) {
	m := testStartedRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	target, class := splitQualified(m[1])
	method := m[2]

	p.state.StartTest(target, class)
	return []Event{TestStarted{
		Name:         method,
		ClassName:    class,
		TargetName:   target,
		LocationHint: location.TestHint(target, class, method),
	}}, true
}

func (p *Parser) testPassed(line string) ([]Event, bool) {
	m := testPassedRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	p.state.PassTest()
	return []Event{TestFinished{Name: m[2], DurationMs: parseDurationMs(m[3])}}, true
}

func (p *Parser) testFailed(line string) ([]Event, bool) {
	m := testFailedRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	method := m[2]
	duration := parseDurationMs(m[3])

	class := p.state.Class
	if class == "" {
		_, class = splitQualified(m[1])
	}
	target := p.state.Target
	message, details := p.state.FailTest()

	return []Event{
		TestFailed{
			Name:       method,
			ClassName:  class,
			TargetName: target,
			Message:    message,
			Details:    details,
			DurationMs: duration,
		},
		TestFinished{Name: method, DurationMs: duration},
	}, true
}

func (p *Parser) failureDetail(line string) ([]Event, bool) {
	m := failureRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	lineNo, err := strconv.Atoi(m[2])
	if err != nil {
		lineNo = 0
	}
	p.state.AddFailure(FailureFragment{FilePath: m[1], LineNumber: lineNo, Message: m[5]})
	return []Event{}, true
}

// splitQualified splits "Target.Class" (or "Target.Outer.Class") into target
// and innermost class. Without a dot the whole name is the class.
func splitQualified(qualified string) (target, class string) {
	target, rest, ok := strings.Cut(qualified, ".")
	if !ok {
		return "", qualified
	}
	if i := strings.LastIndexByte(rest, '.'); i >= 0 {
		rest = rest[i+1:]
	}
	return target, rest
}

// parseDurationMs converts "<int>.<frac>" seconds to whole milliseconds,
// truncating extra fractional digits. It works on the decimal text so that
// values like 12.345 never lose a millisecond to float rounding.
func parseDurationMs(seconds string) int64 {
	whole, frac, _ := strings.Cut(seconds, ".")
	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	frac += strings.Repeat("0", 3-len(frac))
	ms, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0
	}
	return secs*1000 + ms
}

func skipSuite(name string) bool {
	return name == "AllTests" || strings.HasSuffix(name, ".xctest")
}
