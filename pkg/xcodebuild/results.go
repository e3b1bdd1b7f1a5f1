package xcodebuild

import (
	"time"

	"github.com/dkoosis/tuistrun/pkg/location"
)

// Test statuses.
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusRunning = "running"
)

// TestResult is the outcome of one test method.
type TestResult struct {
	Name         string
	ClassName    string
	TargetName   string
	Suite        string // innermost open suite when the test started
	LocationHint string
	Status       string
	Duration     time.Duration
	Message      string
	Details      string
}

// SuiteResult is a reported suite.
type SuiteResult struct {
	Name         string
	LocationHint string
	Finished     bool
}

// RunResult is everything collected from one transcript.
type RunResult struct {
	Suites []SuiteResult
	Tests  []TestResult
}

// Failed returns the failing tests in transcript order.
func (r *RunResult) Failed() []TestResult {
	var out []TestResult
	for _, t := range r.Tests {
		if t.Status == StatusFail {
			out = append(out, t)
		}
	}
	return out
}

// Stats holds aggregate counts for a run.
type Stats struct {
	Total    int
	Passed   int
	Failed   int
	Running  int // started but never finished
	Suites   int
	Duration time.Duration
}

// ComputeStats aggregates a run.
func ComputeStats(r *RunResult) Stats {
	s := Stats{Suites: len(r.Suites), Total: len(r.Tests)}
	for _, t := range r.Tests {
		switch t.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		default:
			s.Running++
		}
		s.Duration += t.Duration
	}
	return s
}

// Collector folds events into a RunResult.
type Collector struct {
	result  RunResult
	suites  []string       // open suite stack
	open    map[string]int // test name -> index of its unfinished result
	suiteAt map[string]int // suite name -> index of its latest result
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		open:    make(map[string]int),
		suiteAt: make(map[string]int),
	}
}

// Add folds events in order.
func (c *Collector) Add(events ...Event) {
	for _, e := range events {
		c.add(e)
	}
}

func (c *Collector) add(e Event) {
	switch ev := e.(type) {
	case SuiteStarted:
		c.suiteAt[ev.Name] = len(c.result.Suites)
		c.result.Suites = append(c.result.Suites, SuiteResult{Name: ev.Name, LocationHint: ev.LocationHint})
		c.suites = append(c.suites, ev.Name)
	case SuiteFinished:
		if i, ok := c.suiteAt[ev.Name]; ok {
			c.result.Suites[i].Finished = true
		}
		for i := len(c.suites) - 1; i >= 0; i-- {
			if c.suites[i] == ev.Name {
				c.suites = c.suites[:i]
				break
			}
		}
	case TestStarted:
		c.open[ev.Name] = len(c.result.Tests)
		c.result.Tests = append(c.result.Tests, TestResult{
			Name:         ev.Name,
			ClassName:    ev.ClassName,
			TargetName:   ev.TargetName,
			Suite:        c.currentSuite(),
			LocationHint: ev.LocationHint,
			Status:       StatusRunning,
		})
	case TestFailed:
		i := c.lookup(ev.Name, ev.ClassName, ev.TargetName)
		t := &c.result.Tests[i]
		t.Status = StatusFail
		t.Message = ev.Message
		t.Details = ev.Details
	case TestFinished:
		i, ok := c.open[ev.Name]
		if !ok {
			return
		}
		t := &c.result.Tests[i]
		t.Duration = time.Duration(ev.DurationMs) * time.Millisecond
		if t.Status == StatusRunning {
			t.Status = StatusPass
		}
		delete(c.open, ev.Name)
	}
}

// lookup finds the open result for a test, creating one for a failure
// reported without a start line.
func (c *Collector) lookup(name, class, target string) int {
	if i, ok := c.open[name]; ok {
		return i
	}
	i := len(c.result.Tests)
	c.result.Tests = append(c.result.Tests, TestResult{
		Name:         name,
		ClassName:    class,
		TargetName:   target,
		Suite:        c.currentSuite(),
		LocationHint: location.TestHint(target, class, name),
		Status:       StatusRunning,
	})
	c.open[name] = i
	return i
}

func (c *Collector) currentSuite() string {
	if len(c.suites) == 0 {
		return ""
	}
	return c.suites[len(c.suites)-1]
}

// Result returns the collected run. Later Adds do not affect it.
func (c *Collector) Result() *RunResult {
	r := &RunResult{
		Suites: append([]SuiteResult(nil), c.result.Suites...),
		Tests:  append([]TestResult(nil), c.result.Tests...),
	}
	return r
}
