// Package xcodebuild parses the live transcript xcodebuild prints while
// running XCTest bundles into test lifecycle events.
package xcodebuild

// EventKind identifies the variant of an Event.
type EventKind string

const (
	KindSuiteStarted  EventKind = "suite-started"
	KindSuiteFinished EventKind = "suite-finished"
	KindTestStarted   EventKind = "test-started"
	KindTestFinished  EventKind = "test-finished"
	KindTestFailed    EventKind = "test-failed"
)

// Event is one of SuiteStarted, SuiteFinished, TestStarted, TestFinished
// or TestFailed. Consumers switch on the concrete type.
type Event interface {
	Kind() EventKind
}

// SuiteStarted opens a named test suite.
type SuiteStarted struct {
	Name         string
	LocationHint string
}

// SuiteFinished closes a named test suite.
type SuiteFinished struct {
	Name string
}

// TestStarted opens a test method. Target is empty when the transcript
// reported the class without a module qualifier.
type TestStarted struct {
	Name         string
	ClassName    string
	TargetName   string
	LocationHint string
}

// TestFinished closes a test method.
type TestFinished struct {
	Name       string
	DurationMs int64
}

// TestFailed reports a failing test. It is always followed by a
// TestFinished for the same name and duration.
type TestFailed struct {
	Name       string
	ClassName  string
	TargetName string
	Message    string
	Details    string
	DurationMs int64
}

func (SuiteStarted) Kind() EventKind  { return KindSuiteStarted }
func (SuiteFinished) Kind() EventKind { return KindSuiteFinished }
func (TestStarted) Kind() EventKind   { return KindTestStarted }
func (TestFinished) Kind() EventKind  { return KindTestFinished }
func (TestFailed) Kind() EventKind    { return KindTestFailed }
