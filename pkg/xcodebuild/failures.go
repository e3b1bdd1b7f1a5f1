package xcodebuild

import (
	"strconv"
	"strings"
)

const defaultFailureMessage = "Test failed"

// FailureFragment is one "file:line: error:" line reported for the running test.
type FailureFragment struct {
	FilePath   string
	LineNumber int
	Message    string
}

// FailureAccumulator collects fragments between a test start and its result.
type FailureAccumulator struct {
	fragments []FailureFragment
}

// Add appends a fragment.
func (a *FailureAccumulator) Add(f FailureFragment) {
	a.fragments = append(a.fragments, f)
}

// Len returns the number of pending fragments.
func (a *FailureAccumulator) Len() int {
	return len(a.fragments)
}

// Fragments returns a copy of the pending fragments.
func (a *FailureAccumulator) Fragments() []FailureFragment {
	return append([]FailureFragment(nil), a.fragments...)
}

// Reset drops all pending fragments.
func (a *FailureAccumulator) Reset() {
	a.fragments = a.fragments[:0]
}

// Message joins fragment messages with newlines, or returns
// "Test failed" when nothing is pending.
func (a *FailureAccumulator) Message() string {
	if len(a.fragments) == 0 {
		return defaultFailureMessage
	}
	msgs := make([]string, len(a.fragments))
	for i, f := range a.fragments {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "\n")
}

// Details joins "file:line: message" per fragment with newlines.
func (a *FailureAccumulator) Details() string {
	lines := make([]string, len(a.fragments))
	for i, f := range a.fragments {
		lines[i] = f.FilePath + ":" + strconv.Itoa(f.LineNumber) + ": " + f.Message
	}
	return strings.Join(lines, "\n")
}

// State is the parser's rolling per-test state.
type State struct {
	Target  string
	Class   string
	Pending FailureAccumulator
}

// StartTest records the identity of the test that just started and drops
// any fragments left over from the previous test.
func (s *State) StartTest(target, class string) {
	s.Target = target
	s.Class = class
	s.Pending.Reset()
}

// AddFailure records a failure fragment for the running test.
func (s *State) AddFailure(f FailureFragment) {
	s.Pending.Add(f)
}

// PassTest ends the running test successfully.
func (s *State) PassTest() {
	s.Pending.Reset()
}

// FailTest ends the running test and returns the joined message and
// details of its fragments.
func (s *State) FailTest() (message, details string) {
	message, details = s.Pending.Message(), s.Pending.Details()
	s.Pending.Reset()
	return message, details
}
