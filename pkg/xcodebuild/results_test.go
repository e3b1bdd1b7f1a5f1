package xcodebuild

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_PassAndFail(t *testing.T) {
	c := NewCollector()
	c.Add(
		SuiteStarted{Name: "LoginTests", LocationHint: "tuist-suite://LoginTests"},
		TestStarted{Name: "testA", ClassName: "LoginTests", TargetName: "AppTests", LocationHint: "tuist-test://AppTests/LoginTests/testA"},
		TestFinished{Name: "testA", DurationMs: 5},
		TestStarted{Name: "testB", ClassName: "LoginTests", TargetName: "AppTests", LocationHint: "tuist-test://AppTests/LoginTests/testB"},
		TestFailed{Name: "testB", ClassName: "LoginTests", TargetName: "AppTests", Message: "boom", Details: "A.swift:1: boom", DurationMs: 7},
		TestFinished{Name: "testB", DurationMs: 7},
		SuiteFinished{Name: "LoginTests"},
	)
	res := c.Result()

	require.Len(t, res.Suites, 1)
	assert.True(t, res.Suites[0].Finished)

	require.Len(t, res.Tests, 2)
	assert.Equal(t, StatusPass, res.Tests[0].Status)
	assert.Equal(t, StatusFail, res.Tests[1].Status)
	assert.Equal(t, "boom", res.Tests[1].Message)
	assert.Equal(t, 7*time.Millisecond, res.Tests[1].Duration)

	s := ComputeStats(res)
	assert.Equal(t, Stats{Total: 2, Passed: 1, Failed: 1, Suites: 1, Duration: 12 * time.Millisecond}, s)
}

func TestCollector_UnfinishedTestIsRunning(t *testing.T) {
	c := NewCollector()
	c.Add(TestStarted{Name: "testHang", ClassName: "SlowTests"})
	s := ComputeStats(c.Result())
	assert.Equal(t, 1, s.Running)
	assert.Zero(t, s.Passed)
}

func TestCollector_FailureWithoutStart(t *testing.T) {
	c := NewCollector()
	c.Add(
		TestFailed{Name: "testX", ClassName: "SignupTests", Message: "Test failed", DurationMs: 3},
		TestFinished{Name: "testX", DurationMs: 3},
	)
	res := c.Result()
	require.Len(t, res.Tests, 1)
	assert.Equal(t, StatusFail, res.Tests[0].Status)
	assert.Equal(t, "tuist-test://SignupTests/testX", res.Tests[0].LocationHint)
}

func TestCollector_ResultIsSnapshot(t *testing.T) {
	c := NewCollector()
	c.Add(TestStarted{Name: "testA", ClassName: "A"})
	res := c.Result()
	c.Add(TestFinished{Name: "testA", DurationMs: 1})
	assert.Equal(t, StatusRunning, res.Tests[0].Status)
}
