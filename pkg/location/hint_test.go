package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestHint(t *testing.T) {
	assert.Equal(t, "tuist-test://AppTests/LoginTests/testValid", TestHint("AppTests", "LoginTests", "testValid"))
	assert.Equal(t, "tuist-test://LoginTests/testValid", TestHint("", "LoginTests", "testValid"))
	assert.Equal(t, "tuist-suite://LoginTests", SuiteHint("LoginTests"))
}

func TestParse_ThreeSegments(t *testing.T) {
	h, ok := Parse("tuist-test://AppTests/LoginTests/testValid")
	require.True(t, ok)
	assert.Equal(t, Hint{Protocol: ProtocolTest, Target: "AppTests", Class: "LoginTests", Method: "testValid"}, h)
	assert.Equal(t, "AppTests/LoginTests/testValid", h.OnlyTesting())
	assert.Equal(t, "LoginTests.swift", h.SourceFile())
}

func TestParse_TwoSegments(t *testing.T) {
	h, ok := Parse("tuist-test://LoginTests/testValid")
	require.True(t, ok)
	assert.Empty(t, h.Target)
	assert.Equal(t, "LoginTests", h.Class)
	assert.Equal(t, "testValid", h.Method)
	assert.Equal(t, "LoginTests/testValid", h.OnlyTesting())
}

func TestParse_Suite(t *testing.T) {
	h, ok := Parse("tuist-suite://LoginTests")
	require.True(t, ok)
	assert.Equal(t, "LoginTests", h.Class)
	assert.Equal(t, "LoginTests", h.OnlyTesting())
	assert.Equal(t, "tuist-suite://LoginTests", h.String())
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"LoginTests/testValid",
		"tuist-test://",
		"tuist-test://OnlyOne",
		"tuist-test://a/b/c/d",
		"tuist-test://a//c",
		"file://LoginTests/testValid",
	} {
		_, ok := Parse(in)
		assert.False(t, ok, "expected %q to be rejected", in)
	}
}

func TestHint_RoundTrip(t *testing.T) {
	in := "tuist-test://AppTests/LoginTests/testValid"
	h, ok := Parse(in)
	require.True(t, ok)
	assert.Equal(t, in, h.String())
}
