package runconfig

import (
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/tuistrun/pkg/swifttest"
	"github.com/dkoosis/tuistrun/pkg/tuistgraph"
)

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrSchemeRequired)
	assert.ErrorIs(t, Config{Scheme: "  "}.Validate(), ErrSchemeRequired)
	assert.NoError(t, Config{Scheme: "App"}.Validate())
}

func TestOnlyTestingArgument(t *testing.T) {
	assert.Equal(t, "", Config{Scheme: "App"}.OnlyTestingArgument())
	assert.Equal(t, "AppTests", Config{TestTarget: "AppTests"}.OnlyTestingArgument())
	assert.Equal(t, "AppTests/LoginTests/testValid",
		Config{TestTarget: "AppTests", TestClass: "LoginTests", TestMethod: "testValid"}.OnlyTestingArgument())
	assert.Equal(t, "LoginTests/testValid",
		Config{TestClass: "LoginTests", TestMethod: "testValid"}.OnlyTestingArgument())
}

func TestSuggestedName(t *testing.T) {
	assert.Equal(t, "LoginTests.testValid", Config{TestClass: "LoginTests", TestMethod: "testValid"}.SuggestedName())
	assert.Equal(t, "LoginTests", Config{Scheme: "App", TestClass: "LoginTests"}.SuggestedName())
	assert.Equal(t, "App", Config{Scheme: "App", TestMethod: "testValid"}.SuggestedName())
	assert.Equal(t, "Tuist Test", Config{Scheme: " "}.SuggestedName())
}

func TestCommand(t *testing.T) {
	cfg := Config{
		Scheme:         "App",
		TestTarget:     "AppTests",
		TestClass:      "LoginTests",
		AdditionalArgs: "  -destination 'platform=iOS Simulator'  -quiet ",
	}
	argv, err := cfg.Command("")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"tuist", "xcodebuild", "test", "--scheme", "App",
		"-only-testing:AppTests/LoginTests",
		"-destination", "platform=iOS Simulator", "-quiet",
	}, argv)

	argv, err = Config{Scheme: "Core"}.Command("/opt/homebrew/bin/tuist")
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/homebrew/bin/tuist", "xcodebuild", "test", "--scheme", "Core"}, argv)
}

func TestCommand_UnterminatedQuote(t *testing.T) {
	_, err := Config{Scheme: "App", AdditionalArgs: "-destination 'oops"}.Command("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing additional arguments")
}

func TestCommandLine_QuotesArguments(t *testing.T) {
	line, err := Config{Scheme: "My App"}.CommandLine("")
	require.NoError(t, err)
	assert.NotContains(t, line, "--scheme My App")

	argv, err := shellquote.Split(line)
	require.NoError(t, err)
	assert.Equal(t, []string{"tuist", "xcodebuild", "test", "--scheme", "My App"}, argv)
}

func TestRerun(t *testing.T) {
	base := Config{Scheme: "App", TestClass: "LoginTests", AdditionalArgs: "-quiet"}
	cfg, err := Rerun(base, []string{
		"tuist-test://AppTests/LoginTests/testA",
		"tuist-test://AppTests/LoginTests/testA",
		"not a hint",
		"tuist-test://SignupTests/testB",
	})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Scheme:         "App",
		AdditionalArgs: "-quiet -only-testing:AppTests/LoginTests/testA -only-testing:SignupTests/testB",
	}, cfg)
	assert.Equal(t, "LoginTests", base.TestClass, "base is not modified")
}

func TestRerun_NothingToRerun(t *testing.T) {
	_, err := Rerun(Config{Scheme: "App"}, []string{"garbage"})
	assert.ErrorIs(t, err, ErrNoFailedTests)

	_, err = Rerun(Config{Scheme: "App"}, nil)
	assert.ErrorIs(t, err, ErrNoFailedTests)
}

func TestFromContext(t *testing.T) {
	schemes := []tuistgraph.Scheme{
		{Name: "App", TestTargets: []string{"AppTests", "AppUITests"}},
		{Name: "Login", TestTargets: []string{"LoginIntegrationTests", "LoginTests"}},
	}

	cfg, ok := FromContext(schemes, swifttest.Context{ClassName: "LoginTests", MethodName: "testValid"})
	require.True(t, ok)
	assert.Equal(t, Config{Scheme: "Login", TestTarget: "LoginTests", TestClass: "LoginTests", TestMethod: "testValid"}, cfg)
	assert.Equal(t, "LoginTests.testValid", cfg.SuggestedName())
}

func TestFromContext_FallsBackToFirstScheme(t *testing.T) {
	schemes := []tuistgraph.Scheme{
		{Name: "App", TestTargets: []string{"AppTests"}},
		{Name: "Core", TestTargets: []string{"CoreTests"}},
	}
	cfg, ok := FromContext(schemes, swifttest.Context{ClassName: "ProfileViewModelTests"})
	require.True(t, ok)
	assert.Equal(t, "App", cfg.Scheme)
	assert.Equal(t, "AppTests", cfg.TestTarget)
	assert.Empty(t, cfg.TestMethod)
}

func TestFromContext_CaseInsensitive(t *testing.T) {
	schemes := []tuistgraph.Scheme{
		{Name: "App", TestTargets: []string{"AppTests"}},
		{Name: "Feed", TestTargets: []string{"FEEDTESTS"}},
	}
	cfg, ok := FromContext(schemes, swifttest.Context{ClassName: "FeedTests"})
	require.True(t, ok)
	assert.Equal(t, "Feed", cfg.Scheme)
	assert.Equal(t, "FEEDTESTS", cfg.TestTarget)
}

func TestFromContext_NoSchemes(t *testing.T) {
	_, ok := FromContext(nil, swifttest.Context{ClassName: "X"})
	assert.False(t, ok)
}
