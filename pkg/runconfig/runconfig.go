// Package runconfig models a `tuist xcodebuild test` invocation: the scheme
// to test, an optional target/class/method selection and extra arguments.
package runconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/dkoosis/tuistrun/pkg/location"
	"github.com/dkoosis/tuistrun/pkg/swifttest"
	"github.com/dkoosis/tuistrun/pkg/tuistgraph"
)

// DefaultExecutable is used when no tuist path is configured.
const DefaultExecutable = "tuist"

const defaultName = "Tuist Test"

var (
	// ErrSchemeRequired is returned by Validate when no scheme is set.
	ErrSchemeRequired = errors.New("scheme name is required")
	// ErrNoFailedTests is returned by Rerun when there is nothing to rerun.
	ErrNoFailedTests = errors.New("no failed tests to rerun")
)

// Config selects what to test.
type Config struct {
	Scheme         string `yaml:"scheme"`
	AdditionalArgs string `yaml:"extra_args"`
	TestTarget     string `yaml:"target,omitempty"`
	TestClass      string `yaml:"class,omitempty"`
	TestMethod     string `yaml:"method,omitempty"`
}

// Validate checks the configuration can be run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Scheme) == "" {
		return ErrSchemeRequired
	}
	return nil
}

// OnlyTestingArgument joins the set selection parts with "/". It is empty
// when nothing is selected.
func (c Config) OnlyTestingArgument() string {
	var parts []string
	for _, p := range []string{c.TestTarget, c.TestClass, c.TestMethod} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// SuggestedName names the configuration after its narrowest selection.
func (c Config) SuggestedName() string {
	switch {
	case c.TestClass != "" && c.TestMethod != "":
		return c.TestClass + "." + c.TestMethod
	case c.TestClass != "":
		return c.TestClass
	case strings.TrimSpace(c.Scheme) != "":
		return c.Scheme
	default:
		return defaultName
	}
}

// Args returns the arguments passed to tuist. AdditionalArgs is split with
// shell quoting rules.
func (c Config) Args() ([]string, error) {
	extra, err := shellquote.Split(c.AdditionalArgs)
	if err != nil {
		return nil, fmt.Errorf("parsing additional arguments: %w", err)
	}
	args := []string{"xcodebuild", "test", "--scheme", c.Scheme}
	if sel := c.OnlyTestingArgument(); sel != "" {
		args = append(args, "-only-testing:"+sel)
	}
	return append(args, extra...), nil
}

// Command returns the full argv, starting with the tuist executable.
func (c Config) Command(executable string) ([]string, error) {
	if executable == "" {
		executable = DefaultExecutable
	}
	args, err := c.Args()
	if err != nil {
		return nil, err
	}
	return append([]string{executable}, args...), nil
}

// CommandLine renders Command as a single shell-quoted string.
func (c Config) CommandLine(executable string) (string, error) {
	argv, err := c.Command(executable)
	if err != nil {
		return "", err
	}
	return shellquote.Join(argv...), nil
}

// Rerun returns a copy of base that runs only the tests behind the given
// location hints. The selection is cleared and one -only-testing flag per
// distinct hint is appended to the additional arguments.
func Rerun(base Config, hints []string) (Config, error) {
	seen := make(map[string]bool)
	var flags []string
	for _, h := range hints {
		parsed, ok := location.Parse(h)
		if !ok {
			continue
		}
		id := parsed.OnlyTesting()
		if seen[id] {
			continue
		}
		seen[id] = true
		flags = append(flags, "-only-testing:"+id)
	}
	if len(flags) == 0 {
		return Config{}, ErrNoFailedTests
	}

	cfg := base
	cfg.TestTarget, cfg.TestClass, cfg.TestMethod = "", "", ""
	extra := strings.TrimSpace(cfg.AdditionalArgs)
	joined := strings.Join(flags, " ")
	if extra != "" {
		cfg.AdditionalArgs = extra + " " + joined
	} else {
		cfg.AdditionalArgs = joined
	}
	return cfg, nil
}

// FromContext builds a configuration for the test under a cursor. The
// scheme is the first one with a test target whose name contains the class
// name (case-insensitive), falling back to the first scheme; the target is
// picked the same way within that scheme. It returns false when there are
// no schemes.
func FromContext(schemes []tuistgraph.Scheme, ctx swifttest.Context) (Config, bool) {
	if len(schemes) == 0 {
		return Config{}, false
	}

	scheme := schemes[0]
	for _, s := range schemes {
		if matchTarget(s.TestTargets, ctx.ClassName) != "" {
			scheme = s
			break
		}
	}

	target := matchTarget(scheme.TestTargets, ctx.ClassName)
	if target == "" && len(scheme.TestTargets) > 0 {
		target = scheme.TestTargets[0]
	}

	return Config{
		Scheme:     scheme.Name,
		TestTarget: target,
		TestClass:  ctx.ClassName,
		TestMethod: ctx.MethodName,
	}, true
}

func matchTarget(targets []string, class string) string {
	lc := strings.ToLower(class)
	for _, t := range targets {
		if strings.Contains(strings.ToLower(t), lc) {
			return t
		}
	}
	return ""
}
