// Package location builds and parses the location hints attached to test
// events. A hint is an opaque "<protocol>://<path>" string that an external
// locator resolves back to source.
package location

import "strings"

// Protocols used in hints.
const (
	ProtocolSuite = "tuist-suite"
	ProtocolTest  = "tuist-test"
)

const separator = "://"

// Hint is a parsed location hint.
type Hint struct {
	Protocol string
	Target   string // empty when the test was reported without a module qualifier
	Class    string
	Method   string // empty for suite hints
}

// SuiteHint returns the hint for a test suite.
func SuiteHint(name string) string {
	return ProtocolSuite + separator + name
}

// TestHint returns the hint for a test method. target may be empty.
func TestHint(target, class, method string) string {
	return ProtocolTest + separator + testPath(target, class, method)
}

func testPath(target, class, method string) string {
	if target != "" {
		return target + "/" + class + "/" + method
	}
	return class + "/" + method
}

// Parse splits a hint into its parts. Test paths must have two
// (class/method) or three (target/class/method) segments.
func Parse(hint string) (Hint, bool) {
	proto, path, ok := strings.Cut(hint, separator)
	if !ok || path == "" {
		return Hint{}, false
	}

	switch proto {
	case ProtocolSuite:
		return Hint{Protocol: proto, Class: path}, true
	case ProtocolTest:
		parts := strings.Split(path, "/")
		for _, p := range parts {
			if p == "" {
				return Hint{}, false
			}
		}
		switch len(parts) {
		case 3:
			return Hint{Protocol: proto, Target: parts[0], Class: parts[1], Method: parts[2]}, true
		case 2:
			return Hint{Protocol: proto, Class: parts[0], Method: parts[1]}, true
		}
	}
	return Hint{}, false
}

// String re-encodes the hint.
func (h Hint) String() string {
	if h.Protocol == ProtocolSuite {
		return SuiteHint(h.Class)
	}
	return TestHint(h.Target, h.Class, h.Method)
}

// OnlyTesting returns the identifier xcodebuild accepts after -only-testing:.
// Suite hints yield the bare suite name.
func (h Hint) OnlyTesting() string {
	if h.Protocol == ProtocolSuite {
		return h.Class
	}
	return testPath(h.Target, h.Class, h.Method)
}

// SourceFile is the file name a locator searches for: "<Class>.swift".
func (h Hint) SourceFile() string {
	return h.Class + ".swift"
}
