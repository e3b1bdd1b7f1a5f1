// Package swifttest recovers XCTest topology (test classes and their test
// methods) from Swift source text without a Swift parser.
//
// Class bodies are found by matching a declaration and then counting every
// brace until depth returns to zero, so closures and nested types are
// transparent. Offsets are byte offsets into the scanned text.
package swifttest

import (
	"regexp"
	"strings"
)

// DefaultBases are the superclasses that mark a test class.
var DefaultBases = []string{"XCTestCase"}

var (
	testFuncRe = regexp.MustCompile(`\bfunc\s+(test\w+)\s*\(`)
	anyFuncRe  = regexp.MustCompile(`\bfunc\s+\w+\s*\(`)

	defaultScanner = NewScanner()
)

// Scanner finds test classes deriving from a fixed set of base classes.
// It holds no mutable state and is safe for concurrent use.
type Scanner struct {
	classRe *regexp.Regexp
}

// NewScanner returns a scanner for classes inheriting from any of bases,
// directly or through a comma-separated conformance list. With no bases it
// uses DefaultBases.
func NewScanner(bases ...string) *Scanner {
	if len(bases) == 0 {
		bases = DefaultBases
	}
	quoted := make([]string, len(bases))
	for i, b := range bases {
		quoted[i] = regexp.QuoteMeta(b)
	}
	pattern := `class\s+(\w+)\s*:\s*[^{]*\b(?:` + strings.Join(quoted, "|") + `)\b[^{]*\{`
	return &Scanner{classRe: regexp.MustCompile(pattern)}
}

// classRange is a test class body. End is one past its closing brace.
type classRange struct {
	name  string
	start int
	end   int
}

func (s *Scanner) classRanges(text string) []classRange {
	var ranges []classRange
	for _, m := range s.classRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		start := m[0]
		brace := m[1] - 1

		depth := 1
		i := brace + 1
		for i < len(text) && depth > 0 {
			switch text[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			i++
		}
		ranges = append(ranges, classRange{name: name, start: start, end: i})
	}
	return ranges
}

// testMethod is a test function inside a class with absolute offsets.
type testMethod struct {
	name     string
	offset   int
	scopeEnd int // next func declaration or class end
}

func testMethods(text string, r classRange) []testMethod {
	body := text[r.start:r.end]

	var funcs []int
	for _, loc := range anyFuncRe.FindAllStringIndex(body, -1) {
		funcs = append(funcs, r.start+loc[0])
	}

	var methods []testMethod
	for _, m := range testFuncRe.FindAllStringSubmatchIndex(body, -1) {
		offset := r.start + m[0]
		end := r.end
		for _, f := range funcs {
			if f > offset {
				end = f
				break
			}
		}
		methods = append(methods, testMethod{
			name:     body[m[2]:m[3]],
			offset:   offset,
			scopeEnd: end,
		})
	}
	return methods
}

// ScanAll lists every test class followed by its test methods, class by
// class, in source order.
func (s *Scanner) ScanAll(text string) []Element {
	var elements []Element
	for _, r := range s.classRanges(text) {
		elements = append(elements, TestClass{ClassName: r.name, Offset: r.start})
		for _, m := range testMethods(text, r) {
			elements = append(elements, TestMethod{ClassName: r.name, MethodName: m.name, Offset: m.offset})
		}
	}
	return elements
}

// Locate returns the test class, and the test method when there is one,
// enclosing offset. It returns false when offset is outside every test
// class or outside the text.
func (s *Scanner) Locate(text string, offset int) (Context, bool) {
	if offset < 0 || offset > len(text) {
		return Context{}, false
	}
	for _, r := range s.classRanges(text) {
		if offset < r.start || offset > r.end {
			continue
		}
		for _, m := range testMethods(text, r) {
			if offset >= m.offset && offset < m.scopeEnd {
				return Context{
					ClassName:    r.name,
					MethodName:   m.name,
					ClassOffset:  r.start,
					MethodOffset: m.offset,
				}, true
			}
		}
		return Context{ClassName: r.name, ClassOffset: r.start, MethodOffset: -1}, true
	}
	return Context{}, false
}

// ScanAll scans text with the default scanner.
func ScanAll(text string) []Element {
	return defaultScanner.ScanAll(text)
}

// Locate queries text with the default scanner.
func Locate(text string, offset int) (Context, bool) {
	return defaultScanner.Locate(text, offset)
}

// Position converts a byte offset into 1-based line and column numbers.
func Position(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := text[:offset]
	line = strings.Count(prefix, "\n") + 1
	col = offset - (strings.LastIndexByte(prefix, '\n') + 1) + 1
	return line, col
}
