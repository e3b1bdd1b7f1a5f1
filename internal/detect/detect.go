// Package detect sniffs stdin to determine the input format.
package detect

import (
	"bufio"
	"bytes"
	"regexp"

	"github.com/dkoosis/tuistrun/pkg/tuistgraph"
	"github.com/dkoosis/tuistrun/pkg/xcodebuild"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown    Format = iota
	Transcript        // xcodebuild test output
	Graph             // tuist graph -f json document
	Swift             // Swift source containing XCTest classes
)

// String returns the format name used in log output.
func (f Format) String() string {
	switch f {
	case Transcript:
		return "transcript"
	case Graph:
		return "graph"
	case Swift:
		return "swift"
	default:
		return "unknown"
	}
}

// maxSniffLines bounds how far into the input transcript detection looks.
const maxSniffLines = 200

var swiftTestRe = regexp.MustCompile(`(?m)^\s*import\s+XCTest\b|class\s+\w+\s*:\s*[^{]*\bXCTestCase\b`)

// Sniff examines the first bytes of input to determine format.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Unknown
	}

	if trimmed[0] == '{' && tuistgraph.IsGraph(trimmed) {
		return Graph
	}

	if isTranscript(trimmed) {
		return Transcript
	}

	if swiftTestRe.Match(trimmed) {
		return Swift
	}

	return Unknown
}

// isTranscript reports whether any of the first lines is a transcript line.
// A throwaway parser is used so detection never disturbs a real one.
func isTranscript(data []byte) bool {
	p := xcodebuild.NewParser()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), xcodebuild.DefaultMaxLineLength)
	for n := 0; n < maxSniffLines && scanner.Scan(); n++ {
		if _, ok := p.ProcessLine(scanner.Text()); ok {
			return true
		}
	}
	return false
}
