package xcodebuild

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxLineLength bounds a single transcript line.
const DefaultMaxLineLength = 1024 * 1024

// LineFunc receives every line of the transcript in order. ok is false for
// lines the parser did not recognize; those should be passed through as-is.
type LineFunc func(line string, events []Event, ok bool)

// StreamOption configures Stream.
type StreamOption func(*streamConfig)

type streamConfig struct {
	maxLineLength int
}

// WithMaxLineLength overrides DefaultMaxLineLength. Non-positive values are ignored.
func WithMaxLineLength(n int) StreamOption {
	return func(c *streamConfig) {
		if n > 0 {
			c.maxLineLength = n
		}
	}
}

// scanResult carries a scanned line or terminal error from the scanner goroutine.
type scanResult struct {
	line string
	err  error
}

// Stream reads the transcript from r line by line, feeds each line to p and
// calls fn with the outcome. It stops on EOF or when ctx is cancelled.
//
// Cancellation: the scanner runs in a background goroutine. On cancel,
// Stream closes r if it implements io.Closer to unblock the scanner;
// otherwise the caller must close the underlying reader.
func Stream(ctx context.Context, r io.Reader, p *Parser, fn LineFunc, opts ...StreamOption) error {
	cfg := streamConfig{maxLineLength: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(&cfg)
	}

	initial := min(64*1024, cfg.maxLineLength)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), cfg.maxLineLength)

	lines := make(chan scanResult)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanResult{line: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- scanResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
			return ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				return fmt.Errorf("reading transcript: %w", res.err)
			}
			line := strings.TrimRight(res.line, "\r\n")
			events, recognized := p.ProcessLine(line)
			fn(line, events, recognized)
		}
	}
}

// Parse consumes a whole transcript and returns the collected results and
// the number of lines that were not transcript lines.
func Parse(ctx context.Context, r io.Reader, opts ...StreamOption) (*RunResult, int, error) {
	c := NewCollector()
	var unrecognized int
	err := Stream(ctx, r, NewParser(), func(line string, events []Event, ok bool) {
		if !ok {
			if strings.TrimSpace(line) != "" {
				unrecognized++
			}
			return
		}
		c.Add(events...)
	}, opts...)
	if err != nil {
		return nil, unrecognized, err
	}
	return c.Result(), unrecognized, nil
}
